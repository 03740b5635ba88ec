package gshapeaux

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glsl"
)

func TestLoadConfig(t *testing.T) {
	const doc = `
title = "test"
width = 320
height = 240

[[item]]
shape = "cube.wire"
style = "color"
mover = "still"

[[item]]
shape = "logo"
style = "plain"
text = "go"
detail = 2
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "test" || cfg.Width != 320 || cfg.Height != 240 {
		t.Errorf("window fields not decoded: %+v", cfg)
	}
	def := DefaultConfig()
	if cfg.FOV != def.FOV || cfg.Background != def.Background {
		t.Error("absent fields should keep default values")
	}
	if len(cfg.Items) != 2 {
		t.Fatalf("want 2 items, got %d", len(cfg.Items))
	}
	if cfg.Items[1].Text != "go" || cfg.Items[1].Detail != 2 {
		t.Errorf("item fields not decoded: %+v", cfg.Items[1])
	}

	cfg, err = LoadConfig(strings.NewReader(`title = "no items"`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Items) != len(def.Items) {
		t.Errorf("want default items when none configured, got %d", len(cfg.Items))
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for _, doc := range []string{
		"colour = 1",
		"width = ",
		"width = -1",
		"fov = 180",
		"[[item]]\nshape = \"teapot\"",
		"[[item]]\nshape = \"cube.blueprint\"",
		"[[item]]\nshape = \"cube\"\nstyle = \"toon\"",
		"[[item]]\nshape = \"cube\"\nmover = \"orbit\"",
		"[[item]]\nshape = \"cube\"\ndetail = 100",
	} {
		_, err := LoadConfig(strings.NewReader(doc))
		if err == nil {
			t.Errorf("expected error for config %q", doc)
		}
	}
}

func TestShapes(t *testing.T) {
	names := ShapeNames()
	if len(names) != len(shapes) {
		t.Fatal("ShapeNames mismatch")
	}
	for _, name := range names {
		for _, variant := range []string{"", ".wire", ".points", ".vectors"} {
			item := ItemConfig{Shape: name + variant}
			d, err := NewShape(item, gshape.VertexAll)
			if err != nil {
				t.Errorf("%s: %s", item.Shape, err)
				continue
			}
			if d.VertexCount() == 0 || len(d.IndexBuffers()) == 0 {
				t.Errorf("%s: empty shape", item.Shape)
			}
			if err = d.Validate(); err != nil {
				t.Errorf("%s: %s", item.Shape, err)
			}
		}
	}
	_, err := NewShape(ItemConfig{Shape: "cube.vectors"}, gshape.VertexPos)
	if err == nil {
		t.Error("vectors variant without normals should fail")
	}
}

func TestNewItems(t *testing.T) {
	cfg := DefaultConfig()
	items, err := NewItems(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != len(cfg.Items) {
		t.Fatalf("want %d items, got %d", len(cfg.Items), len(items))
	}
	for _, item := range items {
		need := item.Style.Requires()
		if item.Shape.Populated()&need != need {
			t.Errorf("%s: missing attributes for %s", item.Name, item.Style)
		}
		if item.Diagonal() <= 0 {
			t.Errorf("%s: empty bounds", item.Name)
		}
	}

	cfg.Items = []ItemConfig{{Shape: "cube.vectors", Style: "plain"}}
	_, err = NewItems(cfg)
	if err == nil {
		t.Error("plain style carries no normals to draw, expected error")
	}
}

func TestExportSTL(t *testing.T) {
	var buf bytes.Buffer
	err := ExportSTL(&buf, ItemConfig{Shape: "cube"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 84+50*12 {
		t.Errorf("unexpected cube STL size %d", buf.Len())
	}
	buf.Reset()
	err = ExportSTL(&buf, ItemConfig{Shape: "cube.wire"}, true)
	if err == nil {
		t.Error("wireframe has no triangles, expected error")
	}
}

func TestUIInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	err := UI(context.Background(), cfg)
	if err == nil {
		t.Error("expected configuration error")
	}
}

func TestStyleNames(t *testing.T) {
	// Every style named by the default config must parse.
	for _, item := range DefaultConfig().Items {
		if _, err := glsl.ParseStyle(item.Style); err != nil {
			t.Error(err)
		}
	}
}

const tol = 1e-5

func vecEqual(a, b ms3.Vec) bool {
	return math32.Abs(a.X-b.X) < tol && math32.Abs(a.Y-b.Y) < tol && math32.Abs(a.Z-b.Z) < tol
}

func TestMatrices(t *testing.T) {
	id := Identity4()
	m := RotationZ(0.3)
	if Mul4(id, m) != m || Mul4(m, id) != m {
		t.Error("identity product changed matrix")
	}
	x := ms3.Vec{X: 1}
	if got := MulVec4(RotationY(math32.Pi/2), x, 1); !vecEqual(got, ms3.Vec{Z: -1}) {
		t.Errorf("RotationY(pi/2) maps X to %v", got)
	}
	if got := MulVec4(RotationZ(math32.Pi/2), x, 1); !vecEqual(got, ms3.Vec{Y: 1}) {
		t.Errorf("RotationZ(pi/2) maps X to %v", got)
	}
	inv := Mul4(RotationX(0.7), RotationX(-0.7))
	for i := range inv {
		if math32.Abs(inv[i]-id[i]) > tol {
			t.Fatalf("rotation inverse mismatch: %v", inv)
		}
	}

	eye := ms3.Vec{X: 1, Y: 2, Z: 3}
	view := LookAt(eye, ms3.Vec{}, ms3.Vec{Y: 1})
	if got := MulVec4(view, eye, 1); !vecEqual(got, ms3.Vec{}) {
		t.Errorf("eye maps to %v in view space", got)
	}
	dist := ms3.Norm(eye)
	if got := MulVec4(view, ms3.Vec{}, 1); !vecEqual(got, ms3.Vec{Z: -dist}) {
		t.Errorf("target maps to %v in view space", got)
	}
}

func TestCamera(t *testing.T) {
	cam := Camera{Distance: 2, FOV: 1}
	cam.Orbit(0, 10)
	if cam.Pitch >= math32.Pi/2 {
		t.Errorf("pitch not clamped: %v", cam.Pitch)
	}
	if n := ms3.Norm(cam.Eye()); math32.Abs(n-2) > tol {
		t.Errorf("eye not at camera distance: %v", n)
	}
	cam.Zoom(100, 0.5, 5)
	if cam.Distance != 5 {
		t.Errorf("zoom not clamped: %v", cam.Distance)
	}
	cam.Zoom(0, 0.5, 5)
	if cam.Distance != 0.5 {
		t.Errorf("zoom not clamped: %v", cam.Distance)
	}
}

func TestMovers(t *testing.T) {
	for _, name := range []string{"", "still", "spin", "tumble"} {
		m, err := ParseMover(name)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Model(0); got != Identity4() {
			t.Errorf("mover %q should start at identity, got %v", name, got)
		}
	}
	if (Still{}).Model(10) != Identity4() {
		t.Error("still mover moved")
	}
}

func TestColors(t *testing.T) {
	red := HueColor(0)
	if red.X <= red.Y || math32.Abs(red.Y-red.Z) > tol {
		t.Errorf("hue 0 should be red, got %v", red)
	}
	if HueColor(1.25) != HueColor(0.25) {
		t.Error("hue should wrap")
	}
	white := Highlight(HueColor(0.4), 1)
	if !vecEqual(white, ms3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("full highlight should be white, got %v", white)
	}
	c := HueColor(0.6)
	h0, _, _ := rgbToHSV(c.X, c.Y, c.Z)
	if math32.Abs(h0-0.6) > 1e-4 {
		t.Errorf("hue roundtrip: want 0.6, got %v", h0)
	}
}
