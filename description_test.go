package gshape

import (
	"errors"
	"slices"
	"testing"

	"github.com/soypat/geometry/ms3"
)

// quad returns a unit square on the XY plane with texture coordinates.
func quad() *Description {
	d := NewDescription()
	d.Pos.Add(0, 0, 0)
	d.Pos.Add(1, 0, 0)
	d.Pos.Add(1, 1, 0)
	d.Pos.Add(0, 1, 0)
	d.TexCoord.Add(0, 0)
	d.TexCoord.Add(1, 0)
	d.TexCoord.Add(1, 1)
	d.TexCoord.Add(0, 1)
	return d
}

func TestVertexType(t *testing.T) {
	vt := VertexPos | VertexNormal | VertexTexCoord
	if got := vt.String(); got != "POS|NORM|TXT" {
		t.Errorf("unexpected string %q", got)
	}
	parsed, ok := ParseVertexType("pos | norm|txt")
	if !ok || parsed != vt {
		t.Errorf("parse mismatch: %s", parsed)
	}
	if _, ok := ParseVertexType("POS|XYZ"); ok {
		t.Error("unknown attribute parsed")
	}
	if got := VertexAll.Stride(); got != 28 {
		t.Errorf("want stride 28 for all attributes, got %d", got)
	}
	l := Layout{Type: vt, Stride: vt.Stride()}
	if l.Offset(AttribPos) != 0 || l.Offset(AttribNormal) != 3 || l.Offset(AttribTexCoord) != 6 {
		t.Error("unexpected layout offsets")
	}
	if l.Offset(AttribColor3) != -1 {
		t.Error("absent attribute should have offset -1")
	}
}

func TestAttribBuffer(t *testing.T) {
	d := NewDescription()
	for i := 0; i < 4; i++ {
		if got := d.Pos.AddVec(ms3.Vec{X: float32(i)}); got != i {
			t.Fatalf("Add returned %d, want %d", got, i)
		}
	}
	if d.Pos.Len() != 4 {
		t.Fatal("bad length")
	}
	got := d.Pos.Get(2)
	got[0] = 100
	if d.Pos.Vec(2).X != 2 {
		t.Error("Get should return a copy")
	}
	d.Pos.SetVec(2, ms3.Vec{Y: 5})
	if d.Pos.Vec(2) != (ms3.Vec{Y: 5}) {
		t.Error("SetVec did not overwrite")
	}
	if i := d.Pos.FindVec(ms3.Vec{X: 3.0000001}, DefaultEpsilon); i != 3 {
		t.Errorf("FindVec within epsilon: want 3, got %d", i)
	}
	if i := d.Pos.FindVec(ms3.Vec{X: 3.1}, DefaultEpsilon); i != -1 {
		t.Errorf("FindVec outside epsilon: want -1, got %d", i)
	}
	if i := d.TexCoord.Find([]float32{1, 2, 3}, 1); i != -1 {
		t.Error("Find with wrong width should not match")
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on width mismatch")
			}
		}()
		d.TexCoord.Add(1, 2, 3)
	}()
	d.Pos.Reset()
	if d.Pos.Len() != 0 {
		t.Error("Reset did not clear")
	}
}

func TestRunIndices(t *testing.T) {
	d := quad()
	err := d.TriStrips.Add(0, 1, 2)
	var uerr *UsageError
	if !errors.As(err, &uerr) || uerr.Topology != TopoTriStrips {
		t.Fatalf("want usage error adding before start, got %v", err)
	}
	d.TriStrips.Start(0, 1, 3, 2)
	if err = d.TriStrips.Validate(4); !errors.As(err, &uerr) {
		t.Errorf("usage error should persist until Reset, got %v", err)
	}
	d.TriStrips.Reset()

	d.TriStrips.Start()
	d.TriStrips.Start(0, 1)
	if err = d.TriStrips.Add(3, 2); err != nil {
		t.Fatal(err)
	}
	d.TriStrips.Start()
	if d.TriStrips.NumRuns() != 1 || len(d.TriStrips.Runs()[0]) != 4 {
		t.Fatalf("unexpected runs %v", d.TriStrips.Runs())
	}
	if err = d.Validate(); err != nil {
		t.Fatal(err)
	}
	var tris [][3]int
	d.ForEachTriangle(func(a, b, c int) { tris = append(tris, [3]int{a, b, c}) })
	// Odd strip triangles are flipped to keep the winding.
	want := [][3]int{{0, 1, 3}, {3, 1, 2}}
	if !slices.Equal(tris, want) {
		t.Errorf("want strip triangles %v, got %v", want, tris)
	}

	d.LineStrips.Start(0)
	var serr *StructuralError
	if err = d.Validate(); !errors.As(err, &serr) || serr.Topology != TopoLineStrips || serr.Run != 0 {
		t.Errorf("want structural error for short line strip, got %v", err)
	}
}

func TestPack(t *testing.T) {
	d := quad()
	d.Quads.Add(0, 1, 2, 3)
	d.Points.Add(0, 2)
	p, err := d.Pack(VertexPos | VertexTexCoord)
	if err != nil {
		t.Fatal(err)
	}
	if p.Layout.Stride != 5 || p.VertexCount != 4 || len(p.Vertices) != 20 {
		t.Fatalf("unexpected packed layout %+v", p.Layout)
	}
	if !slices.Equal(p.Vertices[5:10], []float32{1, 0, 0, 1, 0}) {
		t.Errorf("vertex 1 not interleaved: %v", p.Vertices[5:10])
	}
	if len(p.Draws) != 2 {
		t.Fatalf("want 2 draw lists, got %d", len(p.Draws))
	}
	if p.Draws[0].Prim != PrimPoints || p.Draws[1].Prim != PrimTriangleFan {
		t.Errorf("unexpected draw order %s, %s", p.Draws[0].Prim, p.Draws[1].Prim)
	}
	if !slices.Equal(p.Draws[1].Indices, []uint32{0, 1, 2, 3}) {
		t.Errorf("unexpected quad indices %v", p.Draws[1].Indices)
	}

	// Requested but absent attributes are dropped.
	p, err = d.Pack(VertexPos | VertexNormal)
	if err != nil {
		t.Fatal(err)
	}
	if p.Layout.Type != VertexPos {
		t.Errorf("want position only layout, got %s", p.Layout.Type)
	}
}

func TestPackErrors(t *testing.T) {
	var cerr *ConsistencyError
	var serr *StructuralError
	for _, test := range []struct {
		name  string
		edit  func(d *Description)
		mask  VertexType
		check func(error) bool
	}{
		{
			name: "count mismatch",
			edit: func(d *Description) {
				d.Tris.Add(0, 1, 2)
				d.Normal.Add(0, 0, 1)
			},
			mask: VertexPos | VertexNormal,
			check: func(err error) bool {
				return errors.As(err, &cerr) && cerr.Attrib == AttribNormal && cerr.Want == 4 && cerr.Got == 1
			},
		},
		{
			name:  "arity",
			edit:  func(d *Description) { d.Tris.Add(0, 1) },
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &serr) && serr.Topology == TopoTris },
		},
		{
			name:  "odd lines",
			edit:  func(d *Description) { d.Lines.Add(0, 1, 2) },
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &serr) && serr.Topology == TopoLines },
		},
		{
			name:  "quads arity",
			edit:  func(d *Description) { d.Quads.Add(0, 1, 2, 3, 0, 1) },
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &serr) && serr.Topology == TopoQuads },
		},
		{
			name: "short line loop",
			edit: func(d *Description) { d.LineLoops.Start(0, 1) },
			mask: VertexPos,
			check: func(err error) bool {
				return errors.As(err, &serr) && serr.Topology == TopoLineLoops && serr.Run == 0
			},
		},
		{
			name:  "range",
			edit:  func(d *Description) { d.Lines.Add(0, 9) },
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &serr) && serr.Index == 9 && serr.Pos == 1 },
		},
		{
			name:  "negative",
			edit:  func(d *Description) { d.TriFans.Start(0, 1, -1) },
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &serr) && serr.Index == -1 && serr.Run == 0 },
		},
		{
			name:  "no indices",
			edit:  func(d *Description) {},
			mask:  VertexPos,
			check: func(err error) bool { return errors.As(err, &cerr) && cerr.Attrib == AttribPos },
		},
		{
			name:  "no position requested",
			edit:  func(d *Description) { d.Tris.Add(0, 1, 2) },
			mask:  VertexTexCoord,
			check: func(err error) bool { return errors.As(err, &cerr) && cerr.Attrib == AttribPos },
		},
	} {
		d := quad()
		test.edit(d)
		_, err := d.Pack(test.mask)
		if err == nil || !test.check(err) {
			t.Errorf("%s: unexpected error %v", test.name, err)
		}
	}
	_, err := NewDescription().Pack(VertexPos)
	if !errors.As(err, &cerr) {
		t.Errorf("empty description: want consistency error, got %v", err)
	}
}

func TestWireFrame(t *testing.T) {
	var bld Builder
	cube := bld.NewCube(1)
	wf := cube.WireFrame()
	// Quads contribute only their perimeter and no vertex is shared between faces.
	if got := wf.Lines.Len() / 2; got != 24 {
		t.Errorf("cube: want 24 edges, got %d", got)
	}
	shared := bld.NewSharedCube(1).WireFrame()
	// 12 cube edges plus one diagonal per face.
	if got := shared.Lines.Len() / 2; got != 18 {
		t.Errorf("shared cube: want 18 edges, got %d", got)
	}
	if wf.VertexCount() != cube.VertexCount() || !cube.Lines.Empty() {
		t.Error("wireframe should copy attributes and leave the source untouched")
	}
	for _, ib := range wf.IndexBuffers() {
		if ib.Topology() != TopoLines && !ib.Empty() {
			t.Errorf("wireframe has %s indices", ib.Topology())
		}
	}
	curve := bld.NewKnotCurve(2, 3, 1, 10).WireFrame()
	if got := curve.Lines.Len() / 2; got != 10 {
		t.Errorf("closed loop of 10 vertices: want 10 edges, got %d", got)
	}
	if err := wf.Validate(); err != nil {
		t.Error(err)
	}
}

func TestPointCloud(t *testing.T) {
	d := quad()
	d.Tris.Add(0, 1, 2, 0, 2, 1)
	pc := d.PointCloud()
	if !slices.Equal(pc.Points.Indices(), []int{0, 1, 2}) {
		t.Errorf("want referenced vertices once in order, got %v", pc.Points.Indices())
	}
	if pc.TexCoord.Len() != 4 {
		t.Error("attributes not copied")
	}
}

func TestDegeneratePoints(t *testing.T) {
	bld := Builder{Type: VertexNormal}
	d := bld.NewSharedCube(2)
	dp := d.DegeneratePoints()
	if dp.VertexCount() != 16 || dp.Normal.Len() != 16 || dp.Weight.Len() != 16 {
		t.Fatalf("want doubled attributes, got %d positions", dp.VertexCount())
	}
	for i := 0; i < 8; i++ {
		if dp.Pos.Vec(i) != dp.Pos.Vec(i+8) || dp.Normal.Vec(i) != dp.Normal.Vec(i+8) {
			t.Errorf("copy %d differs", i)
		}
		if dp.Weight.Get(i)[0] != 0 || dp.Weight.Get(i+8)[0] != 1 {
			t.Errorf("vertex %d: bad weights", i)
		}
	}
	idx := dp.Lines.Indices()
	if len(idx) != 16 {
		t.Fatalf("want 8 lines, got %d indices", len(idx))
	}
	for i := 0; i < len(idx); i += 2 {
		if idx[i+1] != idx[i]+8 {
			t.Errorf("line %d does not join copies: %v", i/2, idx[i:i+2])
		}
	}
	if err := dp.Validate(); err != nil {
		t.Error(err)
	}
}
