package glsl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glsl"
)

func TestAttribDecls(t *testing.T) {
	vt := gshape.VertexPos | gshape.VertexNormal | gshape.VertexWeight | gshape.VertexTexCoord
	got := string(glsl.AppendAttribDecls(nil, vt))
	want := "in vec3 aPos;\nin vec3 aNormal;\nin vec2 aTexCoord;\nin float aWeight;\n"
	if got != want {
		t.Errorf("want\n%s\ngot\n%s", want, got)
	}
}

func TestAttribNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range gshape.Attribs() {
		name := glsl.AttribName(a)
		if seen[name] {
			t.Errorf("duplicate attribute name %q", name)
		}
		seen[name] = true
	}
}

func TestVertexRequiresAttributes(t *testing.T) {
	p := glsl.NewDefaultProgrammer()
	var buf bytes.Buffer
	_, err := p.WriteVertex(&buf, glsl.StyleLit, gshape.VertexPos)
	if err == nil {
		t.Fatal("expected error for lit shader without normals")
	}
	if !strings.Contains(err.Error(), "NORM") {
		t.Errorf("error should name missing attribute: %v", err)
	}
}

func TestStyles(t *testing.T) {
	p := glsl.NewDefaultProgrammer()
	for style := glsl.StylePlain; style <= glsl.StyleBinormals; style++ {
		parsed, err := glsl.ParseStyle(style.String())
		if err != nil || parsed != style {
			t.Fatalf("%s: parse roundtrip got %v %v", style, parsed, err)
		}
		vt := style.Requires()
		var buf bytes.Buffer
		n, err := p.WriteVertex(&buf, style, vt)
		if err != nil {
			t.Fatal(style, err)
		} else if n != buf.Len() {
			t.Fatal("written length mismatch")
		}
		src := buf.String()
		if !strings.HasPrefix(src, glsl.VersionStr) {
			t.Errorf("%s: missing version header", style)
		}
		for _, a := range gshape.Attribs() {
			decl := "in " + glsl.AttribType(a) + " " + glsl.AttribName(a) + ";"
			if strings.Contains(src, decl) != vt.Has(a) {
				t.Errorf("%s: declaration of %s mismatch with requirements %s", style, a, vt)
			}
		}
		vertex, fragment, err := p.Sources(style, vt)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(vertex, "\x00") || !strings.HasSuffix(fragment, "\x00") {
			t.Errorf("%s: sources not NUL terminated", style)
		}
	}
	if _, err := glsl.ParseStyle("bogus"); err == nil {
		t.Error("expected error parsing unknown style")
	}
}

func TestAppendFloat(t *testing.T) {
	for _, test := range []struct {
		v    float32
		want string
	}{
		{v: 1, want: "1.0"},
		{v: 0.5, want: "0.5"},
		{v: -2.25, want: "-2.25"},
	} {
		got := string(glsl.AppendFloat(nil, '-', '.', test.v))
		if got != test.want {
			t.Errorf("AppendFloat(%v): want %q, got %q", test.v, test.want, got)
		}
	}
	got := string(glsl.AppendFloat(nil, 'n', 'p', -0.5))
	if got != "n0p5" {
		t.Errorf("want n0p5, got %q", got)
	}
}
