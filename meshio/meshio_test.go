package meshio

import (
	"bytes"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
)

func TestCubeTriangles(t *testing.T) {
	var bld gshape.Builder
	for _, d := range []*gshape.Description{bld.NewCube(2), bld.NewSharedCube(2)} {
		tr, err := NewTriangles(d)
		if err != nil {
			t.Fatal(err)
		}
		// Small buffer exercises batching.
		var buf [5]ms3.Triangle
		var all []ms3.Triangle
		for {
			n, err := tr.ReadTriangles(buf[:], nil)
			all = append(all, buf[:n]...)
			if err != nil {
				break
			}
		}
		if len(all) != 12 {
			t.Fatalf("want 12 cube triangles, got %d", len(all))
		}
		tr.Reset()
		again, err := ReadAll(tr, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(all) {
			t.Errorf("ReadAll after reset: want %d, got %d", len(all), len(again))
		}
		// Every facet of a convex shape centered at the origin faces outward.
		for i, tri := range all {
			e1, e2 := ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0])
			nrm := ms3.Vec{X: e1.Y*e2.Z - e1.Z*e2.Y, Y: e1.Z*e2.X - e1.X*e2.Z, Z: e1.X*e2.Y - e1.Y*e2.X}
			centroid := ms3.Scale(1./3, ms3.Add(ms3.Add(tri[0], tri[1]), tri[2]))
			if ms3.Dot(nrm, centroid) <= 0 {
				t.Errorf("triangle %d faces inward: %v", i, tri)
			}
		}
	}
}

func TestNoTriangles(t *testing.T) {
	var bld gshape.Builder
	_, err := NewTriangles(bld.NewKnotCurve(2, 3, 1, 32))
	if err == nil {
		t.Error("expected error for line only shape")
	}
}

func TestSTLRoundtrip(t *testing.T) {
	var bld gshape.Builder
	tr, err := NewTriangles(bld.NewIcosphere(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	tris, err := ReadAll(tr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 80 {
		t.Fatalf("want 80 icosphere triangles, got %d", len(tris))
	}
	var buf bytes.Buffer
	n, err := WriteBinarySTL(&buf, tris)
	if err != nil {
		t.Fatal(err)
	}
	if n != buf.Len() || n != 84+50*len(tris) {
		t.Fatalf("unexpected STL size %d, buffer %d", n, buf.Len())
	}
	got, err := ReadBinarySTL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(tris) {
		t.Fatalf("want %d triangles, got %d", len(tris), len(got))
	}
	for i := range got {
		if got[i] != tris[i] {
			t.Fatalf("triangle %d mismatch: %v != %v", i, got[i], tris[i])
		}
	}
}

func TestBounds(t *testing.T) {
	bld := gshape.Builder{}
	bb := Bounds(bld.NewCube(2))
	want := ms3.Box{Min: ms3.Vec{X: -1, Y: -1, Z: -1}, Max: ms3.Vec{X: 1, Y: 1, Z: 1}}
	if bb != want {
		t.Errorf("want %v, got %v", want, bb)
	}
}
