package gshape

import (
	"math/rand"
	"testing"

	"github.com/soypat/geometry/ms3"
)

func TestRecalculateNormalsSmoothCube(t *testing.T) {
	bld := Builder{Type: VertexNormal}
	for _, d := range []*Description{bld.NewCube(2), bld.NewSharedCube(2)} {
		d.RecalculateNormals()
		for i := 0; i < d.VertexCount(); i++ {
			// Coplanar triangles of a face count once so corners point along the diagonal.
			want := unitOrZero(d.Pos.Vec(i))
			if got := d.Normal.Vec(i); !vecEqual(got, want, tol) {
				t.Fatalf("vertex %d: want normal %v, got %v", i, want, got)
			}
		}
	}
}

func TestRecalculateNormalsHard(t *testing.T) {
	bld := Builder{Type: VertexNormal}
	d := bld.NewCube(2)
	authored := d.Normal.clone()
	d.RecalculateNormalsHard()
	for i := 0; i < d.VertexCount(); i++ {
		if got, want := d.Normal.Vec(i), authored.Vec(i); !vecEqual(got, want, tol) {
			t.Fatalf("vertex %d: want face normal %v, got %v", i, want, got)
		}
	}
}

func TestRecalculateNormalsCreatesBuffer(t *testing.T) {
	d := quad()
	d.Tris.Add(0, 1, 2, 0, 2, 3)
	// Zero area triangle must not contribute.
	d.Tris.Add(0, 0, 1)
	d.RecalculateNormals()
	if d.Normal.Len() != 4 {
		t.Fatalf("want 4 normals, got %d", d.Normal.Len())
	}
	for i := 0; i < 4; i++ {
		if got := d.Normal.Vec(i); !vecEqual(got, ms3.Vec{Z: 1}, tol) {
			t.Errorf("vertex %d: want +Z normal, got %v", i, got)
		}
	}
}

func TestPositionGroups(t *testing.T) {
	const eps = 0.01
	rng := rand.New(rand.NewSource(1))
	d := NewDescription()
	for i := 0; i < 500; i++ {
		// Lattice points spaced far apart from eps with jitter well inside it.
		p := ms3.Vec{
			X: 0.1*float32(rng.Intn(5)-2) + 0.003*(rng.Float32()-0.5),
			Y: 0.1*float32(rng.Intn(5)-2) + 0.003*(rng.Float32()-0.5),
			Z: 0.1*float32(rng.Intn(5)-2) + 0.003*(rng.Float32()-0.5),
		}
		d.Pos.AddVec(p)
	}
	groups := d.positionGroups(eps)
	distinct := 0
	for i, g := range groups {
		want := d.Pos.FindVec(d.Pos.Vec(i), eps)
		if g != want {
			t.Fatalf("vertex %d: hashed group %d, linear search %d", i, g, want)
		}
		if g == i {
			distinct++
		}
	}
	if distinct > 125 || distinct == 500 {
		t.Errorf("unexpected number of distinct positions %d", distinct)
	}
}
