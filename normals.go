package gshape

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// normalEpsilon is the tolerance under which two unit face normals are
// considered the same plane when accumulating vertex normals.
const normalEpsilon = 1e-5

// RecalculateNormals overwrites the normal buffer with smoothed vertex
// normals. Vertices are grouped by position (within [DefaultEpsilon]), not by
// index, so separately indexed vertices sharing a location are smoothed
// together. Each group's normal is the normalized sum of the distinct unit
// face normals of all triangles touching the group. Triangles are taken from
// every topology; quads, strips and fans are decomposed.
//
// Identical face normals are summed once per group, so coplanar triangles
// count as a single face. A cube corner therefore gets (±1,±1,±1)/√3 however
// its faces are split, but the result differs from a plain per-triangle sum
// on lattices where a vertex touches several coplanar triangles.
//
// Use [Description.RecalculateNormalsHard] to keep hard edges between
// separately indexed vertices.
func (d *Description) RecalculateNormals() {
	d.recalculateNormals(d.positionGroups(DefaultEpsilon))
}

// RecalculateNormalsHard is like RecalculateNormals but groups vertices by
// index identity, preserving hard edges authored with duplicated positions.
func (d *Description) RecalculateNormalsHard() {
	group := make([]int, d.VertexCount())
	for i := range group {
		group[i] = i
	}
	d.recalculateNormals(group)
}

func (d *Description) recalculateNormals(group []int) {
	n := d.VertexCount()
	faces := make([][]ms3.Vec, n)
	d.ForEachTriangle(func(a, b, c int) {
		if a >= n || b >= n || c >= n || a < 0 || b < 0 || c < 0 {
			return // Invalid index, reported on compile.
		}
		pa := d.Pos.Vec(a)
		fn := ms3.Cross(ms3.Sub(d.Pos.Vec(b), pa), ms3.Sub(d.Pos.Vec(c), pa))
		l := ms3.Norm(fn)
		if l < DefaultEpsilon*DefaultEpsilon {
			return // Zero area triangle.
		}
		fn = ms3.Scale(1/l, fn)
		ga, gb, gc := group[a], group[b], group[c]
		faces[ga] = appendUniqueNormal(faces[ga], fn)
		if gb != ga {
			faces[gb] = appendUniqueNormal(faces[gb], fn)
		}
		if gc != ga && gc != gb {
			faces[gc] = appendUniqueNormal(faces[gc], fn)
		}
	})
	if d.Normal.Len() != n || len(d.Normal.data) != 3*n {
		d.Normal.data = make([]float32, 3*n)
	}
	for i := 0; i < n; i++ {
		var sum ms3.Vec
		for _, fn := range faces[group[i]] {
			sum = ms3.Add(sum, fn)
		}
		d.Normal.SetVec(i, unitOrZero(sum))
	}
}

func appendUniqueNormal(normals []ms3.Vec, fn ms3.Vec) []ms3.Vec {
	for _, existing := range normals {
		if math32.Abs(existing.X-fn.X) < normalEpsilon &&
			math32.Abs(existing.Y-fn.Y) < normalEpsilon &&
			math32.Abs(existing.Z-fn.Z) < normalEpsilon {
			return normals
		}
	}
	return append(normals, fn)
}

// positionGroups returns for every vertex the first vertex index whose
// position matches within eps, which is the result of calling
// d.Pos.FindVec(d.Pos.Vec(i), eps) for every i. A hash of positions
// quantized to eps sized cells replaces the quadratic linear scan; any match
// lies in the same or an adjacent cell.
func (d *Description) positionGroups(eps float32) []int {
	n := d.VertexCount()
	group := make([]int, n)
	cells := make(map[[3]int64][]int, n)
	inv := 1 / float64(eps)
	for i := 0; i < n; i++ {
		p := d.Pos.Vec(i)
		key := [3]int64{
			int64(math.Floor(float64(p.X) * inv)),
			int64(math.Floor(float64(p.Y) * inv)),
			int64(math.Floor(float64(p.Z) * inv)),
		}
		best := i
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range cells[[3]int64{key[0] + dx, key[1] + dy, key[2] + dz}] {
						if j < best && vecWithin(p, d.Pos.Vec(j), eps) {
							best = j
						}
					}
				}
			}
		}
		group[i] = best
		cells[key] = append(cells[key], i)
	}
	return group
}

func vecWithin(a, b ms3.Vec, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps && math32.Abs(a.Y-b.Y) <= eps && math32.Abs(a.Z-b.Z) <= eps
}
