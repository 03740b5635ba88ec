package gshape

import "slices"

// WireFrame returns a new Description with a copy of d's attributes and a
// Lines buffer holding every undirected edge drawn by d exactly once.
// Triangles contribute their three edges, quads their perimeter and line
// topologies their segments. d is not modified.
func (d *Description) WireFrame() *Description {
	dst := d.cloneAttribs()
	seen := make(map[[2]int]struct{})
	addEdge := func(a, b int) {
		if a == b {
			return
		}
		key := [2]int{min(a, b), max(a, b)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		dst.Lines.Add(a, b)
	}
	for _, ib := range d.IndexBuffers() {
		ib.edges(addEdge)
	}
	return dst
}

// PointCloud returns a new Description with a copy of d's attributes and a
// Points buffer holding every vertex referenced by d once, in ascending order.
func (d *Description) PointCloud() *Description {
	dst := d.cloneAttribs()
	dst.Points.Add(d.referenced()...)
	return dst
}

// DegeneratePoints returns a new Description holding two concatenated copies
// of every attribute stream of d. The weight attribute is 0 for the first copy
// and 1 for the second. Each vertex i referenced by d gets a zero length line
// from i to i+N, where N is d's vertex count. A vertex shader can then offset
// weighted endpoints along a normal, binormal or cube direction to draw
// per-vertex vectors.
func (d *Description) DegeneratePoints() *Description {
	n := d.VertexCount()
	dst := NewDescription()
	for a := Attrib(0); a < numAttribs; a++ {
		if a == AttribWeight {
			continue
		}
		src := d.Buffer(a).data
		if len(src) == 0 {
			continue
		}
		buf := dst.Buffer(a)
		buf.data = make([]float32, 0, 2*len(src))
		buf.data = append(buf.data, src...)
		buf.data = append(buf.data, src...)
	}
	weights := make([]float32, 2*n)
	for i := n; i < 2*n; i++ {
		weights[i] = 1
	}
	dst.Weight.data = weights
	for _, i := range d.referenced() {
		dst.Lines.Add(i, i+n)
	}
	return dst
}

// referenced returns the distinct vertex indices used by any index buffer, sorted.
func (d *Description) referenced() []int {
	seen := make(map[int]struct{})
	var idx []int
	for _, ib := range d.IndexBuffers() {
		ib.forEach(func(i int) {
			if _, ok := seen[i]; !ok {
				seen[i] = struct{}{}
				idx = append(idx, i)
			}
		})
	}
	slices.Sort(idx)
	return idx
}
