package gshape

import (
	"log/slog"
)

// Description is an authored mesh: one attribute buffer per [Attrib] and one
// index buffer per [Topology]. Generators populate the exported buffers
// directly. A Description is written to completion and then packed or
// compiled; derivations such as [Description.WireFrame] return new
// independent descriptions.
//
// Descriptions must be created with [NewDescription].
type Description struct {
	Pos      AttribBuffer
	Color3   AttribBuffer
	Color4   AttribBuffer
	Normal   AttribBuffer
	TexCoord AttribBuffer
	Cube     AttribBuffer
	Binormal AttribBuffer
	Weight   AttribBuffer
	Adj1     AttribBuffer
	Adj2     AttribBuffer

	Points     FlatIndices
	Lines      FlatIndices
	LineStrips RunIndices
	LineLoops  RunIndices
	Tris       FlatIndices
	Quads      FlatIndices
	TriStrips  RunIndices
	TriFans    RunIndices
}

// NewDescription returns an empty Description.
func NewDescription() *Description {
	d := &Description{
		Pos:      makeAttribBuffer(AttribPos),
		Color3:   makeAttribBuffer(AttribColor3),
		Color4:   makeAttribBuffer(AttribColor4),
		Normal:   makeAttribBuffer(AttribNormal),
		TexCoord: makeAttribBuffer(AttribTexCoord),
		Cube:     makeAttribBuffer(AttribCube),
		Binormal: makeAttribBuffer(AttribBinormal),
		Weight:   makeAttribBuffer(AttribWeight),
		Adj1:     makeAttribBuffer(AttribAdj1),
		Adj2:     makeAttribBuffer(AttribAdj2),

		Points:     makeFlatIndices(TopoPoints),
		Lines:      makeFlatIndices(TopoLines),
		LineStrips: makeRunIndices(TopoLineStrips),
		LineLoops:  makeRunIndices(TopoLineLoops),
		Tris:       makeFlatIndices(TopoTris),
		Quads:      makeFlatIndices(TopoQuads),
		TriStrips:  makeRunIndices(TopoTriStrips),
		TriFans:    makeRunIndices(TopoTriFans),
	}
	return d
}

// Buffer returns the attribute buffer for a.
func (d *Description) Buffer(a Attrib) *AttribBuffer {
	switch a {
	case AttribPos:
		return &d.Pos
	case AttribColor3:
		return &d.Color3
	case AttribColor4:
		return &d.Color4
	case AttribNormal:
		return &d.Normal
	case AttribTexCoord:
		return &d.TexCoord
	case AttribCube:
		return &d.Cube
	case AttribBinormal:
		return &d.Binormal
	case AttribWeight:
		return &d.Weight
	case AttribAdj1:
		return &d.Adj1
	case AttribAdj2:
		return &d.Adj2
	}
	panic("invalid attribute " + a.String())
}

// Topology returns the index buffer for t.
func (d *Description) Topology(t Topology) IndexBuffer {
	switch t {
	case TopoPoints:
		return &d.Points
	case TopoLines:
		return &d.Lines
	case TopoLineStrips:
		return &d.LineStrips
	case TopoLineLoops:
		return &d.LineLoops
	case TopoTris:
		return &d.Tris
	case TopoQuads:
		return &d.Quads
	case TopoTriStrips:
		return &d.TriStrips
	case TopoTriFans:
		return &d.TriFans
	}
	panic("invalid topology " + t.String())
}

// IndexBuffers returns all index buffers in compile order.
func (d *Description) IndexBuffers() []IndexBuffer {
	return []IndexBuffer{
		&d.Points, &d.Lines, &d.LineStrips, &d.LineLoops,
		&d.Tris, &d.Quads, &d.TriStrips, &d.TriFans,
	}
}

// VertexCount returns the canonical vertex count, the number of positions.
func (d *Description) VertexCount() int { return d.Pos.Len() }

// Populated returns the set of attributes holding at least one element.
func (d *Description) Populated() (vt VertexType) {
	for a := Attrib(0); a < numAttribs; a++ {
		if d.Buffer(a).Len() > 0 {
			vt |= a.Flag()
		}
	}
	return vt
}

// Validate checks attribute counts of all populated buffers against the
// position count and validates every index buffer.
func (d *Description) Validate() error {
	_, err := d.effective(d.Populated() | VertexPos)
	if err != nil {
		return err
	}
	return d.validateIndices()
}

// Layout describes the interleaved vertex format of a packed mesh.
type Layout struct {
	// Type holds the attributes present in each vertex.
	Type VertexType
	// Stride is the number of float32s per vertex.
	Stride int
}

// Offset returns the float offset of a within a vertex, or -1 if a is not present.
func (l Layout) Offset(a Attrib) int {
	if !l.Type.Has(a) {
		return -1
	}
	off := 0
	for b := Attrib(0); b < a; b++ {
		if l.Type.Has(b) {
			off += b.Width()
		}
	}
	return off
}

// Attribs returns the present attributes in interleave order.
func (l Layout) Attribs() []Attrib {
	var attrs []Attrib
	for a := Attrib(0); a < numAttribs; a++ {
		if l.Type.Has(a) {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// DrawList is a packed index list tagged with its draw primitive.
type DrawList struct {
	Prim    Primitive
	Indices []uint32
}

// Packed is the CPU side result of packing a Description: interleaved vertex
// data and draw lists ready for upload.
type Packed struct {
	Layout      Layout
	VertexCount int
	Vertices    []float32
	Draws       []DrawList
}

// Pack validates the description against the requested attribute mask and
// returns interleaved vertex data and per-run index lists. The effective
// attribute set is mask restricted to populated buffers; mask must include
// [VertexPos].
func (d *Description) Pack(mask VertexType) (*Packed, error) {
	eff, err := d.effective(mask)
	if err != nil {
		return nil, err
	}
	err = d.validateIndices()
	if err != nil {
		return nil, err
	}
	layout := Layout{Type: eff, Stride: eff.Stride()}
	n := d.VertexCount()
	vertices := make([]float32, 0, n*layout.Stride)
	attrs := layout.Attribs()
	for i := 0; i < n; i++ {
		for _, a := range attrs {
			buf := d.Buffer(a)
			w := a.Width()
			vertices = append(vertices, buf.data[i*w:i*w+w]...)
		}
	}
	var draws []DrawList
	for _, ib := range d.IndexBuffers() {
		ib.compileRuns(func(p Primitive, idx []uint32) {
			draws = append(draws, DrawList{Prim: p, Indices: idx})
		})
	}
	Logger().Debug("packed shape",
		slog.Int("vertices", n),
		slog.Int("stride", layout.Stride),
		slog.String("layout", eff.String()),
		slog.Int("draws", len(draws)),
	)
	return &Packed{
		Layout:      layout,
		VertexCount: n,
		Vertices:    vertices,
		Draws:       draws,
	}, nil
}

// Compile packs the description and uploads it with gpu, returning the
// resulting [Mesh]. See [Description.Pack] for validation rules.
func (d *Description) Compile(gpu GPU, mask VertexType) (*Mesh, error) {
	packed, err := d.Pack(mask)
	if err != nil {
		return nil, err
	}
	return NewMesh(gpu, packed)
}

func (d *Description) effective(mask VertexType) (VertexType, error) {
	if !mask.Has(AttribPos) {
		return 0, &ConsistencyError{Attrib: AttribPos, Reason: "position not in requested attributes " + mask.String()}
	}
	n := d.VertexCount()
	if n == 0 {
		return 0, &ConsistencyError{Attrib: AttribPos, Reason: "no position data"}
	}
	var eff, dropped VertexType
	for a := Attrib(0); a < numAttribs; a++ {
		if !mask.Has(a) {
			continue
		}
		got := d.Buffer(a).Len()
		if got == 0 {
			dropped |= a.Flag()
			continue
		} else if got != n {
			return 0, &ConsistencyError{Attrib: a, Want: n, Got: got, Reason: "count mismatch with positions"}
		}
		eff |= a.Flag()
	}
	if dropped != 0 {
		Logger().Warn("requested attributes not present in shape", slog.String("dropped", dropped.String()))
	}
	return eff, nil
}

func (d *Description) validateIndices() error {
	n := d.VertexCount()
	nonEmpty := false
	for _, ib := range d.IndexBuffers() {
		err := ib.Validate(n)
		if err != nil {
			return err
		}
		nonEmpty = nonEmpty || !ib.Empty()
	}
	if !nonEmpty {
		return &ConsistencyError{Attrib: AttribPos, Reason: "no index data"}
	}
	return nil
}

// cloneAttribs returns a new Description with deep copies of d's attribute
// buffers and no indices.
func (d *Description) cloneAttribs() *Description {
	dst := NewDescription()
	for a := Attrib(0); a < numAttribs; a++ {
		*dst.Buffer(a) = d.Buffer(a).clone()
	}
	return dst
}

// ForEachTriangle calls fn for every non-degenerate triangle of the
// triangle topologies. Quads are split in two, strips and fans are
// decomposed with consistent counter-clockwise winding.
func (d *Description) ForEachTriangle(fn func(a, b, c int)) {
	for _, ib := range d.IndexBuffers() {
		ib.triangles(fn)
	}
}
