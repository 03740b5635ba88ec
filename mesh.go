package gshape

import (
	"errors"
	"fmt"
)

// BufferID is an opaque handle to a buffer owned by a [GPU].
type BufferID uint32

// GPU is the graphics context a [Mesh] uploads to and draws with.
// Sizes, strides and offsets are given in float32 units.
type GPU interface {
	// NewVertexBuffer allocates a vertex buffer filled with data.
	NewVertexBuffer(data []float32) (BufferID, error)
	// NewIndexBuffer allocates an index buffer filled with indices.
	NewIndexBuffer(indices []uint32) (BufferID, error)
	// BindVertexBuffer makes vb the source of subsequent attribute pointers.
	BindVertexBuffer(vb BufferID)
	// EnableAttrib enables the attribute at loc reading size floats per vertex
	// at offset within a vertex of stride floats.
	EnableAttrib(loc uint32, size, stride, offset int)
	// DisableAttrib disables the attribute at loc.
	DisableAttrib(loc uint32)
	// DrawIndexed draws count indices from ib as prim primitives.
	DrawIndexed(prim Primitive, ib BufferID, count int)
	// Unbind restores neutral buffer bindings.
	Unbind()
	// DeleteBuffer releases a buffer.
	DeleteBuffer(id BufferID) error
}

var errReleased = errors.New("gshape: mesh already released")

type meshDraw struct {
	prim  Primitive
	ibo   BufferID
	count int
}

// Mesh is a compiled, GPU resident shape: an interleaved vertex buffer and one
// index buffer per draw list. Apart from attribute locations, which are set
// once by the consuming shader, a Mesh is immutable.
type Mesh struct {
	gpu    GPU
	layout Layout
	nvert  int
	vbo    BufferID
	draws  []meshDraw
	locs   [numAttribs]uint32
	bound  VertexType
	// released is set after Release, the handles are no longer valid.
	released bool
}

// NewMesh uploads packed data with gpu. On error buffers already allocated
// are deleted.
func NewMesh(gpu GPU, p *Packed) (_ *Mesh, err error) {
	if gpu == nil {
		return nil, errors.New("gshape: nil GPU")
	} else if len(p.Draws) == 0 || len(p.Vertices) == 0 {
		return nil, errors.New("gshape: empty packed mesh")
	}
	m := &Mesh{
		gpu:    gpu,
		layout: p.Layout,
		nvert:  p.VertexCount,
	}
	m.vbo, err = gpu.NewVertexBuffer(p.Vertices)
	if err != nil {
		return nil, fmt.Errorf("uploading vertex buffer: %w", err)
	}
	for i, dl := range p.Draws {
		ibo, err := gpu.NewIndexBuffer(dl.Indices)
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("uploading index buffer %d (%s): %w", i, dl.Prim, err)
		}
		m.draws = append(m.draws, meshDraw{prim: dl.Prim, ibo: ibo, count: len(dl.Indices)})
	}
	return m, nil
}

// Layout returns the interleaved vertex layout of the mesh.
func (m *Mesh) Layout() Layout { return m.layout }

// VertexCount returns the number of vertices uploaded.
func (m *Mesh) VertexCount() int { return m.nvert }

// Primitives returns the primitive of every draw call in draw order.
func (m *Mesh) Primitives() []Primitive {
	prims := make([]Primitive, len(m.draws))
	for i, d := range m.draws {
		prims[i] = d.prim
	}
	return prims
}

// SetLocation sets the shader attribute location for a. Locations of
// attributes not present in the layout are ignored.
func (m *Mesh) SetLocation(a Attrib, loc uint32) {
	if !m.layout.Type.Has(a) {
		return
	}
	m.locs[a] = loc
	m.bound |= a.Flag()
}

// SetLocations calls SetLocation for every entry of locs.
func (m *Mesh) SetLocations(locs map[Attrib]uint32) {
	for a, loc := range locs {
		m.SetLocation(a, loc)
	}
}

// Unbound returns the layout attributes whose location has not been set.
func (m *Mesh) Unbound() VertexType {
	return m.layout.Type &^ m.bound
}

// Draw binds the vertex buffer and attribute locations, issues one indexed
// draw per draw list and restores neutral bindings. It returns a
// [*BindingError] if any layout attribute has no location set.
func (m *Mesh) Draw() error {
	if m.released {
		return errReleased
	}
	if unbound := m.Unbound(); unbound != 0 {
		for a := Attrib(0); a < numAttribs; a++ {
			if unbound.Has(a) {
				return &BindingError{Attrib: a}
			}
		}
	}
	gpu := m.gpu
	stride := m.layout.Stride
	gpu.BindVertexBuffer(m.vbo)
	attrs := m.layout.Attribs()
	for _, a := range attrs {
		gpu.EnableAttrib(m.locs[a], a.Width(), stride, m.layout.Offset(a))
	}
	for _, d := range m.draws {
		gpu.DrawIndexed(d.prim, d.ibo, d.count)
	}
	for _, a := range attrs {
		gpu.DisableAttrib(m.locs[a])
	}
	gpu.Unbind()
	return nil
}

// Release deletes the mesh's GPU buffers. It must be called before the
// owning GPU context is destroyed. Calling Release twice is a no-op.
func (m *Mesh) Release() error {
	if m.released {
		return nil
	}
	m.released = true
	var errs []error
	if err := m.gpu.DeleteBuffer(m.vbo); err != nil {
		errs = append(errs, err)
	}
	for _, d := range m.draws {
		if err := m.gpu.DeleteBuffer(d.ibo); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
