//go:build !tinygo && cgo

package glshape

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glsl"
)

// Init1x1GLFW starts a 1x1 sized GLFW window so that user can start working with the GPU.
// It returns a termination function that should be called when user is done with the GPU.
func Init1x1GLFW() (terminate func(), err error) {
	_, terminate, err = glgl.InitWithCurrentWindow33(glgl.WindowConfig{
		Title:   "gshape",
		Version: [2]int{4, 6},
		Width:   1,
		Height:  1,
	})
	return terminate, err
}

// GPU implements [gshape.GPU] on the current OpenGL context. A single vertex
// array object holds the attribute state of whichever mesh is drawing.
type GPU struct {
	vao uint32
}

var _ gshape.GPU = (*GPU)(nil)

// NewGPU returns a GPU bound to the current OpenGL context.
func NewGPU() (*GPU, error) {
	var g GPU
	gl.GenVertexArrays(1, &g.vao)
	if g.vao == 0 {
		return nil, glErrOrMessage("zero vertex array id set by GL")
	}
	return &g, nil
}

func (g *GPU) NewVertexBuffer(data []float32) (gshape.BufferID, error) {
	if len(data) == 0 {
		return 0, errors.New("empty vertex data")
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, glErrOrMessage("zero vertex buffer id set by GL")
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gshape.BufferID(vbo), glgl.Err()
}

func (g *GPU) NewIndexBuffer(indices []uint32) (gshape.BufferID, error) {
	if len(indices) == 0 {
		return 0, errors.New("empty index data")
	}
	var ibo uint32
	gl.GenBuffers(1, &ibo)
	if ibo == 0 {
		return 0, glErrOrMessage("zero index buffer id set by GL")
	}
	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 4*len(indices), gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return gshape.BufferID(ibo), glgl.Err()
}

func (g *GPU) BindVertexBuffer(vb gshape.BufferID) {
	gl.BindVertexArray(g.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vb))
}

func (g *GPU) EnableAttrib(loc uint32, size, stride, offset int) {
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointer(loc, int32(size), gl.FLOAT, false, int32(4*stride), gl.PtrOffset(4*offset))
}

func (g *GPU) DisableAttrib(loc uint32) {
	gl.DisableVertexAttribArray(loc)
}

func (g *GPU) DrawIndexed(prim gshape.Primitive, ib gshape.BufferID, count int) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(ib))
	gl.DrawElements(glMode(prim), int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (g *GPU) Unbind() {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (g *GPU) DeleteBuffer(id gshape.BufferID) error {
	buf := uint32(id)
	gl.DeleteBuffers(1, &buf)
	return glgl.Err()
}

// Delete releases the vertex array object. Meshes must be released first.
func (g *GPU) Delete() {
	gl.DeleteVertexArrays(1, &g.vao)
	g.vao = 0
}

func glMode(p gshape.Primitive) uint32 {
	switch p {
	case gshape.PrimPoints:
		return gl.POINTS
	case gshape.PrimLines:
		return gl.LINES
	case gshape.PrimLineStrip:
		return gl.LINE_STRIP
	case gshape.PrimLineLoop:
		return gl.LINE_LOOP
	case gshape.PrimTriangles:
		return gl.TRIANGLES
	case gshape.PrimTriangleStrip:
		return gl.TRIANGLE_STRIP
	case gshape.PrimTriangleFan:
		return gl.TRIANGLE_FAN
	}
	panic("unknown primitive " + p.String())
}

// Program is a compiled shader program generated for a vertex layout.
type Program struct {
	prog  glgl.Program
	style glsl.Style
	vt    gshape.VertexType
	locs  map[gshape.Attrib]uint32

	model, view, proj, color, vecLen int32
}

// CompileProgram generates and compiles a program of the given style reading
// the attributes in vt.
func CompileProgram(programmer *glsl.Programmer, style glsl.Style, vt gshape.VertexType) (*Program, error) {
	vertex, fragment, err := programmer.Sources(style, vt)
	if err != nil {
		return nil, err
	}
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertex,
		Fragment: fragment,
	})
	if err != nil {
		return nil, fmt.Errorf("%s\n\n%w", vertex, err)
	}
	p := &Program{prog: prog, style: style, vt: vt, locs: make(map[gshape.Attrib]uint32)}
	for _, a := range gshape.Attribs() {
		if !vt.Has(a) {
			continue
		}
		loc, err := prog.AttribLocation(glsl.AttribName(a) + "\x00")
		if err != nil {
			prog.Delete()
			return nil, fmt.Errorf("attribute %s: %w", a, err)
		}
		p.locs[a] = loc
	}
	p.model = uniformLocation(prog, glsl.UniformModel)
	p.view = uniformLocation(prog, glsl.UniformView)
	p.proj = uniformLocation(prog, glsl.UniformProj)
	p.color = uniformLocation(prog, glsl.UniformColor)
	p.vecLen = uniformLocation(prog, glsl.UniformVectorLength)
	return p, nil
}

// uniformLocation returns -1 for uniforms the GLSL compiler optimized away,
// which GL ignores on upload.
func uniformLocation(prog glgl.Program, name string) int32 {
	loc, err := prog.UniformLocation(name)
	if err != nil {
		return -1
	}
	return loc
}

// Style returns the style the program was generated with.
func (p *Program) Style() glsl.Style { return p.style }

// Attach sets the attribute locations of m to those of the program.
func (p *Program) Attach(m *gshape.Mesh) {
	m.SetLocations(p.locs)
}

// Uniforms holds per-draw uniform values.
type Uniforms struct {
	Model, View, Proj [16]float32
	Color             ms3.Vec
	VectorLength      float32
}

// Use binds the program and uploads u.
func (p *Program) Use(u *Uniforms) {
	p.prog.Bind()
	gl.UniformMatrix4fv(p.model, 1, false, &u.Model[0])
	gl.UniformMatrix4fv(p.view, 1, false, &u.View[0])
	gl.UniformMatrix4fv(p.proj, 1, false, &u.Proj[0])
	gl.Uniform3f(p.color, u.Color.X, u.Color.Y, u.Color.Z)
	gl.Uniform1f(p.vecLen, u.VectorLength)
}

// Delete releases the program.
func (p *Program) Delete() {
	p.prog.Delete()
}

func glErrOrMessage(defaultMsg string) (err error) {
	err = glgl.Err()
	if err == nil {
		err = errors.New(defaultMsg)
	} else {
		err = fmt.Errorf("%s: %w", defaultMsg, err)
	}
	return err
}
