//go:build tinygo || !cgo

package glshape

import (
	"errors"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glsl"
)

var errNoCGO = errors.New("OpenGL rendering requires CGo and is not supported on TinyGo")

func Init1x1GLFW() (terminate func(), err error) {
	return nil, errNoCGO
}

type GPU struct{}

var _ gshape.GPU = (*GPU)(nil)

func NewGPU() (*GPU, error) { return nil, errNoCGO }

func (g *GPU) NewVertexBuffer(data []float32) (gshape.BufferID, error)          { return 0, errNoCGO }
func (g *GPU) NewIndexBuffer(indices []uint32) (gshape.BufferID, error)         { return 0, errNoCGO }
func (g *GPU) BindVertexBuffer(vb gshape.BufferID)                              {}
func (g *GPU) EnableAttrib(loc uint32, size, stride, offset int)                {}
func (g *GPU) DisableAttrib(loc uint32)                                         {}
func (g *GPU) DrawIndexed(prim gshape.Primitive, ib gshape.BufferID, count int) {}
func (g *GPU) Unbind()                                                          {}
func (g *GPU) DeleteBuffer(id gshape.BufferID) error                            { return errNoCGO }
func (g *GPU) Delete()                                                          {}

type Program struct{}

func CompileProgram(programmer *glsl.Programmer, style glsl.Style, vt gshape.VertexType) (*Program, error) {
	return nil, errNoCGO
}

func (p *Program) Style() glsl.Style     { return 0 }
func (p *Program) Attach(m *gshape.Mesh) {}
func (p *Program) Use(u *Uniforms)       {}
func (p *Program) Delete()               {}

type Uniforms struct {
	Model, View, Proj [16]float32
	Color             ms3.Vec
	VectorLength      float32
}
