// Package gshape implements procedural mesh descriptions: per-vertex attribute
// streams, index buffers for the common draw topologies, validation and
// interleaved packing into GPU ready buffers, and derived shapes such as
// wireframes and point overlays.
package gshape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// DefaultEpsilon is the per-component tolerance used when matching vertices by value.
const DefaultEpsilon = 1e-6

const (
	sqrt3 = 1.7320508075688772935274463415058723669428052538103806280558069794
	twopi = 2 * math32.Pi
)

// Flags modify [Builder] behaviour.
type Flags uint64

const (
	// FlagNoDimensionPanic makes the Builder accumulate parameter errors
	// instead of panicking. Errors are then available via [Builder.Err].
	FlagNoDimensionPanic Flags = 1 << iota
)

// Builder generates procedural shapes. Type selects which attributes the
// generators populate; position data is always generated.
// Provides error handling strategies with panics or error accumulation during shape generation.
type Builder struct {
	Type      VertexType
	flags     Flags
	accumErrs []error
}

// SetFlags sets the builder's flags.
func (bld *Builder) SetFlags(flags Flags) {
	bld.flags = flags
}

// Flags returns the builder's flags.
func (bld *Builder) Flags() Flags { return bld.flags }

// Err returns all accumulated shape parameter errors joined, or nil.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) shapeErrorf(msg string, args ...any) {
	if bld.flags&FlagNoDimensionPanic == 0 {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// Vertex carries every attribute a generator may produce for a single vertex.
// [Builder.AddVertex] stores only those requested by the Builder.
type Vertex struct {
	Pos      ms3.Vec
	Normal   ms3.Vec
	U, V     float32
	Binormal ms3.Vec
	Weight   float32
	// Adj1 and Adj2 hold neighbouring positions along a curve.
	Adj1, Adj2 ms3.Vec
}

// AddVertex appends v to d populating the attributes in bld.Type and returns
// the new vertex index. Position is always stored. Colors are derived from
// the normal and the cube direction from the position.
func (bld *Builder) AddVertex(d *Description, v Vertex) int {
	vt := bld.Type
	idx := d.Pos.AddVec(v.Pos)
	if vt.Has(AttribColor3) || vt.Has(AttribColor4) {
		c := normalColor(v.Normal)
		if vt.Has(AttribColor3) {
			d.Color3.AddVec(c)
		}
		if vt.Has(AttribColor4) {
			d.Color4.Add(c.X, c.Y, c.Z, 1)
		}
	}
	if vt.Has(AttribNormal) {
		d.Normal.AddVec(v.Normal)
	}
	if vt.Has(AttribTexCoord) {
		d.TexCoord.Add(v.U, v.V)
	}
	if vt.Has(AttribCube) {
		d.Cube.AddVec(unitOrZero(v.Pos))
	}
	if vt.Has(AttribBinormal) {
		d.Binormal.AddVec(v.Binormal)
	}
	if vt.Has(AttribWeight) {
		d.Weight.Add(v.Weight)
	}
	if vt.Has(AttribAdj1) {
		d.Adj1.AddVec(v.Adj1)
	}
	if vt.Has(AttribAdj2) {
		d.Adj2.AddVec(v.Adj2)
	}
	return idx
}

// normalColor maps a unit vector to an RGB color in [0,1].
func normalColor(n ms3.Vec) ms3.Vec {
	return ms3.Vec{X: 0.5 + 0.5*n.X, Y: 0.5 + 0.5*n.Y, Z: 0.5 + 0.5*n.Z}
}

func unitOrZero(v ms3.Vec) ms3.Vec {
	if ms3.Norm(v) < DefaultEpsilon {
		return ms3.Vec{}
	}
	return ms3.Unit(v)
}

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for gshape and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: compile statistics (vertex count, stride, draw lists).
//   - [slog.LevelWarn]: requested attributes dropped because the shape does not carry them.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
