// Package gshapeaux provides a configurable gallery of gshape generators: a
// TOML configuration, interactive OpenGL viewing and STL export.
package gshapeaux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
	"github.com/soypat/gshape/glsl"
	"github.com/soypat/gshape/meshio"
)

// Item is a gallery shape ready to be compiled for drawing.
type Item struct {
	Name   string
	Shape  *gshape.Description
	Style  glsl.Style
	Mover  Mover
	Color  ms3.Vec
	Bounds ms3.Box
}

// Diagonal returns the length of the item's bounding box diagonal.
func (it *Item) Diagonal() float32 {
	return ms3.Norm(ms3.Sub(it.Bounds.Max, it.Bounds.Min))
}

// NewItems generates the shapes of every configured item. Each shape is
// generated with exactly the attributes its style reads.
func NewItems(cfg Config) ([]Item, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(cfg.Items))
	for i, ic := range cfg.Items {
		style, _ := ic.style()
		mover, _ := ParseMover(ic.Mover)
		need := style.Requires()
		d, err := NewShape(ic, need)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if got := d.Populated(); got&need != need {
			return nil, fmt.Errorf("item %d: style %s requires %s, shape %s provides %s", i, style, need, ic.Shape, got)
		}
		err = d.Validate()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, Item{
			Name:   ic.Shape,
			Shape:  d,
			Style:  style,
			Mover:  mover,
			Color:  HueColor(ic.Hue),
			Bounds: meshio.Bounds(d),
		})
	}
	return items, nil
}

// ExportSTL writes the triangles of the item's shape to w as binary STL.
// Shapes without triangle topologies, like wireframes, return an error.
func ExportSTL(w io.Writer, item ItemConfig, silent bool) error {
	log := func(args ...any) {
		if !silent {
			fmt.Println(args...)
		}
	}
	watch := stopwatch()
	d, err := NewShape(item, gshape.VertexPos)
	if err != nil {
		return err
	}
	tr, err := meshio.NewTriangles(d)
	if err != nil {
		return fmt.Errorf("shape %s: %w", item.Shape, err)
	}
	triangles, err := meshio.ReadAll(tr, nil)
	if err != nil {
		return fmt.Errorf("reading triangles: %w", err)
	}
	log("generated", item.Shape, "with", d.VertexCount(), "vertices and", len(triangles), "triangles in", watch())
	watch = stopwatch()
	_, err = meshio.WriteBinarySTL(w, triangles)
	if err != nil {
		return fmt.Errorf("writing STL file: %w", err)
	}
	filename := "STL"
	if fp, ok := w.(*os.File); ok {
		filename = fp.Name()
	}
	log("wrote", filename, "in", watch())
	return nil
}

// UI opens a window cycling through the configured items until the window is
// closed or ctx is cancelled. Requires cgo.
// Left and right arrow keys or space select items, dragging the mouse orbits
// the camera and scrolling zooms.
func UI(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("nil context")
	}
	items, err := NewItems(cfg)
	if err != nil {
		return err
	}
	return ui(ctx, cfg, items)
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
