package gshapeaux

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/soypat/gshape"
	"github.com/soypat/gshape/forge/logo"
)

// Variant is a derived form of a generated shape.
type Variant uint8

const (
	VariantNone Variant = iota
	// VariantWire draws the unique edges of the shape.
	VariantWire
	// VariantPoints draws every referenced vertex once.
	VariantPoints
	// VariantVectors draws a line per vertex, meant for vector styles.
	VariantVectors
)

var variantNames = map[string]Variant{
	"":        VariantNone,
	"wire":    VariantWire,
	"points":  VariantPoints,
	"vectors": VariantVectors,
}

type shapeFunc func(bld *gshape.Builder, detail int, item ItemConfig) (*gshape.Description, error)

var shapes = map[string]shapeFunc{
	"toroid": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewToroid(0.6, 0.25, 24*k, 12*k), nil
	},
	"sphere": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewSphere(0.8, 24*k, 12*k), nil
	},
	"icosphere": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewIcosphere(0.8, min(1+k, 6)), nil
	},
	"cube": func(bld *gshape.Builder, _ int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewCube(1), nil
	},
	"sharedcube": func(bld *gshape.Builder, _ int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewSharedCube(1), nil
	},
	"cylinder": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewCylinder(0.5, 1.2, 24*k), nil
	},
	"cylinoid": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewCylinoid(0.4, 0.8, 24*k, 8*k), nil
	},
	"knot": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewKnot(2, 3, 0.9, 0.12, 128*k, 12*k), nil
	},
	"knotcurve": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewKnotCurve(2, 3, 0.9, 128*k), nil
	},
	"grid": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewGrid(1.6, 1.6, 16*k, 16*k), nil
	},
	"ripple": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewRipple(1.6, 48*k, 0.08, 12), nil
	},
	"bump": func(bld *gshape.Builder, k int, _ ItemConfig) (*gshape.Description, error) {
		return bld.NewBump(1.6, 32*k, 0.5, 0.25), nil
	},
	"logo": func(bld *gshape.Builder, _ int, item ItemConfig) (*gshape.Description, error) {
		text := item.Text
		if text == "" {
			text = "gshape"
		}
		l := logo.Logo{Size: 1.6 / float32(len(text)), Depth: 0.15}
		return l.Description(bld, text)
	},
}

// ShapeNames returns the names of all base shapes in sorted order.
func ShapeNames() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// parseShapeName splits "base.variant" names.
func parseShapeName(name string) (string, Variant, error) {
	base, variantName, _ := strings.Cut(name, ".")
	if _, ok := shapes[base]; !ok {
		return "", 0, fmt.Errorf("unknown shape %q", base)
	}
	v, ok := variantNames[variantName]
	if !ok {
		return "", 0, fmt.Errorf("unknown shape variant %q", variantName)
	}
	return base, v, nil
}

// NewShape generates the shape named by item.Shape with the attributes in vt
// and applies its variant. Generator parameter errors are returned instead of
// panicking.
func NewShape(item ItemConfig, vt gshape.VertexType) (*gshape.Description, error) {
	base, variant, err := parseShapeName(item.Shape)
	if err != nil {
		return nil, err
	}
	detail := max(item.Detail, 1)
	bld := gshape.Builder{Type: vt}
	bld.SetFlags(gshape.FlagNoDimensionPanic)
	d, err := shapes[base](&bld, detail, item)
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", base, err)
	} else if err = bld.Err(); err != nil {
		return nil, fmt.Errorf("shape %s: %w", base, err)
	}
	switch variant {
	case VariantWire:
		d = d.WireFrame()
	case VariantPoints:
		d = d.PointCloud()
	case VariantVectors:
		if d.Normal.Len() == 0 {
			return nil, errors.New("vectors variant requires normals")
		}
		d = d.DegeneratePoints()
	}
	return d, nil
}
