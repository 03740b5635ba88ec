// Package logo builds extruded text outlines as line shapes from TrueType fonts.
package logo

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
)

// Logo renders a line of text as the outline of extruded glyphs.
type Logo struct {
	// Font used for glyph outlines. If nil the Go Regular font is used.
	Font *Font
	// Size is the em height of the text.
	Size float32
	// Depth is the extrusion along Z. Front outlines lie at +Depth/2.
	Depth float32
}

type placedContour struct {
	pts []ms3.Vec
	off float32
}

// Description returns a shape holding the outlines of text centered on the
// origin. Every glyph contour becomes two line loops, one per face, and each
// contour point is joined to its counterpart on the other face by a line.
// The weight attribute is 0 on the front face and 1 on the back face.
func (l *Logo) Description(bld *gshape.Builder, text string) (*gshape.Description, error) {
	if l.Size <= 0 || l.Depth < 0 {
		return nil, errors.New("invalid logo size or depth")
	}
	f := l.Font
	if f == nil {
		var err error
		f, err = DefaultFont()
		if err != nil {
			return nil, err
		}
	}
	var placed []placedContour
	var xOfs float32
	var prev rune
	for ic, c := range text {
		if !unicode.IsGraphic(c) {
			return nil, fmt.Errorf("char %q not graphic", c)
		}
		if ic > 0 {
			xOfs += f.Kern(prev, c)
		}
		prev = c
		if unicode.IsSpace(c) {
			adv := f.AdvanceWidth(c)
			if c == '\t' {
				adv *= 4
			}
			xOfs += adv
			continue
		}
		contours, err := f.Outline(c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		for _, pts := range contours {
			placed = append(placed, placedContour{pts: pts, off: xOfs})
		}
		xOfs += f.AdvanceWidth(c)
	}
	if len(placed) == 0 {
		// Only whitespace.
		return nil, errors.New("no text provided")
	}
	center := ms3.Vec{X: xOfs / 2, Y: 0.35}
	d := gshape.NewDescription()
	hd := l.Depth / 2
	for _, pc := range placed {
		n := len(pc.pts)
		if n < 3 {
			continue
		}
		front := make([]int, n)
		back := make([]int, n)
		for face, z := range [2]float32{hd, -hd} {
			for i, p := range pc.pts {
				prev, next := pc.pts[(i+n-1)%n], pc.pts[(i+1)%n]
				tangent := unitOrZero(ms3.Sub(next, prev))
				v := gshape.Vertex{
					Pos:      ms3.Vec{X: l.Size * (p.X + pc.off - center.X), Y: l.Size * (p.Y - center.Y), Z: z},
					Normal:   ms3.Vec{X: tangent.Y, Y: -tangent.X},
					U:        (p.X + pc.off) / xOfs,
					V:        p.Y,
					Binormal: tangent,
					Weight:   float32(face),
					Adj1:     ms3.Vec{X: l.Size * (prev.X + pc.off - center.X), Y: l.Size * (prev.Y - center.Y), Z: z},
					Adj2:     ms3.Vec{X: l.Size * (next.X + pc.off - center.X), Y: l.Size * (next.Y - center.Y), Z: z},
				}
				if face == 0 {
					front[i] = bld.AddVertex(d, v)
				} else {
					back[i] = bld.AddVertex(d, v)
				}
			}
		}
		d.LineLoops.Start(front...)
		d.LineLoops.Start(back...)
		for i := range front {
			d.Lines.Add(front[i], back[i])
		}
	}
	if d.VertexCount() == 0 {
		return nil, errors.New("text has no outlines")
	}
	return d, nil
}

func unitOrZero(v ms3.Vec) ms3.Vec {
	if ms3.Norm(v) == 0 {
		return ms3.Vec{}
	}
	return ms3.Unit(v)
}
