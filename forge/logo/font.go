package logo

import (
	"errors"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

type FontConfig struct {
	// CurveSteps is the number of line segments each quadratic outline curve is
	// flattened into. If zero a reasonable value is chosen.
	CurveSteps int
}

// Font implements font parsing and glyph outline extraction.
type Font struct {
	ttf truetype.Font
	gb  truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]*glyph
	// Other kinds of glyphs.
	otherGlyphs map[rune]*glyph
	steps       int // Set by config or reset call if zeroed.
}

// glyph holds the closed outlines of a character on the Z=0 plane in em units.
type glyph struct {
	contours [][]ms3.Vec
}

// DefaultFont returns the Go Regular font ready for use.
func DefaultFont() (*Font, error) {
	var f Font
	err := f.LoadTTFBytes(goregular.TTF)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Font) Configure(cfg FontConfig) error {
	if cfg.CurveSteps < 0 || cfg.CurveSteps > 64 {
		return errors.New("invalid CurveSteps")
	}
	f.steps = cfg.CurveSteps
	f.reset()
	return nil
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the Font is ready to generate outlines.
func (f *Font) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	return nil
}

// reset resets most internal state of Font without removing underlying assigned font.
func (f *Font) reset() {
	for i := range f.basicGlyphs {
		f.basicGlyphs[i] = nil
	}
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]*glyph)
	} else {
		clear(f.otherGlyphs)
	}
	if f.steps == 0 {
		f.steps = 6
	}
}

// Kern returns the horizontal adjustment in em units for the given glyph pair.
// A positive kern means to move the glyphs further apart.
func (f *Font) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1))) * f.scaleout()
}

// AdvanceWidth returns the horizontal advance of c in em units.
func (f *Font) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth) * f.scaleout()
}

// Outline returns the closed contours of c in em units. The returned slices
// are shared and must not be modified.
func (f *Font) Outline(c rune) (_ [][]ms3.Vec, err error) {
	var g *glyph
	if c >= firstBasic && c <= lastBasic {
		// Basic ASCII glyph case.
		g = f.basicGlyphs[c-firstBasic]
		if g == nil {
			// Glyph not yet created. create it.
			g, err = f.makeGlyph(c)
			if err != nil {
				return nil, err
			}
			f.basicGlyphs[c-firstBasic] = g
		}
		return g.contours, nil
	}
	// Unicode or other glyph.
	g, ok := f.otherGlyphs[c]
	if !ok {
		g, err = f.makeGlyph(c)
		if err != nil {
			return nil, err
		}
		f.otherGlyphs[c] = g
	}
	return g.contours, nil
}

func (f *Font) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

// scaleout converts from font units to em units.
func (f *Font) scaleout() float32 {
	return 1 / float32(f.ttf.FUnitsPerEm())
}

func (f *Font) makeGlyph(char rune) (*glyph, error) {
	if f.otherGlyphs == nil {
		f.reset()
	}
	g := &f.gb
	idx := f.ttf.Index(char)
	err := g.Load(&f.ttf, f.scale(), idx, font.HintingNone)
	if err != nil {
		return nil, err
	}
	scaleout := f.scaleout()
	var contours [][]ms3.Vec
	start := 0
	for _, end := range g.Ends {
		if end-start >= 2 {
			contours = append(contours, flattenContour(g.Points[start:end], f.steps, scaleout))
		}
		start = end
	}
	return &glyph{contours: contours}, nil
}

// flattenContour converts a closed TrueType contour of on-curve and
// off-curve quadratic control points into a polygon. Consecutive off-curve
// points imply an on-curve point at their midpoint.
func flattenContour(points []truetype.Point, steps int, scale float32) []ms3.Vec {
	type ctl struct {
		v  ms3.Vec
		on bool
	}
	n := len(points)
	expanded := make([]ctl, 0, 2*n)
	for i, p := range points {
		next := points[(i+1)%n]
		c := ctl{v: p2v(p, scale), on: p.Flags&1 != 0}
		expanded = append(expanded, c)
		if !c.on && next.Flags&1 == 0 {
			expanded = append(expanded, ctl{v: ms3.Scale(0.5, ms3.Add(c.v, p2v(next, scale))), on: true})
		}
	}
	// Rotate so the walk begins on an on-curve point.
	first := 0
	for first < len(expanded) && !expanded[first].on {
		first++
	}
	if first == len(expanded) {
		return nil // Malformed contour with no on-curve point.
	}
	expanded = append(expanded[first:], expanded[:first]...)

	m := len(expanded)
	poly := make([]ms3.Vec, 0, m*steps)
	for i := 0; i < m; {
		p0 := expanded[i].v
		next := expanded[(i+1)%m]
		if next.on {
			poly = append(poly, p0)
			i++
			continue
		}
		p2 := expanded[(i+2)%m].v
		for s := 0; s < steps; s++ {
			poly = append(poly, quadBezier(p0, next.v, p2, float32(s)/float32(steps)))
		}
		i += 2
	}
	return poly
}

func quadBezier(p0, p1, p2 ms3.Vec, t float32) ms3.Vec {
	mt := 1 - t
	return ms3.Add(ms3.Add(ms3.Scale(mt*mt, p0), ms3.Scale(2*mt*t, p1)), ms3.Scale(t*t, p2))
}

func p2v(p truetype.Point, scale float32) ms3.Vec {
	return ms3.Vec{
		X: float32(p.X) * scale,
		Y: float32(p.Y) * scale,
	}
}
