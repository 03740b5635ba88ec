package gshapeaux

import (
	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// HueColor returns a saturated RGB color of hue h in [0,1).
func HueColor(h float32) ms3.Vec {
	h = h - math.Floor(h)
	r, g, b := hsvToRGB(h, 0.65, 0.95)
	return ms3.Vec{X: r, Y: g, Z: b}
}

// Highlight blends c towards white by t in [0,1] preserving its hue.
func Highlight(c ms3.Vec, t float32) ms3.Vec {
	h0, s0, v0 := rgbToHSV(c.X, c.Y, c.Z)
	h, s, v := interpHSV(h0, s0, v0, h0, 0, 1, t)
	r, g, b := hsvToRGB(h, s, v)
	return ms3.Vec{X: r, Y: g, Z: b}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = interp(h0, h1, t)
	s = interp(s0, s1, t)
	v = interp(v0, v1, t)
	return h - math.Floor(h), s, v
}

func interp(a, b, t float32) float32 { return a + (b-a)*t }

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)

	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}

	r, g, b = r+m, g+m, b+m
	return r, g, b
}

// rgbToHSV converts red, green, and blue floating point values on the range
// 0.0 to 1.0 to hue, saturation and brightness values on the range 0.0 to 1.0
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return
}
