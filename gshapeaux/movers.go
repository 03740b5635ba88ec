package gshapeaux

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Mat4 is a column major 4x4 matrix as consumed by OpenGL.
type Mat4 = [16]float32

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul4 returns the matrix product a*b.
func Mul4(a, b Mat4) (m Mat4) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			m[col*4+row] = sum
		}
	}
	return m
}

// MulVec4 returns m*(v,w) discarding the fourth component.
func MulVec4(m Mat4, v ms3.Vec, w float32) ms3.Vec {
	return ms3.Vec{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*w,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*w,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*w,
	}
}

// RotationY returns a rotation of angle radians about the Y axis.
func RotationY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationX returns a rotation of angle radians about the X axis.
func RotationX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation of angle radians about the Z axis.
func RotationZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right handed projection matrix with vertical field of
// view fovy in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAt returns a view matrix for a camera at eye looking at target.
func LookAt(eye, target, up ms3.Vec) Mat4 {
	f := ms3.Unit(ms3.Sub(target, eye))
	s := ms3.Unit(ms3.Cross(f, up))
	u := ms3.Cross(s, f)
	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-ms3.Dot(s, eye), -ms3.Dot(u, eye), ms3.Dot(f, eye), 1,
	}
}

// Mover controls the motion of a gallery item.
type Mover interface {
	// Model returns the model matrix at time t in seconds.
	Model(t float32) Mat4
}

// Still never moves.
type Still struct{}

func (Still) Model(float32) Mat4 { return Identity4() }

// Spin rotates about the Y axis at Rate radians per second.
type Spin struct {
	Rate float32
}

func (s Spin) Model(t float32) Mat4 { return RotationY(s.Rate * t) }

// Tumble rotates about all three axes at the rates in Rate (radians per second).
type Tumble struct {
	Rate ms3.Vec
}

func (tb Tumble) Model(t float32) Mat4 {
	m := RotationX(tb.Rate.X * t)
	m = Mul4(RotationY(tb.Rate.Y*t), m)
	return Mul4(RotationZ(tb.Rate.Z*t), m)
}

// ParseMover returns the mover of the given name: "still", "spin" or
// "tumble". The empty name is "spin".
func ParseMover(name string) (Mover, error) {
	switch name {
	case "still":
		return Still{}, nil
	case "spin", "":
		return Spin{Rate: 0.6}, nil
	case "tumble":
		return Tumble{Rate: ms3.Vec{X: 0.31, Y: 0.53, Z: 0.17}}, nil
	}
	return nil, fmt.Errorf("unknown mover %q", name)
}

// Camera orbits the origin at Distance, controlled by Yaw and Pitch in radians.
type Camera struct {
	Yaw, Pitch float32
	Distance   float32
	// FOV is the vertical field of view in radians.
	FOV float32
}

// Eye returns the camera position.
func (c *Camera) Eye() ms3.Vec {
	sy, cy := math32.Sincos(c.Yaw)
	sp, cp := math32.Sincos(c.Pitch)
	return ms3.Scale(c.Distance, ms3.Vec{X: cp * sy, Y: sp, Z: cp * cy})
}

// View returns the view matrix of the camera.
func (c *Camera) View() Mat4 {
	return LookAt(c.Eye(), ms3.Vec{}, ms3.Vec{Y: 1})
}

// Proj returns the projection matrix for a viewport of the given aspect ratio.
func (c *Camera) Proj(aspect float32) Mat4 {
	return Perspective(c.FOV, aspect, c.Distance/100, c.Distance*10)
}

// Orbit moves the camera by yaw and pitch increments clamping pitch so the
// camera never flips over the poles.
func (c *Camera) Orbit(dyaw, dpitch float32) {
	const maxPitch = math32.Pi/2 - 0.01
	c.Yaw += dyaw
	c.Pitch = math32.Max(-maxPitch, math32.Min(maxPitch, c.Pitch+dpitch))
}

// Zoom scales the camera distance by factor clamped to [lo,hi].
func (c *Camera) Zoom(factor, lo, hi float32) {
	c.Distance = math32.Max(lo, math32.Min(hi, c.Distance*factor))
}
