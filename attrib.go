package gshape

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Attrib identifies a per-vertex attribute stream. The declaration order is
// the order attributes are interleaved in a packed vertex.
type Attrib uint8

const (
	AttribPos      Attrib = iota // POS: position.
	AttribColor3                 // CLR3: RGB color.
	AttribColor4                 // CLR4: RGBA color.
	AttribNormal                 // NORM: surface normal.
	AttribTexCoord               // TXT: texture coordinate.
	AttribCube                   // CUBE: cube map direction.
	AttribBinormal               // BINM: binormal.
	AttribWeight                 // WGHT: scalar weight.
	AttribAdj1                   // ADJ1: first adjacent position.
	AttribAdj2                   // ADJ2: second adjacent position.
	numAttribs
)

var attribWidths = [numAttribs]int{
	AttribPos:      3,
	AttribColor3:   3,
	AttribColor4:   4,
	AttribNormal:   3,
	AttribTexCoord: 2,
	AttribCube:     3,
	AttribBinormal: 3,
	AttribWeight:   1,
	AttribAdj1:     3,
	AttribAdj2:     3,
}

var attribNames = [numAttribs]string{
	AttribPos:      "POS",
	AttribColor3:   "CLR3",
	AttribColor4:   "CLR4",
	AttribNormal:   "NORM",
	AttribTexCoord: "TXT",
	AttribCube:     "CUBE",
	AttribBinormal: "BINM",
	AttribWeight:   "WGHT",
	AttribAdj1:     "ADJ1",
	AttribAdj2:     "ADJ2",
}

// Attribs returns all attributes in interleave order.
func Attribs() []Attrib {
	all := make([]Attrib, numAttribs)
	for i := range all {
		all[i] = Attrib(i)
	}
	return all
}

// Width returns the number of float32 components of the attribute.
func (a Attrib) Width() int {
	if a >= numAttribs {
		return 0
	}
	return attribWidths[a]
}

// Flag returns the VertexType with only a set.
func (a Attrib) Flag() VertexType { return 1 << a }

func (a Attrib) String() string {
	if a >= numAttribs {
		return "Attrib(" + strconv.Itoa(int(a)) + ")"
	}
	return attribNames[a]
}

// VertexType is a bit mask naming which per-vertex attributes a mesh carries
// or a shader requires.
type VertexType uint16

const (
	VertexPos      = VertexType(1 << AttribPos)
	VertexColor3   = VertexType(1 << AttribColor3)
	VertexColor4   = VertexType(1 << AttribColor4)
	VertexNormal   = VertexType(1 << AttribNormal)
	VertexTexCoord = VertexType(1 << AttribTexCoord)
	VertexCube     = VertexType(1 << AttribCube)
	VertexBinormal = VertexType(1 << AttribBinormal)
	VertexWeight   = VertexType(1 << AttribWeight)
	VertexAdj1     = VertexType(1 << AttribAdj1)
	VertexAdj2     = VertexType(1 << AttribAdj2)

	VertexAll = VertexType(1<<numAttribs - 1)
)

// Has reports whether a is set in vt.
func (vt VertexType) Has(a Attrib) bool { return vt&a.Flag() != 0 }

// Stride returns the sum of widths of the attributes in vt.
func (vt VertexType) Stride() (stride int) {
	for a := Attrib(0); a < numAttribs; a++ {
		if vt.Has(a) {
			stride += a.Width()
		}
	}
	return stride
}

// String returns the attribute names joined by '|', i.e: "POS|NORM".
func (vt VertexType) String() string {
	if vt == 0 {
		return "0"
	}
	var sb strings.Builder
	for a := Attrib(0); a < numAttribs; a++ {
		if !vt.Has(a) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

// ParseVertexType parses the format returned by [VertexType.String].
// Names are case insensitive.
func ParseVertexType(s string) (VertexType, bool) {
	var vt VertexType
	if s == "0" {
		return 0, true
	}
	for _, name := range strings.Split(s, "|") {
		name = strings.ToUpper(strings.TrimSpace(name))
		found := false
		for a := Attrib(0); a < numAttribs; a++ {
			if attribNames[a] == name {
				vt |= a.Flag()
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return vt, true
}

// AttribBuffer is an append-only sequence of fixed width float32 tuples, one
// per vertex. Insertion order is vertex index order.
type AttribBuffer struct {
	attrib Attrib
	data   []float32
}

func makeAttribBuffer(a Attrib) AttribBuffer {
	return AttribBuffer{attrib: a}
}

// Attrib returns the attribute kind stored in the buffer.
func (ab *AttribBuffer) Attrib() Attrib { return ab.attrib }

// Width returns the number of components per element.
func (ab *AttribBuffer) Width() int { return ab.attrib.Width() }

// Len returns the number of tuples stored.
func (ab *AttribBuffer) Len() int {
	w := ab.Width()
	if w == 0 {
		return 0
	}
	return len(ab.data) / w
}

// Add appends a tuple and returns its index. len(v) must equal the buffer width.
func (ab *AttribBuffer) Add(v ...float32) int {
	if len(v) != ab.Width() {
		panic(ab.attrib.String() + ": tuple length " + strconv.Itoa(len(v)) + " does not match width " + strconv.Itoa(ab.Width()))
	}
	ab.data = append(ab.data, v...)
	return ab.Len() - 1
}

// AddVec appends a 3 component tuple. Panics if the buffer is not 3 wide.
func (ab *AttribBuffer) AddVec(v ms3.Vec) int {
	return ab.Add(v.X, v.Y, v.Z)
}

// Set overwrites the tuple at index i. Panics if i is out of range or
// len(v) does not match the buffer width.
func (ab *AttribBuffer) Set(i int, v ...float32) {
	w := ab.Width()
	if len(v) != w {
		panic(ab.attrib.String() + ": tuple length " + strconv.Itoa(len(v)) + " does not match width " + strconv.Itoa(w))
	} else if i < 0 || i >= ab.Len() {
		panic(ab.attrib.String() + ": index " + strconv.Itoa(i) + " out of range")
	}
	copy(ab.data[i*w:], v)
}

// SetVec overwrites the 3 component tuple at index i.
func (ab *AttribBuffer) SetVec(i int, v ms3.Vec) {
	ab.Set(i, v.X, v.Y, v.Z)
}

// Get returns a copy of the tuple at index i.
func (ab *AttribBuffer) Get(i int) []float32 {
	w := ab.Width()
	if i < 0 || i >= ab.Len() {
		panic(ab.attrib.String() + ": index " + strconv.Itoa(i) + " out of range")
	}
	return append([]float32(nil), ab.data[i*w:i*w+w]...)
}

// Vec returns the tuple at index i of a 3 wide buffer as a vector.
func (ab *AttribBuffer) Vec(i int) ms3.Vec {
	if ab.Width() != 3 {
		panic(ab.attrib.String() + ": not a 3 component attribute")
	} else if i < 0 || i >= ab.Len() {
		panic(ab.attrib.String() + ": index " + strconv.Itoa(i) + " out of range")
	}
	return ms3.Vec{X: ab.data[i*3], Y: ab.data[i*3+1], Z: ab.data[i*3+2]}
}

// Find returns the first index whose tuple matches v within eps on every
// component, or -1 if none does.
func (ab *AttribBuffer) Find(v []float32, eps float32) int {
	w := ab.Width()
	if len(v) != w {
		return -1
	}
	n := ab.Len()
OUTER:
	for i := 0; i < n; i++ {
		elem := ab.data[i*w : i*w+w]
		for j, c := range elem {
			if math32.Abs(c-v[j]) > eps {
				continue OUTER
			}
		}
		return i
	}
	return -1
}

// FindVec is shorthand for Find with a 3 component vector.
func (ab *AttribBuffer) FindVec(v ms3.Vec, eps float32) int {
	return ab.Find([]float32{v.X, v.Y, v.Z}, eps)
}

// Reset discards all tuples, keeping the underlying storage.
func (ab *AttribBuffer) Reset() {
	ab.data = ab.data[:0]
}

// Data returns the raw tuple storage. It must not be modified.
func (ab *AttribBuffer) Data() []float32 { return ab.data }

func (ab *AttribBuffer) clone() AttribBuffer {
	return AttribBuffer{attrib: ab.attrib, data: append([]float32(nil), ab.data...)}
}
