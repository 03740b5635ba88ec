// Package meshio exports gshape descriptions as triangle soups and STL files.
package meshio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshape"
)

// TriangleReader reads triangles in batches. It returns io.EOF once all
// triangles have been read.
type TriangleReader interface {
	ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error)
}

// Triangles reads the triangles described by the triangle topologies of a
// [gshape.Description]. Line and point topologies are ignored.
type Triangles struct {
	d    *gshape.Description
	idx  [][3]int
	next int
}

var _ TriangleReader = (*Triangles)(nil)

// NewTriangles validates d and prepares its triangles for reading.
func NewTriangles(d *gshape.Description) (*Triangles, error) {
	err := d.Validate()
	if err != nil {
		return nil, err
	}
	t := &Triangles{d: d}
	d.ForEachTriangle(func(a, b, c int) {
		t.idx = append(t.idx, [3]int{a, b, c})
	})
	if len(t.idx) == 0 {
		return nil, errors.New("shape has no triangles")
	}
	return t, nil
}

// Len returns the total number of triangles.
func (t *Triangles) Len() int { return len(t.idx) }

// ReadTriangles copies the next triangles into dst.
func (t *Triangles) ReadTriangles(dst []ms3.Triangle, userData any) (n int, err error) {
	if len(dst) == 0 {
		return 0, errors.New("zero length triangle buffer")
	}
	for n < len(dst) && t.next < len(t.idx) {
		tri := t.idx[t.next]
		dst[n] = ms3.Triangle{t.d.Pos.Vec(tri[0]), t.d.Pos.Vec(tri[1]), t.d.Pos.Vec(tri[2])}
		n++
		t.next++
	}
	if t.next == len(t.idx) {
		return n, io.EOF
	}
	return n, nil
}

// Reset rewinds the reader to the first triangle.
func (t *Triangles) Reset() { t.next = 0 }

// ReadAll reads the full contents of a TriangleReader and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func ReadAll(r TriangleReader, userData any) ([]ms3.Triangle, error) {
	const startSize = 4096
	var err error
	var nt int
	result := make([]ms3.Triangle, 0, startSize)
	buf := make([]ms3.Triangle, startSize)
	for {
		nt, err = r.ReadTriangles(buf, userData)
		if err == nil || err == io.EOF {
			result = append(result, buf[:nt]...)
		}
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

// Bounds returns the axis aligned bounding box of the positions of d.
func Bounds(d *gshape.Description) ms3.Box {
	n := d.VertexCount()
	if n == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: d.Pos.Vec(0), Max: d.Pos.Vec(0)}
	for i := 1; i < n; i++ {
		p := d.Pos.Vec(i)
		bb.Min = ms3.Vec{X: math32.Min(bb.Min.X, p.X), Y: math32.Min(bb.Min.Y, p.Y), Z: math32.Min(bb.Min.Z, p.Z)}
		bb.Max = ms3.Vec{X: math32.Max(bb.Max.X, p.X), Y: math32.Max(bb.Max.Y, p.Y), Z: math32.Max(bb.Max.Z, p.Z)}
	}
	return bb
}

const stlHeaderSize = 80

// WriteBinarySTL writes triangles to w in binary STL format. Facet normals
// follow the right hand rule.
func WriteBinarySTL(w io.Writer, triangles []ms3.Triangle) (int, error) {
	if uint64(len(triangles)) > math.MaxUint32 {
		return 0, errors.New("too many triangles for STL")
	}
	var header [stlHeaderSize + 4]byte
	copy(header[:], "gshape binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(len(triangles)))
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	var facet [50]byte
	for _, tri := range triangles {
		e1, e2 := ms3.Sub(tri[1], tri[0]), ms3.Sub(tri[2], tri[0])
		nrm := ms3.Vec{
			X: e1.Y*e2.Z - e1.Z*e2.Y,
			Y: e1.Z*e2.X - e1.X*e2.Z,
			Z: e1.X*e2.Y - e1.Y*e2.X,
		}
		if l := ms3.Norm(nrm); l > 0 {
			nrm = ms3.Scale(1/l, nrm)
		}
		putVec(facet[0:], nrm)
		putVec(facet[12:], tri[0])
		putVec(facet[24:], tri[1])
		putVec(facet[36:], tri[2])
		// facet[48:50] attribute byte count stays zero.
		ngot, err := w.Write(facet[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

// ReadBinarySTL reads all triangles from a binary STL stream.
func ReadBinarySTL(r io.Reader) ([]ms3.Triangle, error) {
	var header [stlHeaderSize + 4]byte
	_, err := io.ReadFull(r, header[:])
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(header[stlHeaderSize:])
	triangles := make([]ms3.Triangle, 0, min(count, 1<<20))
	var facet [50]byte
	for i := uint32(0); i < count; i++ {
		_, err = io.ReadFull(r, facet[:])
		if err != nil {
			return triangles, err
		}
		triangles = append(triangles, ms3.Triangle{getVec(facet[12:]), getVec(facet[24:]), getVec(facet[36:])})
	}
	return triangles, nil
}

func getVec(b []byte) ms3.Vec {
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}
