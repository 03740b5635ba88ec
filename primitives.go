package gshape

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// NewToroid creates a torus around the Y axis with the given major (ring) and
// minor (tube) radii. The lattice has (majorCount+1)*(minorCount+1) vertices
// with the seam duplicated for texturing, and one triangle strip per major step.
func (bld *Builder) NewToroid(major, minor float32, majorCount, minorCount int) *Description {
	ok := true
	if major <= 0 || minor <= 0 {
		bld.shapeErrorf("zero or negative toroid radius")
		ok = false
	}
	if majorCount < 3 || minorCount < 3 {
		bld.shapeErrorf("toroid needs at least 3 major and minor steps, got %d,%d", majorCount, minorCount)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	for i := 0; i <= majorCount; i++ {
		theta := twopi * float32(i) / float32(majorCount)
		st, ct := math32.Sincos(theta)
		for j := 0; j <= minorCount; j++ {
			phi := twopi * float32(j) / float32(minorCount)
			sp, cp := math32.Sincos(phi)
			n := ms3.Vec{X: cp * ct, Y: sp, Z: cp * st}
			center := ms3.Vec{X: major * ct, Z: major * st}
			bld.AddVertex(d, Vertex{
				Pos:      ms3.Add(center, ms3.Scale(minor, n)),
				Normal:   n,
				U:        float32(i) / float32(majorCount),
				V:        float32(j) / float32(minorCount),
				Binormal: ms3.Vec{X: -st, Z: ct},
			})
		}
	}
	bld.latticeStrips(d, 0, majorCount, minorCount)
	return d
}

// NewSphere creates a UV sphere of radius r centered at the origin with
// slices meridians and stacks parallels, one triangle strip per stack.
func (bld *Builder) NewSphere(r float32, slices, stacks int) *Description {
	ok := true
	if r <= 0 {
		bld.shapeErrorf("zero or negative sphere radius")
		ok = false
	}
	if slices < 3 || stacks < 2 {
		bld.shapeErrorf("sphere needs at least 3 slices and 2 stacks, got %d,%d", slices, stacks)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	for i := 0; i <= stacks; i++ {
		theta := math32.Pi * float32(i) / float32(stacks)
		bld.addRing(d, r, theta, ms3.Vec{}, slices, float32(i)/float32(stacks))
	}
	bld.latticeStrips(d, 0, stacks, slices)
	return d
}

// addRing adds slices+1 vertices of a sphere of radius r at polar angle theta
// (measured from +Y) displaced by off.
func (bld *Builder) addRing(d *Description, r, theta float32, off ms3.Vec, slices int, v float32) {
	sth, cth := math32.Sincos(theta)
	for j := 0; j <= slices; j++ {
		phi := twopi * float32(j) / float32(slices)
		sp, cp := math32.Sincos(phi)
		n := ms3.Vec{X: sth * cp, Y: cth, Z: sth * sp}
		bld.AddVertex(d, Vertex{
			Pos:      ms3.Add(off, ms3.Scale(r, n)),
			Normal:   n,
			U:        float32(j) / float32(slices),
			V:        v,
			Binormal: ms3.Vec{X: -sp, Z: cp},
		})
	}
}

// latticeStrips adds one triangle strip between each pair of consecutive rows
// of a rows+1 by cols+1 vertex lattice starting at vertex base. Strips wind
// counter-clockwise when row i+1 lies after row i in the direction of
// increasing polar angle.
func (bld *Builder) latticeStrips(d *Description, base, rows, cols int) {
	stride := cols + 1
	for i := 0; i < rows; i++ {
		run := make([]int, 0, 2*stride)
		for j := 0; j <= cols; j++ {
			run = append(run, base+(i+1)*stride+j, base+i*stride+j)
		}
		d.TriStrips.Start(run...)
	}
}

// NewIcosphere creates a sphere of radius r by subdividing an icosahedron.
// Edge midpoints are shared between neighbouring faces.
func (bld *Builder) NewIcosphere(r float32, subdivisions int) *Description {
	ok := true
	if r <= 0 {
		bld.shapeErrorf("zero or negative icosphere radius")
		ok = false
	}
	if subdivisions < 0 || subdivisions > 8 {
		bld.shapeErrorf("icosphere subdivisions must be in [0,8], got %d", subdivisions)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	const phi = 1.6180339887498948482045868343656381177203091798057628621354486227
	base := [12]ms3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for _, p := range base {
		bld.addSpherePoint(d, r, p)
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	mid := func(a, b int) int {
		p := ms3.Add(d.Pos.Vec(a), d.Pos.Vec(b))
		p = ms3.Scale(r, unitOrZero(p))
		if i := d.Pos.FindVec(p, DefaultEpsilon*max(r, 1)); i >= 0 {
			return i
		}
		return bld.addSpherePoint(d, r, p)
	}
	for s := 0; s < subdivisions; s++ {
		next := make([][3]int, 0, 4*len(faces))
		for _, f := range faces {
			ab, bc, ca := mid(f[0], f[1]), mid(f[1], f[2]), mid(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}
	for _, f := range faces {
		d.Tris.Add(f[0], f[1], f[2])
	}
	return d
}

func (bld *Builder) addSpherePoint(d *Description, r float32, p ms3.Vec) int {
	n := unitOrZero(p)
	return bld.AddVertex(d, Vertex{
		Pos:      ms3.Scale(r, n),
		Normal:   n,
		U:        0.5 + math32.Atan2(n.Z, n.X)/twopi,
		V:        math32.Acos(n.Y) / math32.Pi,
		Binormal: unitOrZero(ms3.Vec{X: -n.Z, Z: n.X}),
	})
}

// cubeFaces lists the outward normal and two in-face axes u,v of every cube
// face such that u×v equals the normal.
var cubeFaces = [6][3]ms3.Vec{
	{{X: 1}, {Y: 1}, {Z: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {Z: 1}, {X: 1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {Y: 1}, {X: 1}},
}

// cubeFaceCorners returns the corners of face f of a cube of half size h in
// counter-clockwise order seen from outside.
func cubeFaceCorners(f int, h float32) [4]ms3.Vec {
	n, u, v := cubeFaces[f][0], cubeFaces[f][1], cubeFaces[f][2]
	c := ms3.Scale(h, n)
	u = ms3.Scale(h, u)
	v = ms3.Scale(h, v)
	return [4]ms3.Vec{
		ms3.Sub(ms3.Sub(c, u), v),
		ms3.Sub(ms3.Add(c, u), v),
		ms3.Add(ms3.Add(c, u), v),
		ms3.Add(ms3.Sub(c, u), v),
	}
}

// NewCube creates an axis aligned cube with edge length size centered at the
// origin. Each face has its own four vertices so normals stay flat: 24
// vertices drawn as 6 quads.
func (bld *Builder) NewCube(size float32) *Description {
	d := NewDescription()
	if size <= 0 {
		bld.shapeErrorf("zero or negative cube size")
		return d
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for f := range cubeFaces {
		corners := cubeFaceCorners(f, size/2)
		var quad [4]int
		for k, p := range corners {
			quad[k] = bld.AddVertex(d, Vertex{
				Pos:      p,
				Normal:   cubeFaces[f][0],
				U:        uvs[k][0],
				V:        uvs[k][1],
				Binormal: cubeFaces[f][1],
			})
		}
		d.Quads.Add(quad[:]...)
	}
	return d
}

// NewSharedCube creates a cube with edge length size whose 8 corners are
// shared by all faces, drawn as 12 triangles. Normals point along the
// diagonals which gives the cube a smoothed look.
func (bld *Builder) NewSharedCube(size float32) *Description {
	d := NewDescription()
	if size <= 0 {
		bld.shapeErrorf("zero or negative cube size")
		return d
	}
	h := size / 2
	for i := 0; i < 8; i++ {
		p := ms3.Vec{X: -h, Y: -h, Z: -h}
		if i&1 != 0 {
			p.X = h
		}
		if i&2 != 0 {
			p.Y = h
		}
		if i&4 != 0 {
			p.Z = h
		}
		n := ms3.Scale(1/sqrt3, ms3.Vec{X: math32.Copysign(1, p.X), Y: math32.Copysign(1, p.Y), Z: math32.Copysign(1, p.Z)})
		bld.AddVertex(d, Vertex{
			Pos:      p,
			Normal:   n,
			U:        float32(i & 1),
			V:        float32((i >> 1) & 1),
			Binormal: unitOrZero(ms3.Vec{X: -n.Z, Z: n.X}),
		})
	}
	corner := func(p ms3.Vec) int {
		i := 0
		if p.X > 0 {
			i |= 1
		}
		if p.Y > 0 {
			i |= 2
		}
		if p.Z > 0 {
			i |= 4
		}
		return i
	}
	for f := range cubeFaces {
		c := cubeFaceCorners(f, h)
		a, b, cc, dd := corner(c[0]), corner(c[1]), corner(c[2]), corner(c[3])
		d.Tris.Add(a, b, cc, a, cc, dd)
	}
	return d
}

// NewCylinder creates a closed cylinder of radius r and height h around the Y
// axis. The side is a single triangle strip and each cap a triangle fan with
// its own flat shaded rim vertices.
func (bld *Builder) NewCylinder(r, h float32, slices int) *Description {
	ok := true
	if r <= 0 || h <= 0 {
		bld.shapeErrorf("zero or negative cylinder dimension")
		ok = false
	}
	if slices < 3 {
		bld.shapeErrorf("cylinder needs at least 3 slices, got %d", slices)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	hh := h / 2
	side := make([]int, 0, 2*(slices+1))
	for j := 0; j <= slices; j++ {
		sp, cp := math32.Sincos(twopi * float32(j) / float32(slices))
		n := ms3.Vec{X: cp, Z: sp}
		u := float32(j) / float32(slices)
		bottom := bld.AddVertex(d, Vertex{Pos: ms3.Vec{X: r * cp, Y: -hh, Z: r * sp}, Normal: n, U: u, V: 0, Binormal: ms3.Vec{Y: 1}})
		top := bld.AddVertex(d, Vertex{Pos: ms3.Vec{X: r * cp, Y: hh, Z: r * sp}, Normal: n, U: u, V: 1, Binormal: ms3.Vec{Y: 1}})
		side = append(side, bottom, top)
	}
	d.TriStrips.Start(side...)
	bld.addCap(d, r, hh, slices, ms3.Vec{Y: 1})
	bld.addCap(d, r, -hh, slices, ms3.Vec{Y: -1})
	return d
}

// addCap adds a disk of radius r at height y facing n as a triangle fan.
func (bld *Builder) addCap(d *Description, r, y float32, slices int, n ms3.Vec) {
	fan := make([]int, 0, slices+2)
	fan = append(fan, bld.AddVertex(d, Vertex{Pos: ms3.Vec{Y: y}, Normal: n, U: 0.5, V: 0.5, Binormal: ms3.Vec{X: 1}}))
	for k := 0; k <= slices; k++ {
		j := k
		if n.Y > 0 {
			j = slices - k // Keep counter-clockwise winding seen from above.
		}
		sp, cp := math32.Sincos(twopi * float32(j) / float32(slices))
		fan = append(fan, bld.AddVertex(d, Vertex{
			Pos:      ms3.Vec{X: r * cp, Y: y, Z: r * sp},
			Normal:   n,
			U:        0.5 + 0.5*cp,
			V:        0.5 + 0.5*sp,
			Binormal: ms3.Vec{X: 1},
		}))
	}
	d.TriFans.Start(fan...)
}

// NewCylinoid creates a capsule: a cylinder of radius r with straight section
// of height h closed by two hemispheres of stacks parallels each.
func (bld *Builder) NewCylinoid(r, h float32, slices, stacks int) *Description {
	ok := true
	if r <= 0 || h < 0 {
		bld.shapeErrorf("invalid cylinoid dimension")
		ok = false
	}
	if slices < 3 || stacks < 1 {
		bld.shapeErrorf("cylinoid needs at least 3 slices and 1 stack, got %d,%d", slices, stacks)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	hh := h / 2
	rings := 2*stacks + 2
	total := 2*r + h
	for k := 0; k < rings; k++ {
		var theta float32
		off := ms3.Vec{Y: hh}
		if k <= stacks {
			theta = (math32.Pi / 2) * float32(k) / float32(stacks)
		} else {
			theta = math32.Pi/2 + (math32.Pi/2)*float32(k-stacks-1)/float32(stacks)
			off.Y = -hh
		}
		y := off.Y + r*math32.Cos(theta)
		bld.addRing(d, r, theta, off, slices, (total/2-y)/total)
	}
	bld.latticeStrips(d, 0, rings-1, slices)
	return d
}

// knotPoint returns the point of a (p,q) torus knot at angle t.
func knotPoint(p, q int, radius, t float32) ms3.Vec {
	sq, cq := math32.Sincos(float32(q) * t)
	sp, cp := math32.Sincos(float32(p) * t)
	rr := radius * (2 + cq) / 3
	return ms3.Vec{X: rr * cp, Y: radius * sq / 3, Z: rr * sp}
}

// NewKnot creates a tube of radius tube swept along a (p,q) torus knot whose
// largest extent is radius. p and q must be coprime for the knot to close on
// a single loop.
func (bld *Builder) NewKnot(p, q int, radius, tube float32, segments, tubeSegments int) *Description {
	ok := true
	if p < 1 || q < 1 {
		bld.shapeErrorf("knot winding numbers must be positive, got %d,%d", p, q)
		ok = false
	}
	if radius <= 0 || tube <= 0 {
		bld.shapeErrorf("zero or negative knot radius")
		ok = false
	}
	if segments < 3 || tubeSegments < 3 {
		bld.shapeErrorf("knot needs at least 3 segments and tube segments, got %d,%d", segments, tubeSegments)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	const dt = 0.01
	for i := 0; i <= segments; i++ {
		t := twopi * float32(i) / float32(segments)
		p1 := knotPoint(p, q, radius, t)
		p2 := knotPoint(p, q, radius, t+dt)
		tangent := ms3.Sub(p2, p1)
		bin := unitOrZero(ms3.Cross(tangent, ms3.Add(p2, p1)))
		nrm := unitOrZero(ms3.Cross(bin, tangent))
		tangent = unitOrZero(tangent)
		for j := 0; j <= tubeSegments; j++ {
			sv, cv := math32.Sincos(twopi * float32(j) / float32(tubeSegments))
			n := ms3.Add(ms3.Scale(-cv, nrm), ms3.Scale(sv, bin))
			bld.AddVertex(d, Vertex{
				Pos:      ms3.Add(p1, ms3.Scale(tube, n)),
				Normal:   n,
				U:        float32(i) / float32(segments),
				V:        float32(j) / float32(tubeSegments),
				Binormal: tangent,
			})
		}
	}
	bld.latticeStrips(d, 0, segments, tubeSegments)
	return d
}

// NewKnotCurve creates the centreline of a (p,q) torus knot as a single line
// loop of segments vertices. Each vertex carries its neighbours' positions in
// the adjacency attributes and its curve parameter in [0,1) as weight so a
// shader can extrude the line in screen space.
func (bld *Builder) NewKnotCurve(p, q int, radius float32, segments int) *Description {
	ok := true
	if p < 1 || q < 1 {
		bld.shapeErrorf("knot winding numbers must be positive, got %d,%d", p, q)
		ok = false
	}
	if radius <= 0 {
		bld.shapeErrorf("zero or negative knot radius")
		ok = false
	}
	if segments < 3 {
		bld.shapeErrorf("knot curve needs at least 3 segments, got %d", segments)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	at := func(i int) ms3.Vec {
		i = (i + segments) % segments
		return knotPoint(p, q, radius, twopi*float32(i)/float32(segments))
	}
	loop := make([]int, segments)
	for i := range loop {
		prev, pos, next := at(i-1), at(i), at(i+1)
		loop[i] = bld.AddVertex(d, Vertex{
			Pos:      pos,
			Normal:   unitOrZero(ms3.Sub(ms3.Add(prev, next), ms3.Scale(2, pos))),
			U:        float32(i) / float32(segments),
			Binormal: unitOrZero(ms3.Sub(next, prev)),
			Weight:   float32(i) / float32(segments),
			Adj1:     prev,
			Adj2:     next,
		})
	}
	d.LineLoops.Start(loop...)
	return d
}

// NewGrid creates a flat width by depth grid on the XZ plane facing +Y with
// nx by nz cells, drawn as a single triangle strip joined row to row by
// degenerate triangles.
func (bld *Builder) NewGrid(width, depth float32, nx, nz int) *Description {
	return bld.heightGrid("grid", width, depth, nx, nz, func(x, z float32) (float32, ms3.Vec) {
		return 0, ms3.Vec{Y: 1}
	})
}

// NewRipple creates a size by size grid of n by n cells displaced by a radial
// sine wave of the given amplitude and angular frequency.
func (bld *Builder) NewRipple(size float32, n int, amplitude, frequency float32) *Description {
	return bld.heightGrid("ripple", size, size, n, n, func(x, z float32) (float32, ms3.Vec) {
		rho := math32.Hypot(x, z)
		s, c := math32.Sincos(frequency * rho)
		if rho < DefaultEpsilon {
			return amplitude * s, ms3.Vec{Y: 1}
		}
		slope := amplitude * frequency * c / rho
		return amplitude * s, unitOrZero(ms3.Vec{X: -slope * x, Y: 1, Z: -slope * z})
	})
}

// NewBump creates a size by size grid of n by n cells with a gaussian bump of
// the given height and spread sigma at its center. Normals are computed from
// the resulting triangles.
func (bld *Builder) NewBump(size float32, n int, height, sigma float32) *Description {
	if sigma <= 0 {
		bld.shapeErrorf("zero or negative bump sigma")
		return NewDescription()
	}
	d := bld.heightGrid("bump", size, size, n, n, func(x, z float32) (float32, ms3.Vec) {
		return height * math32.Exp(-(x*x+z*z)/(2*sigma*sigma)), ms3.Vec{Y: 1}
	})
	if bld.Type.Has(AttribNormal) && d.VertexCount() > 0 {
		d.RecalculateNormals()
	}
	return d
}

// heightGrid builds the strip grid shared by the flat and displaced grid
// generators. height returns the Y displacement and normal at (x,z).
func (bld *Builder) heightGrid(name string, width, depth float32, nx, nz int, height func(x, z float32) (float32, ms3.Vec)) *Description {
	ok := true
	if width <= 0 || depth <= 0 {
		bld.shapeErrorf("zero or negative %s dimension", name)
		ok = false
	}
	if nx < 1 || nz < 1 {
		bld.shapeErrorf("%s needs at least one cell per axis, got %d,%d", name, nx, nz)
		ok = false
	}
	d := NewDescription()
	if !ok {
		return d
	}
	for r := 0; r <= nz; r++ {
		z := -depth/2 + depth*float32(r)/float32(nz)
		for c := 0; c <= nx; c++ {
			x := -width/2 + width*float32(c)/float32(nx)
			y, n := height(x, z)
			bld.AddVertex(d, Vertex{
				Pos:      ms3.Vec{X: x, Y: y, Z: z},
				Normal:   n,
				U:        float32(c) / float32(nx),
				V:        float32(r) / float32(nz),
				Binormal: ms3.Vec{X: 1},
				Weight:   y,
			})
		}
	}
	stride := nx + 1
	strip := make([]int, 0, nz*(2*stride+2))
	for r := 0; r < nz; r++ {
		if r > 0 {
			// Degenerate join keeps the winding parity of the next row.
			strip = append(strip, strip[len(strip)-1], r*stride)
		}
		for c := 0; c <= nx; c++ {
			strip = append(strip, r*stride+c, (r+1)*stride+c)
		}
	}
	d.TriStrips.Start(strip...)
	return d
}
