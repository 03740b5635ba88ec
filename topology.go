package gshape

import (
	"strconv"
)

// Topology identifies how an index buffer's indices are grouped into primitives.
type Topology uint8

const (
	TopoPoints     Topology = iota // Each index is a point.
	TopoLines                      // Index pairs are line segments.
	TopoLineStrips                 // Runs of connected line segments.
	TopoLineLoops                  // Runs of connected, closed line segments.
	TopoTris                       // Index triples are triangles.
	TopoQuads                      // Index quadruples are quads, drawn as 4 point fans.
	TopoTriStrips                  // Runs of triangle strips.
	TopoTriFans                    // Runs of triangle fans.
	numTopologies
)

var topoNames = [numTopologies]string{
	TopoPoints:     "points",
	TopoLines:      "lines",
	TopoLineStrips: "line-strips",
	TopoLineLoops:  "line-loops",
	TopoTris:       "tris",
	TopoQuads:      "quads",
	TopoTriStrips:  "tri-strips",
	TopoTriFans:    "tri-fans",
}

func (t Topology) String() string {
	if t >= numTopologies {
		return "Topology(" + strconv.Itoa(int(t)) + ")"
	}
	return topoNames[t]
}

// Topologies returns all topologies in compile order.
func Topologies() []Topology {
	all := make([]Topology, numTopologies)
	for i := range all {
		all[i] = Topology(i)
	}
	return all
}

// Primitive is the draw-time interpretation of a packed index list.
type Primitive uint8

const (
	PrimPoints Primitive = iota
	PrimLines
	PrimLineStrip
	PrimLineLoop
	PrimTriangles
	PrimTriangleStrip
	PrimTriangleFan
)

var primNames = [...]string{
	PrimPoints:        "points",
	PrimLines:         "lines",
	PrimLineStrip:     "line-strip",
	PrimLineLoop:      "line-loop",
	PrimTriangles:     "triangles",
	PrimTriangleStrip: "triangle-strip",
	PrimTriangleFan:   "triangle-fan",
}

func (p Primitive) String() string {
	if int(p) >= len(primNames) {
		return "Primitive(" + strconv.Itoa(int(p)) + ")"
	}
	return primNames[p]
}

// IndexBuffer is implemented by [FlatIndices] and [RunIndices].
type IndexBuffer interface {
	// Topology returns the buffer's topology kind.
	Topology() Topology
	// Empty reports whether the buffer holds no indices.
	Empty() bool
	// Len returns the total number of indices stored.
	Len() int
	// Validate checks the buffer against the topology invariants
	// and checks all indices lie in [0, vertexCount).
	Validate(vertexCount int) error

	// compileRuns calls emit once per non-empty run or group.
	compileRuns(emit func(Primitive, []uint32))
	// triangles calls fn for every non-degenerate triangle the buffer describes.
	triangles(fn func(a, b, c int))
	// edges calls fn for every edge the buffer draws.
	edges(fn func(a, b int))
	forEach(fn func(idx int))
}

var (
	_ IndexBuffer = (*FlatIndices)(nil)
	_ IndexBuffer = (*RunIndices)(nil)
)

// FlatIndices stores indices for the points, lines, tris and quads
// topologies, consumed in groups of 1, 2, 3 and 4 respectively.
type FlatIndices struct {
	topo Topology
	idx  []int
}

func makeFlatIndices(t Topology) FlatIndices {
	switch t {
	case TopoPoints, TopoLines, TopoTris, TopoQuads:
	default:
		panic("not a flat topology: " + t.String())
	}
	return FlatIndices{topo: t}
}

// Add appends indices. Groups are not required to be completed within a
// single call, arity is checked by Validate.
func (fi *FlatIndices) Add(idx ...int) {
	fi.idx = append(fi.idx, idx...)
}

// Indices returns the stored indices. The result must not be modified.
func (fi *FlatIndices) Indices() []int { return fi.idx }

func (fi *FlatIndices) Topology() Topology { return fi.topo }
func (fi *FlatIndices) Empty() bool        { return len(fi.idx) == 0 }
func (fi *FlatIndices) Len() int           { return len(fi.idx) }

// Reset discards all indices.
func (fi *FlatIndices) Reset() { fi.idx = fi.idx[:0] }

func (fi *FlatIndices) arity() int {
	switch fi.topo {
	case TopoLines:
		return 2
	case TopoTris:
		return 3
	case TopoQuads:
		return 4
	}
	return 1
}

func (fi *FlatIndices) Validate(vertexCount int) error {
	n := fi.arity()
	if rem := len(fi.idx) % n; rem != 0 {
		return &StructuralError{
			Topology: fi.topo,
			Run:      -1,
			Pos:      len(fi.idx) - rem,
			Index:    -1,
			Reason:   "length " + strconv.Itoa(len(fi.idx)) + " not a multiple of " + strconv.Itoa(n),
		}
	}
	return checkRange(fi.topo, -1, fi.idx, vertexCount)
}

func (fi *FlatIndices) compileRuns(emit func(Primitive, []uint32)) {
	if len(fi.idx) == 0 {
		return
	}
	switch fi.topo {
	case TopoQuads:
		for i := 0; i+4 <= len(fi.idx); i += 4 {
			emit(PrimTriangleFan, toUint32(fi.idx[i:i+4]))
		}
	case TopoPoints:
		emit(PrimPoints, toUint32(fi.idx))
	case TopoLines:
		emit(PrimLines, toUint32(fi.idx))
	case TopoTris:
		emit(PrimTriangles, toUint32(fi.idx))
	}
}

func (fi *FlatIndices) triangles(fn func(a, b, c int)) {
	idx := fi.idx
	switch fi.topo {
	case TopoTris:
		for i := 0; i+3 <= len(idx); i += 3 {
			emitTriangle(fn, idx[i], idx[i+1], idx[i+2])
		}
	case TopoQuads:
		for i := 0; i+4 <= len(idx); i += 4 {
			emitTriangle(fn, idx[i], idx[i+1], idx[i+2])
			emitTriangle(fn, idx[i], idx[i+2], idx[i+3])
		}
	}
}

func (fi *FlatIndices) edges(fn func(a, b int)) {
	idx := fi.idx
	switch fi.topo {
	case TopoLines:
		for i := 0; i+2 <= len(idx); i += 2 {
			fn(idx[i], idx[i+1])
		}
	case TopoTris:
		fi.triangles(func(a, b, c int) {
			fn(a, b)
			fn(b, c)
			fn(c, a)
		})
	case TopoQuads:
		// Quad perimeter only, the fan diagonal is not drawn as an edge.
		for i := 0; i+4 <= len(idx); i += 4 {
			fn(idx[i], idx[i+1])
			fn(idx[i+1], idx[i+2])
			fn(idx[i+2], idx[i+3])
			fn(idx[i+3], idx[i])
		}
	}
}

func (fi *FlatIndices) forEach(fn func(idx int)) {
	for _, i := range fi.idx {
		fn(i)
	}
}

// runState tracks whether a [RunIndices] has a run open for extension.
type runState uint8

const (
	noActiveRun runState = iota
	activeRun
)

// RunIndices stores independently started runs for the line-strip,
// line-loop, tri-strip and tri-fan topologies.
type RunIndices struct {
	topo  Topology
	runs  [][]int
	state runState
	// err retains the first usage error so validation fails even if the
	// caller ignored the error returned by Add.
	err error
}

func makeRunIndices(t Topology) RunIndices {
	switch t {
	case TopoLineStrips, TopoLineLoops, TopoTriStrips, TopoTriFans:
	default:
		panic("not a run topology: " + t.String())
	}
	return RunIndices{topo: t}
}

// Start begins a new run and appends idx to it. If the active run is still
// empty no new run is created, so redundant calls to Start are harmless.
func (ri *RunIndices) Start(idx ...int) {
	if ri.state == noActiveRun || len(ri.runs[len(ri.runs)-1]) != 0 {
		ri.runs = append(ri.runs, nil)
		ri.state = activeRun
	}
	last := len(ri.runs) - 1
	ri.runs[last] = append(ri.runs[last], idx...)
}

// Add extends the active run. It returns a [*UsageError] if Start has not been called.
func (ri *RunIndices) Add(idx ...int) error {
	if ri.state == noActiveRun {
		err := &UsageError{Topology: ri.topo, Op: "Add"}
		if ri.err == nil {
			ri.err = err
		}
		return err
	}
	last := len(ri.runs) - 1
	ri.runs[last] = append(ri.runs[last], idx...)
	return nil
}

// Runs returns the stored runs. The result must not be modified.
func (ri *RunIndices) Runs() [][]int { return ri.runs }

// NumRuns returns the number of non-empty runs.
func (ri *RunIndices) NumRuns() (n int) {
	for _, run := range ri.runs {
		if len(run) > 0 {
			n++
		}
	}
	return n
}

// Reset discards all runs and any retained usage error.
func (ri *RunIndices) Reset() {
	*ri = RunIndices{topo: ri.topo, runs: ri.runs[:0]}
}

func (ri *RunIndices) Topology() Topology { return ri.topo }
func (ri *RunIndices) Empty() bool        { return ri.Len() == 0 }

func (ri *RunIndices) Len() (n int) {
	for _, run := range ri.runs {
		n += len(run)
	}
	return n
}

func (ri *RunIndices) minRun() int {
	if ri.topo == TopoLineStrips {
		return 2
	}
	return 3
}

func (ri *RunIndices) prim() Primitive {
	switch ri.topo {
	case TopoLineStrips:
		return PrimLineStrip
	case TopoLineLoops:
		return PrimLineLoop
	case TopoTriStrips:
		return PrimTriangleStrip
	}
	return PrimTriangleFan
}

func (ri *RunIndices) Validate(vertexCount int) error {
	if ri.err != nil {
		return ri.err
	}
	minRun := ri.minRun()
	for i, run := range ri.runs {
		if len(run) == 0 {
			continue
		} else if len(run) < minRun {
			return &StructuralError{
				Topology: ri.topo,
				Run:      i,
				Pos:      len(run) - 1,
				Index:    -1,
				Reason:   "run length " + strconv.Itoa(len(run)) + " below minimum " + strconv.Itoa(minRun),
			}
		}
		err := checkRange(ri.topo, i, run, vertexCount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ri *RunIndices) compileRuns(emit func(Primitive, []uint32)) {
	prim := ri.prim()
	for _, run := range ri.runs {
		if len(run) > 0 {
			emit(prim, toUint32(run))
		}
	}
}

func (ri *RunIndices) triangles(fn func(a, b, c int)) {
	for _, run := range ri.runs {
		switch ri.topo {
		case TopoTriStrips:
			for i := 2; i < len(run); i++ {
				if i%2 == 0 {
					emitTriangle(fn, run[i-2], run[i-1], run[i])
				} else {
					// Odd triangles are flipped to keep a consistent winding.
					emitTriangle(fn, run[i-1], run[i-2], run[i])
				}
			}
		case TopoTriFans:
			for i := 2; i < len(run); i++ {
				emitTriangle(fn, run[0], run[i-1], run[i])
			}
		}
	}
}

func (ri *RunIndices) edges(fn func(a, b int)) {
	switch ri.topo {
	case TopoTriStrips, TopoTriFans:
		ri.triangles(func(a, b, c int) {
			fn(a, b)
			fn(b, c)
			fn(c, a)
		})
		return
	}
	for _, run := range ri.runs {
		if len(run) < 2 {
			continue
		}
		for i := 1; i < len(run); i++ {
			fn(run[i-1], run[i])
		}
		if ri.topo == TopoLineLoops && len(run) > 2 {
			fn(run[len(run)-1], run[0])
		}
	}
}

func (ri *RunIndices) forEach(fn func(idx int)) {
	for _, run := range ri.runs {
		for _, i := range run {
			fn(i)
		}
	}
}

func checkRange(t Topology, run int, idx []int, vertexCount int) error {
	for i, v := range idx {
		if v < 0 || v >= vertexCount {
			return &StructuralError{
				Topology: t,
				Run:      run,
				Pos:      i,
				Index:    v,
				Reason:   "index " + strconv.Itoa(v) + " out of range [0, " + strconv.Itoa(vertexCount) + ")",
			}
		}
	}
	return nil
}

func emitTriangle(fn func(a, b, c int), a, b, c int) {
	if a == b || b == c || a == c {
		return // Degenerate, typically joins between strips.
	}
	fn(a, b, c)
}

func toUint32(idx []int) []uint32 {
	out := make([]uint32, len(idx))
	for i, v := range idx {
		out[i] = uint32(v)
	}
	return out
}
