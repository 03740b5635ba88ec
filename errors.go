package gshape

import (
	"fmt"
	"strconv"
)

// StructuralError reports a malformed index buffer: an index outside the
// vertex range, a wrong arity group or a run shorter than its topology minimum.
type StructuralError struct {
	Topology Topology
	// Run is the run number for strip, loop and fan topologies. -1 for flat topologies.
	Run int
	// Pos is the position within the run or flat buffer where the problem was found.
	Pos int
	// Index is the offending vertex index. Only meaningful for range errors.
	Index  int
	Reason string
}

func (e *StructuralError) Error() string {
	loc := "position " + strconv.Itoa(e.Pos)
	if e.Run >= 0 {
		loc = "run " + strconv.Itoa(e.Run) + " " + loc
	}
	return fmt.Sprintf("gshape: %s %s: %s", e.Topology, loc, e.Reason)
}

// ConsistencyError reports mismatching attribute counts or missing position
// or index data.
type ConsistencyError struct {
	// Attrib is the offending attribute. AttribPos for missing position or index data.
	Attrib Attrib
	Want   int
	Got    int
	Reason string
}

func (e *ConsistencyError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("gshape: %s %s: want %d elements, got %d", e.Attrib, e.Reason, e.Want, e.Got)
	}
	return fmt.Sprintf("gshape: %s: %s", e.Attrib, e.Reason)
}

// UsageError reports misuse of an index buffer's authoring API, such as
// extending a strip before starting it.
type UsageError struct {
	Topology Topology
	Op       string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("gshape: %s %s called before Start", e.Topology, e.Op)
}

// BindingError reports a draw attempted before the location of an attribute
// present in the mesh layout was set.
type BindingError struct {
	Attrib Attrib
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("gshape: attribute %s has no location bound", e.Attrib)
}
