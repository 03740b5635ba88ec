package gshape

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

// recordGPU implements GPU logging every call.
type recordGPU struct {
	next    BufferID
	live    map[BufferID]bool
	calls   []string
	failIdx bool
}

func newRecordGPU() *recordGPU {
	return &recordGPU{live: make(map[BufferID]bool)}
}

func (g *recordGPU) alloc() BufferID {
	g.next++
	g.live[g.next] = true
	return g.next
}

func (g *recordGPU) NewVertexBuffer(data []float32) (BufferID, error) {
	return g.alloc(), nil
}

func (g *recordGPU) NewIndexBuffer(indices []uint32) (BufferID, error) {
	if g.failIdx {
		return 0, errors.New("out of memory")
	}
	return g.alloc(), nil
}

func (g *recordGPU) BindVertexBuffer(vb BufferID) {
	g.calls = append(g.calls, fmt.Sprintf("bind %d", vb))
}

func (g *recordGPU) EnableAttrib(loc uint32, size, stride, offset int) {
	g.calls = append(g.calls, fmt.Sprintf("enable %d %d %d %d", loc, size, stride, offset))
}

func (g *recordGPU) DisableAttrib(loc uint32) {
	g.calls = append(g.calls, fmt.Sprintf("disable %d", loc))
}

func (g *recordGPU) DrawIndexed(prim Primitive, ib BufferID, count int) {
	g.calls = append(g.calls, fmt.Sprintf("draw %s %d %d", prim, ib, count))
}

func (g *recordGPU) Unbind() {
	g.calls = append(g.calls, "unbind")
}

func (g *recordGPU) DeleteBuffer(id BufferID) error {
	if !g.live[id] {
		return fmt.Errorf("buffer %d not live", id)
	}
	delete(g.live, id)
	return nil
}

func TestMeshDraw(t *testing.T) {
	d := quad()
	d.Quads.Add(0, 1, 2, 3)
	d.Lines.Add(0, 2)
	gpu := newRecordGPU()
	m, err := d.Compile(gpu, VertexPos|VertexTexCoord|VertexNormal)
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 4 || m.Layout().Type != VertexPos|VertexTexCoord {
		t.Fatalf("unexpected mesh layout %s", m.Layout().Type)
	}
	if !slices.Equal(m.Primitives(), []Primitive{PrimLines, PrimTriangleFan}) {
		t.Errorf("unexpected primitives %v", m.Primitives())
	}
	if len(gpu.live) != 3 {
		t.Errorf("want 1 vertex and 2 index buffers, got %d buffers", len(gpu.live))
	}

	err = m.Draw()
	var berr *BindingError
	if !errors.As(err, &berr) || berr.Attrib != AttribPos {
		t.Fatalf("want binding error for position, got %v", err)
	}
	// Normal is not part of the layout and is ignored.
	m.SetLocations(map[Attrib]uint32{AttribPos: 0, AttribNormal: 7})
	if m.Unbound() != VertexTexCoord {
		t.Errorf("want texcoord unbound, got %s", m.Unbound())
	}
	m.SetLocation(AttribTexCoord, 2)
	if err = m.Draw(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"bind 1",
		"enable 0 3 5 0",
		"enable 2 2 5 3",
		"draw lines 2 2",
		"draw triangle-fan 3 4",
		"disable 0",
		"disable 2",
		"unbind",
	}
	if !slices.Equal(gpu.calls, want) {
		t.Errorf("draw calls:\nwant %q\ngot  %q", want, gpu.calls)
	}

	if err = m.Release(); err != nil {
		t.Fatal(err)
	}
	if len(gpu.live) != 0 {
		t.Errorf("%d buffers leaked", len(gpu.live))
	}
	if err = m.Release(); err != nil {
		t.Error("second release should be a no-op")
	}
	if err = m.Draw(); err == nil {
		t.Error("draw after release should fail")
	}
}

func TestMeshUploadFailure(t *testing.T) {
	var bld Builder
	gpu := newRecordGPU()
	gpu.failIdx = true
	_, err := bld.NewCube(1).Compile(gpu, VertexPos)
	if err == nil {
		t.Fatal("expected upload error")
	}
	if len(gpu.live) != 0 {
		t.Errorf("vertex buffer leaked after failed upload")
	}
	if _, err = NewMesh(nil, &Packed{}); err == nil {
		t.Error("expected error for nil GPU")
	}
}
