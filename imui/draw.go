package imui

import (
	"unsafe"

	"github.com/AllenDang/cimgui-go/imgui"
)

// DrawData is the geometry of a rendered frame. It points into memory owned
// by imgui and is only valid until the next frame of its context starts.
type DrawData struct {
	data  *imgui.DrawData
	atlas *imgui.TextureData
}

// Empty reports whether there is nothing to draw.
func (d *DrawData) Empty() bool {
	return d == nil || d.data == nil || !d.data.Valid() || d.data.TotalVtxCount() == 0
}

func (d *DrawData) DisplayPos() Vec2 {
	return d.data.DisplayPos()
}

func (d *DrawData) DisplaySize() Vec2 {
	return d.data.DisplaySize()
}

// drawCall draws ElemCount indices starting at FirstIndex of the merged
// index buffer.
type drawCall struct {
	TexID      imgui.TextureID
	ClipRect   imgui.Vec4
	FirstIndex uint32
	ElemCount  uint32
	BaseVertex int32
}

// geometry holds the draw lists of a frame merged into one vertex and one
// index buffer.
type geometry struct {
	Vertices []byte
	Indices  []byte
	Calls    []drawCall

	// byte size of a single index
	IndexSize int
}

// collect merges the draw lists of data. Textures referenced by the draw
// commands must have been assigned an id before.
func (g *geometry) collect(data *DrawData) {
	g.Vertices = g.Vertices[:0]
	g.Indices = g.Indices[:0]
	g.Calls = g.Calls[:0]

	vertexSize, _, _, _ := imgui.VertexBufferLayout()
	g.IndexSize = imgui.IndexBufferLayout()

	var vertexBase, indexBase uint32

	for _, list := range data.data.CommandLists() {
		vertices, vertexLen := list.GetVertexBuffer()
		indices, indexLen := list.GetIndexBuffer()

		g.Vertices = append(g.Vertices, unsafe.Slice((*byte)(vertices), vertexLen)...)
		g.Indices = append(g.Indices, unsafe.Slice((*byte)(indices), indexLen)...)

		for _, cmd := range list.Commands() {
			if cmd.HasUserCallback() || cmd.ElemCount() == 0 {
				continue
			}

			g.Calls = append(g.Calls, drawCall{
				TexID:      cmd.TexID(),
				ClipRect:   cmd.ClipRect(),
				FirstIndex: indexBase + cmd.IdxOffset(),
				ElemCount:  cmd.ElemCount(),
				BaseVertex: int32(vertexBase + cmd.VtxOffset()),
			})
		}

		vertexBase += uint32(vertexLen / vertexSize)
		indexBase += uint32(indexLen / g.IndexSize)
	}

	// buffer writes must be a multiple of four bytes
	g.Vertices = padToFour(g.Vertices)
	g.Indices = padToFour(g.Indices)
}

func padToFour(buf []byte) []byte {
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	return buf
}

// unsafeBytes views memory owned by imgui as a byte slice.
func unsafeBytes(ptr uintptr, size int) []byte {
	if ptr == 0 || size <= 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size)
}
