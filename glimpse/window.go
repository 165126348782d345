package glimpse

import "github.com/oliverbestmann/webgpu/wgpu"

// Cursor is the shape of the mouse cursor while it hovers the window.
type Cursor uint8

const (
	CursorArrow Cursor = iota
	CursorTextInput
	CursorHand
	CursorResizeAll
	CursorResizeNS
	CursorResizeEW
	CursorHidden
)

type Window interface {
	// GetSize returns the size of the framebuffer in pixels.
	GetSize() (uint32, uint32)

	// ContentScale returns the ratio between framebuffer pixels and
	// screen coordinates.
	ContentScale() float32

	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	SetCursor(cursor Cursor)

	// Run delivers events to the handler until the handler returns Exit
	// or an error. Every iteration ends with a RedrawEventsCleared event.
	Run(handle EventHandler) error

	Terminate()
}
