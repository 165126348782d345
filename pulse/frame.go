package pulse

import (
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// Frame is the presentable image of the current iteration of the event loop.
// It is only valid until it was presented or released, and must not be
// kept across frames.
type Frame struct {
	// owned by the surface, never released by the frame
	Texture *wgpu.Texture
	View    *wgpu.TextureView

	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
}

type createViewFunc func(desc *wgpu.TextureViewDescriptor) (*wgpu.TextureView, error)

// newFrame wraps an acquired surface texture. Failing to create the view is
// reported like a failed acquisition.
func newFrame(texture *wgpu.Texture, format wgpu.TextureFormat, width, height uint32, createView createViewFunc) (*Frame, error) {
	view, err := createView(nil)
	if err != nil {
		return nil, fmt.Errorf("create frame view: %w", err)
	}

	return &Frame{
		Texture: texture,
		View:    view,
		Format:  format,
		Width:   width,
		Height:  height,
	}, nil
}

// Target returns the frame as a RenderTarget.
func (f *Frame) Target() RenderTarget {
	return RenderTarget{
		View:   f.View,
		Format: f.Format,
		Width:  f.Width,
		Height: f.Height,
	}
}

// Release drops the view of a frame that is not going to be presented.
// The texture stays with the surface.
func (f *Frame) Release() {
	if f.View != nil {
		f.View.Release()
		f.View = nil
	}
}
