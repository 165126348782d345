package pulse

import "github.com/oliverbestmann/webgpu/wgpu"

// RenderTarget holds all the information of something that can be rendered to.
// This is normally either an offscreen Texture or the current Frame.
type RenderTarget struct {
	View *wgpu.TextureView

	// In case of multisample rendering, this might hold the
	// texture the multisampled fragment is resolved to.
	ResolveTarget *wgpu.TextureView

	// Texture format of View
	Format wgpu.TextureFormat

	// Size of the target to render to
	Width  uint32
	Height uint32
}

func (t RenderTarget) colorAttachment(loadOp wgpu.LoadOp, clear wgpu.Color) wgpu.RenderPassColorAttachment {
	return wgpu.RenderPassColorAttachment{
		View:          t.View,
		ResolveTarget: t.ResolveTarget,
		LoadOp:        loadOp,
		StoreOp:       wgpu.StoreOpStore,
		ClearValue:    clear,
	}
}
