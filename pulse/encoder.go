package pulse

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// FrameEncoder records all render passes of a frame into one command
// encoder. The recorded work is submitted as a single batch.
type FrameEncoder struct {
	ctx     *Context
	encoder *wgpu.CommandEncoder
}

func NewFrameEncoder(ctx *Context) (*FrameEncoder, error) {
	encoder, err := ctx.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: "Frame",
	})

	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	return &FrameEncoder{ctx: ctx, encoder: encoder}, nil
}

// Encoder exposes the underlying command encoder, e.g. to let the
// application record its own passes.
func (f *FrameEncoder) Encoder() *wgpu.CommandEncoder {
	return f.encoder
}

// ClearPass records a pass that only clears the target to the given color.
func (f *FrameEncoder) ClearPass(target RenderTarget, color Color) error {
	pass := f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Clear",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			target.colorAttachment(wgpu.LoadOpClear, color.ToWGPU()),
		},
	})

	defer pass.Release()

	if err := pass.End(); err != nil {
		return fmt.Errorf("end clear pass: %w", err)
	}

	return nil
}

// LoadPass records a pass that keeps the previous content of the target.
// draw is called with the open pass.
func (f *FrameEncoder) LoadPass(label string, target RenderTarget, draw func(pass *wgpu.RenderPassEncoder) error) error {
	pass := f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			target.colorAttachment(wgpu.LoadOpLoad, wgpu.Color{}),
		},
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	err := draw(pass)

	// a pass must always be ended, even if drawing failed
	if errEnd := pass.End(); errEnd != nil {
		err = errors.Join(err, fmt.Errorf("end %s pass: %w", label, errEnd))
	}

	return err
}

// Submit finishes the encoder and submits the recorded work to the queue.
func (f *FrameEncoder) Submit() error {
	buf, err := f.encoder.Finish(&wgpu.CommandBufferDescriptor{Label: "Frame"})
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}

	defer buf.Release()

	f.ctx.Submit(buf)

	return nil
}

func (f *FrameEncoder) Release() {
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
}
