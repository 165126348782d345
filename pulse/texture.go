package pulse

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// Texture wraps a wgpu.Texture and an identity wgpu.TextureView.
type Texture struct {
	texture     *wgpu.Texture
	textureView *wgpu.TextureView

	format wgpu.TextureFormat
	width  uint32
	height uint32
}

type NewTextureOptions struct {
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
	Label  string
}

func NewTexture(ctx *Context, opts NewTextureOptions) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label:         opts.Label,
		Format:        opts.Format,
		SampleCount:   1,
		MipLevelCount: 1,

		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              opts.Width,
			Height:             opts.Height,
			DepthOrArrayLayers: 1,
		},

		Usage: wgpu.TextureUsageTextureBinding |
			wgpu.TextureUsageRenderAttachment |
			wgpu.TextureUsageCopyDst,
	})
}

// NewTextureFromDesc gives you full control and creates a texture directly from
// a texture descriptor
func NewTextureFromDesc(ctx *Context, desc *wgpu.TextureDescriptor) (*Texture, error) {
	texture, err := ctx.Device.CreateTexture(desc)
	if err != nil {
		return nil, err
	}

	textureView, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, err
	}

	return &Texture{
		texture:     texture,
		textureView: textureView,
		format:      desc.Format,
		width:       desc.Size.Width,
		height:      desc.Size.Height,
	}, nil
}

// NewTextureFromImage uploads the image into a new rgba texture.
func NewTextureFromImage(ctx *Context, label string, src image.Image) (*Texture, error) {
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	if iw == 0 || ih == 0 {
		return nil, fmt.Errorf("image %q is empty", label)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, iw, ih))
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	t, err := NewTexture(ctx, NewTextureOptions{
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  uint32(iw),
		Height: uint32(ih),
		Label:  label,
	})

	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	err = t.WritePixels(ctx, rgba.Pix)
	if err != nil {
		t.Release()
		return nil, fmt.Errorf("upload texture: %w", err)
	}

	return t, nil
}

// WritePixels uploads rgba pixel data covering the full texture.
func (t *Texture) WritePixels(ctx *Context, pixels []byte) error {
	return t.WritePixelsToRect(ctx, WritePixelsOptions{
		Width:  t.width,
		Height: t.height,
		Pixels: pixels,
	})
}

type WritePixelsOptions struct {
	X, Y          uint32
	Width, Height uint32

	// bytes per row in Pixels, defaults to Width * 4
	Stride uint32

	Pixels []byte
}

// WritePixelsToRect uploads rgba pixel data into a region of the texture.
func (t *Texture) WritePixelsToRect(ctx *Context, opts WritePixelsOptions) error {
	stride := opts.Stride
	if stride == 0 {
		stride = opts.Width * 4
	}

	layout := &wgpu.TexelCopyBufferLayout{
		Offset:       0,
		BytesPerRow:  stride,
		RowsPerImage: opts.Height,
	}

	size := &wgpu.Extent3D{
		Width:              opts.Width,
		Height:             opts.Height,
		DepthOrArrayLayers: 1,
	}

	dest := &wgpu.TexelCopyTextureInfo{
		Texture:  t.texture,
		MipLevel: 0,
		Origin:   wgpu.Origin3D{X: opts.X, Y: opts.Y},
		Aspect:   wgpu.TextureAspectAll,
	}

	// send data to the gpu
	err := ctx.WriteTexture(dest, opts.Pixels, layout, size)
	if err != nil {
		return fmt.Errorf("copy image data to texture: %w", err)
	}

	return nil
}

func (t *Texture) View() *wgpu.TextureView {
	return t.textureView
}

func (t *Texture) Format() wgpu.TextureFormat {
	return t.format
}

func (t *Texture) Width() uint32 {
	return t.width
}

func (t *Texture) Height() uint32 {
	return t.height
}

// Release releases the texture and its view. You must be sure to not use
// the texture after calling release.
func (t *Texture) Release() {
	t.textureView.Release()
	t.texture.Release()
}
