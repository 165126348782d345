package imui

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/AllenDang/cimgui-go/imgui"
)

// ClipboardBackend gives the overlay access to a clipboard. Get reports false
// if the clipboard holds no text.
type ClipboardBackend interface {
	Get() (string, bool)
	Set(text string)
}

// Context owns an imgui context and the input staged for its next frame.
// imgui keeps a global current context, Context makes itself current
// before every frame.
type Context struct {
	IO IO

	ctx *imgui.Context

	// font data referenced by the atlas
	pinner runtime.Pinner

	clipboard         ClipboardBackend
	internalClipboard string

	frame      *Ui
	frameCount uint64
}

// NewContext creates an overlay context using the given truetype or opentype font.
func NewContext(font []byte, opts FontOptions) (*Context, error) {
	if len(font) == 0 {
		return nil, ErrNoFont
	}

	c := &Context{ctx: imgui.CreateContext()}
	imgui.SetCurrentContext(c.ctx)

	c.IO.FramebufferScale = 1
	c.IO.DeltaTime = 1.0 / 60.0

	io := imgui.CurrentIO()
	io.SetIniFilename("")
	io.SetBackendFlags(io.BackendFlags() |
		imgui.BackendFlagsRendererHasTextures |
		imgui.BackendFlagsRendererHasVtxOffset |
		imgui.BackendFlagsHasMouseCursors)

	imgui.StyleColorsDark()

	if err := c.loadFont(font, opts.withDefaults()); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("load font: %w", err)
	}

	imgui.CurrentPlatformIO().SetClipboardHandler(clipboardHandler{ctx: c})

	return c, nil
}

// SetClipboard installs a clipboard backend. Passing nil switches back to
// the internal clipboard.
func (c *Context) SetClipboard(backend ClipboardBackend) {
	c.clipboard = backend
}

func (c *Context) ClipboardText() string {
	if c.clipboard != nil {
		if text, ok := c.clipboard.Get(); ok {
			return text
		}

		return ""
	}

	return c.internalClipboard
}

func (c *Context) SetClipboardText(text string) {
	if c.clipboard != nil {
		c.clipboard.Set(text)
		return
	}

	c.internalClipboard = text
}

// FrameCount returns the number of frames rendered so far.
func (c *Context) FrameCount() uint64 {
	return c.frameCount
}

// NewFrame starts a new ui frame. The previous frame must have been rendered.
func (c *Context) NewFrame() *Ui {
	if c.frame != nil {
		panic("imui: NewFrame called before Render of the previous frame")
	}

	imgui.SetCurrentContext(c.ctx)

	c.IO.apply(imgui.CurrentIO())
	imgui.CurrentStyle().SetFontScaleDpi(c.IO.FramebufferScale)

	imgui.NewFrame()

	c.frame = &Ui{ctx: c}
	return c.frame
}

// render finishes the current frame and reads back the feedback of imgui.
func (c *Context) render() *DrawData {
	imgui.SetCurrentContext(c.ctx)
	imgui.Render()

	io := imgui.CurrentIO()
	c.IO.WantCaptureMouse = io.WantCaptureMouse()
	c.IO.WantCaptureKeyboard = io.WantCaptureKeyboard()
	c.IO.WantTextInput = io.WantTextInput()
	c.IO.clearInput()

	c.frame = nil
	c.frameCount++

	return &DrawData{
		data:  imgui.CurrentDrawData(),
		atlas: io.Fonts().TexData(),
	}
}

// Destroy frees the imgui context. The context must not be used afterwards.
func (c *Context) Destroy() {
	if c.ctx == nil {
		return
	}

	slog.Debug("Destroy overlay context", slog.Uint64("frames", c.frameCount))

	imgui.DestroyContextV(c.ctx)
	c.ctx = nil

	c.pinner.Unpin()
}

// clipboardHandler routes the clipboard of imgui to the context.
type clipboardHandler struct {
	ctx *Context
}

func (h clipboardHandler) GetClipboard() string {
	return h.ctx.ClipboardText()
}

func (h clipboardHandler) SetClipboard(text string) {
	h.ctx.SetClipboardText(text)
}
