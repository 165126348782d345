package imui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/oliverbestmann/imframe/glimpse"
)

// Ui is a single overlay frame. It is created by Context.NewFrame and
// consumed by exactly one call to Render. Between those calls the imgui
// package can be used directly, the methods of Ui are shortcuts for the
// common widgets.
type Ui struct {
	ctx      *Context
	rendered bool
}

type WindowOptions struct {
	// initial position of the window
	Pos Vec2

	// initial size of the window, zero fits the window to its content
	Size Vec2
}

func (u *Ui) checkLive() {
	if u.rendered {
		panic("imui: ui frame used after Render")
	}
}

func (u *Ui) Context() *Context {
	return u.ctx
}

func (u *Ui) IO() *IO {
	return &u.ctx.IO
}

// Begin starts a new window, it must be closed by End even if Begin
// returned false. The options are only applied when the window is first used.
func (u *Ui) Begin(title string, opts *WindowOptions) bool {
	u.checkLive()

	flags := imgui.WindowFlagsNone

	if opts != nil {
		imgui.SetNextWindowPosV(opts.Pos, imgui.CondFirstUseEver, Vec2{})

		if opts.Size.X > 0 && opts.Size.Y > 0 {
			imgui.SetNextWindowSizeV(opts.Size, imgui.CondFirstUseEver)
		} else {
			flags |= imgui.WindowFlagsAlwaysAutoResize
		}
	}

	return imgui.BeginV(title, nil, flags)
}

func (u *Ui) End() {
	u.checkLive()
	imgui.End()
}

// Text shows the text as is.
func (u *Ui) Text(text string) {
	u.checkLive()
	imgui.TextUnformatted(text)
}

func (u *Ui) Textf(format string, args ...any) {
	u.Text(fmt.Sprintf(format, args...))
}

func (u *Ui) Button(label string) bool {
	u.checkLive()
	return imgui.Button(label)
}

func (u *Ui) Checkbox(label string, value *bool) bool {
	u.checkLive()
	return imgui.Checkbox(label, value)
}

func (u *Ui) SliderFloat(label string, value *float32, lo, hi float32) bool {
	u.checkLive()
	return imgui.SliderFloat(label, value, lo, hi)
}

// InputText edits text in place. Copy and paste go through the clipboard
// of the context.
func (u *Ui) InputText(label, hint string, text *string) bool {
	u.checkLive()
	return imgui.InputTextWithHint(label, hint, text, imgui.InputTextFlagsNone, nil)
}

func (u *Ui) Separator() {
	u.checkLive()
	imgui.Separator()
}

func (u *Ui) SameLine() {
	u.checkLive()
	imgui.SameLine()
}

// MouseCursor returns the cursor requested by the widgets of this frame.
func (u *Ui) MouseCursor() glimpse.Cursor {
	switch imgui.CurrentMouseCursor() {
	case imgui.MouseCursorNone:
		return glimpse.CursorHidden
	case imgui.MouseCursorTextInput:
		return glimpse.CursorTextInput
	case imgui.MouseCursorHand:
		return glimpse.CursorHand
	case imgui.MouseCursorResizeNS:
		return glimpse.CursorResizeNS
	case imgui.MouseCursorResizeEW:
		return glimpse.CursorResizeEW
	case imgui.MouseCursorResizeAll, imgui.MouseCursorResizeNESW, imgui.MouseCursorResizeNWSE:
		return glimpse.CursorResizeAll
	default:
		return glimpse.CursorArrow
	}
}

// Render finishes the frame and returns its geometry. The Ui must not be
// used afterwards.
func (u *Ui) Render() *DrawData {
	u.checkLive()
	u.rendered = true

	return u.ctx.render()
}
