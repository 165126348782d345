package imui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/imframe/glimpse"
)

var ErrNoWindow = errors.New("no window attached")

// Platform feeds window events into the IO of a Context and applies
// the feedback of a frame back to the window.
type Platform struct {
	window glimpse.Window
	input  glimpse.InputState

	lastFrame time.Time
	now       func() time.Time

	cursor    glimpse.Cursor
	cursorSet bool
}

func NewPlatform() *Platform {
	return &Platform{now: time.Now}
}

// AttachWindow connects the platform to a window and initializes the
// display size of the io.
func (p *Platform) AttachWindow(io *IO, win glimpse.Window) {
	p.window = win

	width, height := win.GetSize()
	io.DisplaySize = Vec2{X: float32(width), Y: float32(height)}
	io.FramebufferScale = win.ContentScale()
}

// HandleEvent records an input event for the next frame.
func (p *Platform) HandleEvent(io *IO, ev glimpse.Event) {
	p.input.Apply(ev)

	switch ev := ev.(type) {
	case glimpse.CharInput:
		io.AddInputChar(ev.Char)

	case glimpse.KeyInput:
		io.AddKeyEvent(ev.Key, ev.Action != glimpse.Release)
	}
}

// PrepareFrame updates the io from the window and the accumulated input.
// Must be called before every Context.NewFrame.
func (p *Platform) PrepareFrame(io *IO) error {
	if p.window == nil {
		return ErrNoWindow
	}

	scale := p.window.ContentScale()
	if scale <= 0 {
		return fmt.Errorf("invalid content scale %f", scale)
	}

	width, height := p.window.GetSize()
	io.DisplaySize = Vec2{X: float32(width), Y: float32(height)}
	io.FramebufferScale = scale

	now := p.now()
	if p.lastFrame.IsZero() {
		io.DeltaTime = 1.0 / 60.0
	} else {
		// imgui rejects a delta of zero
		io.DeltaTime = clamp(float32(now.Sub(p.lastFrame).Seconds()), 1e-4, 1)
	}

	p.lastFrame = now

	mouse := &p.input.Mouse

	io.MouseValid = mouse.InWindow
	io.MousePos = Vec2{X: mouse.CursorX, Y: mouse.CursorY}

	buttons := [mouseButtonCount]glimpse.MouseButton{
		MouseLeft:   glimpse.MouseButtonLeft,
		MouseRight:  glimpse.MouseButtonRight,
		MouseMiddle: glimpse.MouseButtonMiddle,
	}

	for idx, button := range buttons {
		// a click within one frame is still reported as down
		io.MouseDown[idx] = mouse.Pressed[button] || mouse.JustPressed[button]
	}

	io.MouseWheel += mouse.WheelY

	mods := p.input.Keys.Mods
	io.KeyCtrl = mods.Has(glimpse.ModControl)
	io.KeyShift = mods.Has(glimpse.ModShift)
	io.KeyAlt = mods.Has(glimpse.ModAlt)
	io.KeySuper = mods.Has(glimpse.ModSuper)

	p.input.NextTick()

	return nil
}

// PrepareRender updates the mouse cursor of the window.
func (p *Platform) PrepareRender(ui *Ui) {
	if p.window == nil {
		return
	}

	cursor := ui.MouseCursor()
	if p.cursorSet && cursor == p.cursor {
		return
	}

	slog.Debug("Update mouse cursor", slog.Int("cursor", int(cursor)))

	p.window.SetCursor(cursor)
	p.cursor = cursor
	p.cursorSet = true
}
