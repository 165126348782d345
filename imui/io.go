package imui

import (
	"math"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/oliverbestmann/imframe/glimpse"
)

type MouseButton int

// same order as the imgui mouse buttons
const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	mouseButtonCount
)

type KeyEvent struct {
	Key  glimpse.Key
	Down bool
}

// IO is the input of the overlay for the next frame, and the feedback of the
// overlay for the host application.
type IO struct {
	// size of the display in pixels
	DisplaySize Vec2

	FramebufferScale float32

	// seconds since the previous frame, always positive
	DeltaTime float32

	MousePos Vec2

	// false if the cursor is not within the window
	MouseValid bool

	MouseDown  [mouseButtonCount]bool
	MouseWheel float32

	KeyCtrl  bool
	KeyShift bool
	KeyAlt   bool
	KeySuper bool

	// Set by the previous frame. If true, the overlay uses the mouse or
	// keyboard and the application should not process them.
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
	WantTextInput       bool

	inputChars []rune
	keyEvents  []KeyEvent
}

// AddInputChar queues a typed character. Control characters are dropped.
func (io *IO) AddInputChar(ch rune) {
	if ch < 0x20 || ch == 0x7f {
		return
	}

	io.inputChars = append(io.inputChars, ch)
}

// AddKeyEvent queues a key transition. Repeats are reported as another
// down transition.
func (io *IO) AddKeyEvent(key glimpse.Key, down bool) {
	io.keyEvents = append(io.keyEvents, KeyEvent{Key: key, Down: down})
}

func (io *IO) clearInput() {
	io.inputChars = io.inputChars[:0]
	io.keyEvents = io.keyEvents[:0]
	io.MouseWheel = 0
}

// apply feeds the queued input into the io of the current imgui context.
// Positions are given in pixels, scaling only affects the font size.
func (io *IO) apply(target *imgui.IO) {
	target.SetDisplaySize(io.DisplaySize)
	target.SetDisplayFramebufferScale(Vec2{X: 1, Y: 1})
	target.SetDeltaTime(io.DeltaTime)

	if io.MouseValid {
		target.AddMousePosEvent(io.MousePos.X, io.MousePos.Y)
	} else {
		target.AddMousePosEvent(-math.MaxFloat32, -math.MaxFloat32)
	}

	for idx, down := range io.MouseDown {
		target.AddMouseButtonEvent(int32(idx), down)
	}

	if io.MouseWheel != 0 {
		target.AddMouseWheelEvent(0, io.MouseWheel)
	}

	target.AddKeyEvent(imgui.ModCtrl, io.KeyCtrl)
	target.AddKeyEvent(imgui.ModShift, io.KeyShift)
	target.AddKeyEvent(imgui.ModAlt, io.KeyAlt)
	target.AddKeyEvent(imgui.ModSuper, io.KeySuper)

	for _, ev := range io.keyEvents {
		if key, ok := imguiKey(ev.Key); ok {
			target.AddKeyEvent(key, ev.Down)
		}
	}

	for _, ch := range io.inputChars {
		target.AddInputCharacter(uint32(ch))
	}
}
