package glimpse

// Event is a single window or input event delivered by a Window.
type Event interface {
	event()
}

// ControlFlow tells the window whether to keep delivering events.
type ControlFlow uint8

const (
	Continue ControlFlow = iota
	Exit
)

// EventHandler receives every event of a window. Returning Exit or a non nil
// error stops the event loop.
type EventHandler func(ev Event) (ControlFlow, error)

type Action uint8

const (
	Press Action = iota
	Release
	Repeat
)

type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// Resized is emitted when the framebuffer of the window changed its size.
// Width and Height are in pixels.
type Resized struct {
	Width  uint32
	Height uint32
}

// CloseRequested is emitted when the user asks to close the window.
type CloseRequested struct{}

type Focused struct {
	Focused bool
}

type KeyInput struct {
	Key    Key
	Action Action
	Mods   Modifier
}

// CharInput carries a single unicode character typed by the user.
type CharInput struct {
	Char rune
}

type MouseInput struct {
	Button MouseButton
	Action Action
	Mods   Modifier
}

// CursorMoved reports the cursor position in framebuffer pixels.
type CursorMoved struct {
	X, Y float32
}

type CursorLeft struct{}

type MouseWheel struct {
	DeltaX, DeltaY float32
}

type ScaleFactorChanged struct {
	Scale float32
}

// RedrawEventsCleared is emitted once per loop iteration, after all
// pending events have been delivered.
type RedrawEventsCleared struct{}

func (Resized) event()             {}
func (CloseRequested) event()      {}
func (Focused) event()             {}
func (KeyInput) event()            {}
func (CharInput) event()           {}
func (MouseInput) event()          {}
func (CursorMoved) event()         {}
func (CursorLeft) event()          {}
func (MouseWheel) event()          {}
func (ScaleFactorChanged) event()  {}
func (RedrawEventsCleared) event() {}
