package glimpse

import "log/slog"

type KeysState struct {
	// the keys that are currently marked as "pressed"
	Pressed map[Key]bool

	// keys that where just pressed after the last call to NextTick()
	JustPressed map[Key]bool

	// keys that were just released after the last call to NextTick()
	JustReleased map[Key]bool

	Mods Modifier
}

func (k *KeysState) press(key Key) {
	slog.Debug("Key just pressed", slog.String("key", key.String()))

	setTrue(&k.Pressed, key)
	setTrue(&k.JustPressed, key)
}

func (k *KeysState) release(key Key) {
	setFalse(&k.Pressed, key)
	setTrue(&k.JustReleased, key)
}

func (k *KeysState) nextTick() {
	clear(k.JustPressed)
	clear(k.JustReleased)
}

type MouseState struct {
	CursorX, CursorY float32

	// false after the cursor left the window
	InWindow bool

	// recorded movement since last tick
	DeltaX, DeltaY float32

	// accumulated wheel movement since last tick
	WheelX, WheelY float32

	Pressed map[MouseButton]bool

	// mouse buttons that were just clicked after the last call to NextTick()
	JustPressed map[MouseButton]bool

	// mouse buttons that were just released after the last call to NextTick()
	JustReleased map[MouseButton]bool
}

func (m *MouseState) press(button MouseButton) {
	setTrue(&m.Pressed, button)
	setTrue(&m.JustPressed, button)
}

func (m *MouseState) release(button MouseButton) {
	setFalse(&m.Pressed, button)
	setTrue(&m.JustReleased, button)
}

func (m *MouseState) position(x, y float32) {
	if m.InWindow {
		m.DeltaX += x - m.CursorX
		m.DeltaY += y - m.CursorY
	}

	m.CursorX = x
	m.CursorY = y
	m.InWindow = true
}

func (m *MouseState) releaseAll() {
	for button, pressed := range m.Pressed {
		if pressed {
			m.release(button)
		}
	}
}

func (m *MouseState) nextTick() {
	clear(m.JustPressed)
	clear(m.JustReleased)

	m.DeltaX, m.DeltaY = 0, 0
	m.WheelX, m.WheelY = 0, 0
}

// InputState accumulates the state of keyboard and mouse from the
// events of a window.
type InputState struct {
	Keys  KeysState
	Mouse MouseState
}

// Apply updates the state with the given event. Events that do not
// carry input are ignored.
func (s *InputState) Apply(ev Event) {
	switch ev := ev.(type) {
	case KeyInput:
		s.Keys.Mods = ev.Mods

		switch ev.Action {
		case Press:
			s.Keys.press(ev.Key)
		case Release:
			s.Keys.release(ev.Key)
		}

	case MouseInput:
		switch ev.Action {
		case Press:
			s.Mouse.press(ev.Button)
		case Release:
			s.Mouse.release(ev.Button)
		}

	case CursorMoved:
		s.Mouse.position(ev.X, ev.Y)

	case CursorLeft:
		s.Mouse.InWindow = false

	case MouseWheel:
		s.Mouse.WheelX += ev.DeltaX
		s.Mouse.WheelY += ev.DeltaY

	case Focused:
		if !ev.Focused {
			s.Mouse.releaseAll()
		}
	}
}

// NextTick forgets all "just" transitions and deltas.
func (s *InputState) NextTick() {
	s.Keys.nextTick()
	s.Mouse.nextTick()
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}

func setFalse[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = false
}
