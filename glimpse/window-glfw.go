package glimpse

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
)

type glfwWindow struct {
	win *glfw.Window

	// events recorded by the glfw callbacks during PollEvents
	pending []Event

	cursor  Cursor
	cursors map[Cursor]*glfw.Cursor
}

func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{
		win:     window,
		cursors: map[Cursor]*glfw.Cursor{},
	}

	w.configureCallbacks()

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(max(0, width)), uint32(max(0, height))
}

func (g *glfwWindow) ContentScale() float32 {
	x, _ := g.win.GetContentScale()
	return x
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) SetCursor(cursor Cursor) {
	if cursor == g.cursor {
		return
	}

	g.cursor = cursor

	if cursor == CursorHidden {
		g.win.SetInputMode(glfw.CursorMode, glfw.CursorHidden)
		return
	}

	g.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)

	c, ok := g.cursors[cursor]
	if !ok {
		c = glfw.CreateStandardCursor(standardCursorOf(cursor))
		g.cursors[cursor] = c
	}

	g.win.SetCursor(c)
}

func (g *glfwWindow) Terminate() {
	for _, c := range g.cursors {
		c.Destroy()
	}

	g.win.Destroy()
	glfw.Terminate()
}

func (g *glfwWindow) Run(handle EventHandler) error {
	for {
		glfw.PollEvents()

		events := g.pending
		g.pending = nil

		for _, ev := range events {
			flow, err := handle(ev)
			if err != nil || flow == Exit {
				return err
			}
		}

		flow, err := handle(RedrawEventsCleared{})
		if err != nil || flow == Exit {
			return err
		}
	}
}

func (g *glfwWindow) push(ev Event) {
	g.pending = append(g.pending, ev)
}

// pixelRatio maps screen coordinates to framebuffer pixels
func (g *glfwWindow) pixelRatio() (float32, float32) {
	ww, wh := g.win.GetSize()
	fw, fh := g.win.GetFramebufferSize()
	if ww == 0 || wh == 0 {
		return 1, 1
	}

	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

func (g *glfwWindow) configureCallbacks() {
	g.win.SetFramebufferSizeCallback(func(_win *glfw.Window, width, height int) {
		g.push(Resized{Width: uint32(max(0, width)), Height: uint32(max(0, height))})
	})

	g.win.SetCloseCallback(func(_win *glfw.Window) {
		g.push(CloseRequested{})
	})

	g.win.SetFocusCallback(func(_win *glfw.Window, focused bool) {
		g.push(Focused{Focused: focused})
	})

	g.win.SetContentScaleCallback(func(_win *glfw.Window, x, y float32) {
		g.push(ScaleFactorChanged{Scale: x})
	})

	g.win.SetKeyCallback(func(_win *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		key, ok := keyOf(glfwKey)
		if !ok {
			return
		}

		g.push(KeyInput{Key: key, Action: actionOf(action), Mods: modifiersOf(mods)})
	})

	g.win.SetCharCallback(func(_win *glfw.Window, char rune) {
		g.push(CharInput{Char: char})
	})

	g.win.SetMouseButtonCallback(func(_win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		g.push(MouseInput{
			Button: MouseButton(btn),
			Action: actionOf(action),
			Mods:   modifiersOf(mods),
		})
	})

	g.win.SetCursorPosCallback(func(_win *glfw.Window, xpos, ypos float64) {
		rx, ry := g.pixelRatio()
		g.push(CursorMoved{X: float32(xpos) * rx, Y: float32(ypos) * ry})
	})

	g.win.SetCursorEnterCallback(func(_win *glfw.Window, entered bool) {
		if !entered {
			g.push(CursorLeft{})
		}
	})

	g.win.SetScrollCallback(func(_win *glfw.Window, xoff, yoff float64) {
		g.push(MouseWheel{DeltaX: float32(xoff), DeltaY: float32(yoff)})
	})
}

func actionOf(action glfw.Action) Action {
	switch action {
	case glfw.Press:
		return Press
	case glfw.Repeat:
		return Repeat
	default:
		return Release
	}
}

func modifiersOf(mods glfw.ModifierKey) Modifier {
	var result Modifier

	if mods&glfw.ModShift != 0 {
		result |= ModShift
	}
	if mods&glfw.ModControl != 0 {
		result |= ModControl
	}
	if mods&glfw.ModAlt != 0 {
		result |= ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		result |= ModSuper
	}

	return result
}

func standardCursorOf(cursor Cursor) glfw.StandardCursor {
	switch cursor {
	case CursorTextInput:
		return glfw.IBeamCursor
	case CursorHand:
		return glfw.HandCursor
	case CursorResizeAll:
		return glfw.CrosshairCursor
	case CursorResizeNS:
		return glfw.VResizeCursor
	case CursorResizeEW:
		return glfw.HResizeCursor
	default:
		return glfw.ArrowCursor
	}
}

var glfwToKey = map[glfw.Key]Key{
	glfw.KeySpace:        KeySpace,
	glfw.KeyEnter:        KeyEnter,
	glfw.KeyKPEnter:      KeyEnter,
	glfw.KeyEscape:       KeyEscape,
	glfw.KeyTab:          KeyTab,
	glfw.KeyBackspace:    KeyBackspace,
	glfw.KeyDelete:       KeyDelete,
	glfw.KeyInsert:       KeyInsert,
	glfw.KeyLeft:         KeyLeft,
	glfw.KeyRight:        KeyRight,
	glfw.KeyUp:           KeyUp,
	glfw.KeyDown:         KeyDown,
	glfw.KeyHome:         KeyHome,
	glfw.KeyEnd:          KeyEnd,
	glfw.KeyPageUp:       KeyPageUp,
	glfw.KeyPageDown:     KeyPageDown,
	glfw.KeyLeftShift:    KeyLeftShift,
	glfw.KeyRightShift:   KeyRightShift,
	glfw.KeyLeftControl:  KeyLeftControl,
	glfw.KeyRightControl: KeyRightControl,
	glfw.KeyLeftAlt:      KeyLeftAlt,
	glfw.KeyRightAlt:     KeyRightAlt,
	glfw.KeyLeftSuper:    KeyLeftSuper,
	glfw.KeyRightSuper:   KeyRightSuper,
}

func init() {
	// letters, digits and function keys are contiguous in glfw
	for idx := range 26 {
		glfwToKey[glfw.KeyA+glfw.Key(idx)] = KeyA + Key(idx)
	}

	for idx := range 10 {
		glfwToKey[glfw.Key0+glfw.Key(idx)] = Key0 + Key(idx)
	}

	for idx := range 12 {
		glfwToKey[glfw.KeyF1+glfw.Key(idx)] = KeyF1 + Key(idx)
	}
}

func keyOf(glfwKey glfw.Key) (key Key, ok bool) {
	key, ok = glfwToKey[glfwKey]
	if !ok {
		slog.Debug(
			"Unknown key code",
			slog.String("key", glfw.GetKeyName(glfwKey, 0)),
		)
	}

	return
}
