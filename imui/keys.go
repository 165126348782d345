package imui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/oliverbestmann/imframe/glimpse"
)

var keyMap = map[glimpse.Key]imgui.Key{
	glimpse.KeyA:            imgui.KeyA,
	glimpse.KeyB:            imgui.KeyB,
	glimpse.KeyC:            imgui.KeyC,
	glimpse.KeyD:            imgui.KeyD,
	glimpse.KeyE:            imgui.KeyE,
	glimpse.KeyF:            imgui.KeyF,
	glimpse.KeyG:            imgui.KeyG,
	glimpse.KeyH:            imgui.KeyH,
	glimpse.KeyI:            imgui.KeyI,
	glimpse.KeyJ:            imgui.KeyJ,
	glimpse.KeyK:            imgui.KeyK,
	glimpse.KeyL:            imgui.KeyL,
	glimpse.KeyM:            imgui.KeyM,
	glimpse.KeyN:            imgui.KeyN,
	glimpse.KeyO:            imgui.KeyO,
	glimpse.KeyP:            imgui.KeyP,
	glimpse.KeyQ:            imgui.KeyQ,
	glimpse.KeyR:            imgui.KeyR,
	glimpse.KeyS:            imgui.KeyS,
	glimpse.KeyT:            imgui.KeyT,
	glimpse.KeyU:            imgui.KeyU,
	glimpse.KeyV:            imgui.KeyV,
	glimpse.KeyW:            imgui.KeyW,
	glimpse.KeyX:            imgui.KeyX,
	glimpse.KeyY:            imgui.KeyY,
	glimpse.KeyZ:            imgui.KeyZ,
	glimpse.Key0:            imgui.Key0,
	glimpse.Key1:            imgui.Key1,
	glimpse.Key2:            imgui.Key2,
	glimpse.Key3:            imgui.Key3,
	glimpse.Key4:            imgui.Key4,
	glimpse.Key5:            imgui.Key5,
	glimpse.Key6:            imgui.Key6,
	glimpse.Key7:            imgui.Key7,
	glimpse.Key8:            imgui.Key8,
	glimpse.Key9:            imgui.Key9,
	glimpse.KeySpace:        imgui.KeySpace,
	glimpse.KeyEnter:        imgui.KeyEnter,
	glimpse.KeyEscape:       imgui.KeyEscape,
	glimpse.KeyTab:          imgui.KeyTab,
	glimpse.KeyBackspace:    imgui.KeyBackspace,
	glimpse.KeyDelete:       imgui.KeyDelete,
	glimpse.KeyInsert:       imgui.KeyInsert,
	glimpse.KeyLeft:         imgui.KeyLeftArrow,
	glimpse.KeyRight:        imgui.KeyRightArrow,
	glimpse.KeyUp:           imgui.KeyUpArrow,
	glimpse.KeyDown:         imgui.KeyDownArrow,
	glimpse.KeyHome:         imgui.KeyHome,
	glimpse.KeyEnd:          imgui.KeyEnd,
	glimpse.KeyPageUp:       imgui.KeyPageUp,
	glimpse.KeyPageDown:     imgui.KeyPageDown,
	glimpse.KeyLeftShift:    imgui.KeyLeftShift,
	glimpse.KeyRightShift:   imgui.KeyRightShift,
	glimpse.KeyLeftControl:  imgui.KeyLeftCtrl,
	glimpse.KeyRightControl: imgui.KeyRightCtrl,
	glimpse.KeyLeftAlt:      imgui.KeyLeftAlt,
	glimpse.KeyRightAlt:     imgui.KeyRightAlt,
	glimpse.KeyLeftSuper:    imgui.KeyLeftSuper,
	glimpse.KeyRightSuper:   imgui.KeyRightSuper,
	glimpse.KeyF1:           imgui.KeyF1,
	glimpse.KeyF2:           imgui.KeyF2,
	glimpse.KeyF3:           imgui.KeyF3,
	glimpse.KeyF4:           imgui.KeyF4,
	glimpse.KeyF5:           imgui.KeyF5,
	glimpse.KeyF6:           imgui.KeyF6,
	glimpse.KeyF7:           imgui.KeyF7,
	glimpse.KeyF8:           imgui.KeyF8,
	glimpse.KeyF9:           imgui.KeyF9,
	glimpse.KeyF10:          imgui.KeyF10,
	glimpse.KeyF11:          imgui.KeyF11,
	glimpse.KeyF12:          imgui.KeyF12,
}

func imguiKey(key glimpse.Key) (imgui.Key, bool) {
	mapped, ok := keyMap[key]
	return mapped, ok
}
