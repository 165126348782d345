package imui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"golang.org/x/exp/constraints"
)

type Vec2 = imgui.Vec2

func clamp[T constraints.Integer | constraints.Float](value, lo, hi T) T {
	return min(hi, max(lo, value))
}
