package imui

import (
	"testing"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScissorRect(t *testing.T) {
	x, y, w, h, ok := scissorRect(imgui.Vec4{X: 10, Y: 20, Z: 40, W: 60}, Vec2{}, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{10, 20, 30, 40}, []uint32{x, y, w, h})

	// relative to the display position
	x, y, w, h, ok = scissorRect(imgui.Vec4{X: 110, Y: 120, Z: 140, W: 160}, Vec2{X: 100, Y: 100}, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{10, 20, 30, 40}, []uint32{x, y, w, h})

	// clamped to the target
	x, y, w, h, ok = scissorRect(imgui.Vec4{X: -10, Y: -10, Z: 1000, W: 1000}, Vec2{}, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 0, 800, 600}, []uint32{x, y, w, h})

	_, _, _, _, ok = scissorRect(imgui.Vec4{X: 900, Y: 10, Z: 930, W: 50}, Vec2{}, 800, 600)
	assert.False(t, ok)

	_, _, _, _, ok = scissorRect(imgui.Vec4{}, Vec2{}, 800, 600)
	assert.False(t, ok)
}

func TestProjection(t *testing.T) {
	uniforms := projection(Vec2{}, Vec2{X: 800, Y: 600})

	clip := func(x, y float32) [2]float32 {
		return [2]float32{
			x*uniforms.Scale[0] + uniforms.Translate[0],
			y*uniforms.Scale[1] + uniforms.Translate[1],
		}
	}

	assertClip := func(expected [2]float32, actual [2]float32) {
		assert.InDelta(t, expected[0], actual[0], 1e-5)
		assert.InDelta(t, expected[1], actual[1], 1e-5)
	}

	assertClip([2]float32{-1, 1}, clip(0, 0))
	assertClip([2]float32{1, -1}, clip(800, 600))

	uniforms = projection(Vec2{X: 100, Y: 50}, Vec2{X: 800, Y: 600})
	assertClip([2]float32{-1, 1}, clip(100, 50))
	assertClip([2]float32{1, -1}, clip(900, 650))
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, uint64(1), nextPowerOfTwo(0))
	assert.Equal(t, uint64(1), nextPowerOfTwo(1))
	assert.Equal(t, uint64(4), nextPowerOfTwo(3))
	assert.Equal(t, uint64(4096), nextPowerOfTwo(4096))
	assert.Equal(t, uint64(8192), nextPowerOfTwo(4097))
}

func TestIndexFormat(t *testing.T) {
	assert.Equal(t, wgpu.IndexFormatUint16, indexFormat(2))
	assert.Equal(t, wgpu.IndexFormatUint32, indexFormat(4))
}

func TestPadToFour(t *testing.T) {
	assert.Len(t, padToFour(make([]byte, 6)), 8)
	assert.Len(t, padToFour(make([]byte, 8)), 8)
	assert.Empty(t, padToFour(nil))
}

func TestOverlayPipelineSrgb(t *testing.T) {
	assert.True(t, overlayPipelineConfig{Format: wgpu.TextureFormatBGRA8UnormSrgb}.srgb())
	assert.False(t, overlayPipelineConfig{Format: wgpu.TextureFormatBGRA8Unorm}.srgb())
}

func TestVertexLayout(t *testing.T) {
	stride, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()

	assert.Equal(t, 20, stride)
	assert.Equal(t, []int{0, 8, 16}, []int{posOffset, uvOffset, colOffset})
}
