package glimpse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputStateKeys(t *testing.T) {
	var state InputState

	state.Apply(KeyInput{Key: KeyA, Action: Press, Mods: ModShift})
	assert.True(t, state.Keys.Pressed[KeyA])
	assert.True(t, state.Keys.JustPressed[KeyA])
	assert.True(t, state.Keys.Mods.Has(ModShift))

	// repeats do not change the pressed state
	state.Apply(KeyInput{Key: KeyA, Action: Repeat})
	assert.True(t, state.Keys.Pressed[KeyA])

	state.NextTick()
	assert.True(t, state.Keys.Pressed[KeyA])
	assert.False(t, state.Keys.JustPressed[KeyA])

	state.Apply(KeyInput{Key: KeyA, Action: Release})
	assert.False(t, state.Keys.Pressed[KeyA])
	assert.True(t, state.Keys.JustReleased[KeyA])
}

func TestInputStateMouse(t *testing.T) {
	var state InputState

	state.Apply(CursorMoved{X: 10, Y: 20})
	state.Apply(CursorMoved{X: 15, Y: 18})

	require.True(t, state.Mouse.InWindow)
	assert.Equal(t, float32(15), state.Mouse.CursorX)
	assert.Equal(t, float32(18), state.Mouse.CursorY)

	// the first position does not count as movement
	assert.Equal(t, float32(5), state.Mouse.DeltaX)
	assert.Equal(t, float32(-2), state.Mouse.DeltaY)

	state.Apply(MouseWheel{DeltaY: 1})
	state.Apply(MouseWheel{DeltaY: 2})
	assert.Equal(t, float32(3), state.Mouse.WheelY)

	state.Apply(MouseInput{Button: MouseButtonLeft, Action: Press})
	assert.True(t, state.Mouse.Pressed[MouseButtonLeft])

	state.NextTick()
	assert.Zero(t, state.Mouse.DeltaX)
	assert.Zero(t, state.Mouse.WheelY)
	assert.Empty(t, state.Mouse.JustPressed)

	state.Apply(Focused{Focused: false})
	assert.False(t, state.Mouse.Pressed[MouseButtonLeft])
	assert.True(t, state.Mouse.JustReleased[MouseButtonLeft])

	state.Apply(CursorLeft{})
	assert.False(t, state.Mouse.InWindow)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "A", KeyA.String())
	assert.Equal(t, "Z", KeyZ.String())
	assert.Equal(t, "7", Key7.String())
	assert.Equal(t, "F12", KeyF12.String())
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "Unknown", KeyUnknown.String())
	assert.Equal(t, "0", Key0.String())
	assert.Equal(t, "Space", KeySpace.String())
	assert.Equal(t, "Left", KeyLeft.String())
	assert.Equal(t, "LeftControl", KeyLeftControl.String())
	assert.Equal(t, "F1", KeyF1.String())
	assert.Equal(t, "Key(999)", Key(999).String())
	assert.Equal(t, "Key(73)", (KeyF12 + 1).String())
}
