package orion

import (
	"github.com/oliverbestmann/imframe/glimpse"
	"github.com/oliverbestmann/imframe/imui"
	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Application is the host application driven by the Orchestrator.
// All hooks are called on the event loop thread.
type Application interface {
	// Update advances the application state once per frame.
	Update(gpu *pulse.Context)

	// Render records the application passes into the encoder. The frame was
	// already cleared, the application must load its content.
	Render(frame *pulse.Frame, encoder *wgpu.CommandEncoder)

	// BuildUI describes the overlay for the current frame.
	BuildUI(ui *imui.Ui)

	// Resize is called when the size of the acquired frames changed.
	Resize(width, height uint32)

	// IsExit is polled after every event. Returning true stops the loop.
	IsExit() bool

	HandleEvent(ev glimpse.Event)

	ClearColor() pulse.Color
}

// NewApplicationFunc creates the application once the gpu and the overlay
// are available.
type NewApplicationFunc func(gpu *pulse.Context, ui *imui.Context) (Application, error)

// StatsConsumer can be implemented by an Application to receive the frame
// statistics. The pointer stays valid and is updated after every frame.
type StatsConsumer interface {
	UseStats(stats *FrameStats)
}

// BaseApplication implements every hook of Application as a no-op. Embed it
// and override only what you need.
type BaseApplication struct{}

var _ Application = BaseApplication{}

func (BaseApplication) Update(gpu *pulse.Context) {}

func (BaseApplication) Render(frame *pulse.Frame, encoder *wgpu.CommandEncoder) {}

func (BaseApplication) BuildUI(ui *imui.Ui) {}

func (BaseApplication) Resize(width, height uint32) {}

func (BaseApplication) IsExit() bool {
	return false
}

func (BaseApplication) HandleEvent(ev glimpse.Event) {}

// ClearColor defaults to opaque black.
func (BaseApplication) ClearColor() pulse.Color {
	return pulse.ColorBlack
}
