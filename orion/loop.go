package orion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/imframe/glimpse"
	"github.com/oliverbestmann/imframe/imui"
	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

type surfaceManager interface {
	RequestResize(width, height uint32)
	AcquireFrame() (*pulse.Frame, error)
	Present(frame *pulse.Frame)
}

type frameEncoder interface {
	Encoder() *wgpu.CommandEncoder
	ClearPass(target pulse.RenderTarget, color pulse.Color) error
	LoadPass(label string, target pulse.RenderTarget, draw func(pass *wgpu.RenderPassEncoder) error) error
	Submit() error
	Release()
}

type overlayRenderer interface {
	Render(pass *wgpu.RenderPassEncoder, target pulse.RenderTarget, data *imui.DrawData) error
}

// Orchestrator drives the application, the overlay and the surface from the
// events of a window. It is not safe for concurrent use, all methods must be
// called on the event loop thread.
type Orchestrator struct {
	window glimpse.Window
	gpu    *pulse.Context

	surface surfaceManager

	ui       *imui.Context
	platform *imui.Platform
	overlay  overlayRenderer

	app Application

	newEncoder func() (frameEncoder, error)

	// size of the frames as last reported to the application
	appWidth, appHeight uint32

	terminated bool

	stats FrameStats
	now   func() time.Time
}

// NewOrchestrator creates an Orchestrator. The overlay platform must already
// be attached to the window.
func NewOrchestrator(
	window glimpse.Window,
	gpu *pulse.Context,
	surface *pulse.SurfaceManager,
	ui *imui.Context,
	platform *imui.Platform,
	overlay *imui.Renderer,
	app Application,
) *Orchestrator {
	newEncoder := func() (frameEncoder, error) {
		enc, err := pulse.NewFrameEncoder(gpu)
		if err != nil {
			return nil, err
		}

		return enc, nil
	}

	return newOrchestrator(window, gpu, surface, ui, platform, overlay, app, newEncoder)
}

func newOrchestrator(
	window glimpse.Window,
	gpu *pulse.Context,
	surface surfaceManager,
	ui *imui.Context,
	platform *imui.Platform,
	overlay overlayRenderer,
	app Application,
	newEncoder func() (frameEncoder, error),
) *Orchestrator {
	o := &Orchestrator{
		window:     window,
		gpu:        gpu,
		surface:    surface,
		ui:         ui,
		platform:   platform,
		overlay:    overlay,
		app:        app,
		newEncoder: newEncoder,
		now:        time.Now,
	}

	if consumer, ok := app.(StatsConsumer); ok {
		consumer.UseStats(&o.stats)
	}

	return o
}

// Stats returns the statistics of the frames rendered so far.
func (o *Orchestrator) Stats() *FrameStats {
	return &o.stats
}

// Terminated reports whether the loop was asked to exit.
func (o *Orchestrator) Terminated() bool {
	return o.terminated
}

// HandleEvent processes a single event of the window. It is meant to be
// passed to glimpse.Window.Run.
func (o *Orchestrator) HandleEvent(ev glimpse.Event) (glimpse.ControlFlow, error) {
	if o.terminated {
		return glimpse.Exit, nil
	}

	o.app.HandleEvent(ev)

	_, closeRequested := ev.(glimpse.CloseRequested)
	if closeRequested || o.app.IsExit() {
		o.terminate("exit requested", slog.Bool("closeRequested", closeRequested))
		return glimpse.Exit, nil
	}

	o.platform.HandleEvent(&o.ui.IO, ev)

	switch ev := ev.(type) {
	case glimpse.Resized:
		slog.Debug("Window resized",
			slog.Int("width", int(ev.Width)),
			slog.Int("height", int(ev.Height)),
		)

		o.surface.RequestResize(ev.Width, ev.Height)

	case glimpse.RedrawEventsCleared:
		if err := o.redraw(); err != nil {
			o.terminate("frame failed", slog.String("error", err.Error()))
			return glimpse.Exit, err
		}
	}

	return glimpse.Continue, nil
}

func (o *Orchestrator) terminate(reason string, attrs ...any) {
	if o.terminated {
		return
	}

	o.terminated = true

	slog.Info("Terminate event loop", append([]any{slog.String("reason", reason)}, attrs...)...)
}

// redraw renders one frame.
func (o *Orchestrator) redraw() error {
	width, height := o.window.GetSize()
	if width == 0 || height == 0 {
		// minimized, nothing to present
		return nil
	}

	var phases framePhases

	start := o.now()

	if err := o.platform.PrepareFrame(&o.ui.IO); err != nil {
		return fmt.Errorf("prepare overlay frame: %w", err)
	}

	o.app.Update(o.gpu)
	phases.Update = o.now().Sub(start)

	mark := o.now()
	ui := o.ui.NewFrame()
	o.app.BuildUI(ui)
	phases.BuildUI = o.now().Sub(mark)

	mark = o.now()
	frame, err := o.surface.AcquireFrame()
	if err != nil {
		// keep the overlay consistent, the frame is dropped
		ui.Render()
		return fmt.Errorf("acquire frame: %w", err)
	}

	phases.Acquire = o.now().Sub(mark)

	if frame.Width != o.appWidth || frame.Height != o.appHeight {
		o.appWidth, o.appHeight = frame.Width, frame.Height
		o.app.Resize(frame.Width, frame.Height)
	}

	o.platform.PrepareRender(ui)
	drawData := ui.Render()

	mark = o.now()

	enc, err := o.newEncoder()
	if err != nil {
		frame.Release()
		return fmt.Errorf("create encoder: %w", err)
	}

	defer enc.Release()

	target := frame.Target()

	if err := enc.ClearPass(target, o.app.ClearColor()); err != nil {
		frame.Release()
		return fmt.Errorf("clear frame: %w", err)
	}

	o.app.Render(frame, enc.Encoder())

	err = enc.LoadPass("Overlay", target, func(pass *wgpu.RenderPassEncoder) error {
		return o.overlay.Render(pass, target, drawData)
	})

	if err != nil {
		frame.Release()
		return fmt.Errorf("draw overlay: %w", err)
	}

	phases.Encode = o.now().Sub(mark)

	mark = o.now()
	if err := enc.Submit(); err != nil {
		frame.Release()
		return fmt.Errorf("submit frame: %w", err)
	}

	o.surface.Present(frame)
	phases.Submit = o.now().Sub(mark)

	o.stats.record(o.now(), phases)

	return nil
}

// Close releases the application. It is safe to call more than once.
func (o *Orchestrator) Close() {
	o.terminate("closed")

	if o.app != nil {
		releaseIfPossible(o.app)
		o.app = nil
	}
}
