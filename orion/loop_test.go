package orion

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/oliverbestmann/imframe/glimpse"
	"github.com/oliverbestmann/imframe/imui"
	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeWindow struct {
	width, height uint32
	scale         float32
}

func (f *fakeWindow) GetSize() (uint32, uint32) {
	return f.width, f.height
}

func (f *fakeWindow) ContentScale() float32 {
	return f.scale
}

func (f *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (f *fakeWindow) SetCursor(cursor glimpse.Cursor) {}

func (f *fakeWindow) Run(handle glimpse.EventHandler) error {
	return nil
}

func (f *fakeWindow) Terminate() {}

type fakeSurface struct {
	log *callLog

	width, height uint32
	failures      int
}

func (f *fakeSurface) RequestResize(width, height uint32) {
	f.log.add("surface.RequestResize %dx%d", width, height)
	f.width, f.height = width, height
}

func (f *fakeSurface) AcquireFrame() (*pulse.Frame, error) {
	f.log.add("surface.AcquireFrame")

	if f.failures > 0 {
		f.failures--
		return nil, fmt.Errorf("%w after 2 attempts: %w", pulse.ErrAcquireFailed, errors.New("surface lost"))
	}

	frame := &pulse.Frame{
		Format: wgpu.TextureFormatBGRA8Unorm,
		Width:  f.width,
		Height: f.height,
	}

	return frame, nil
}

func (f *fakeSurface) Present(frame *pulse.Frame) {
	f.log.add("surface.Present")
}

type fakeEncoder struct {
	log    *callLog
	clears []pulse.Color

	clearErr  error
	submitErr error
}

func (f *fakeEncoder) Encoder() *wgpu.CommandEncoder {
	return nil
}

func (f *fakeEncoder) ClearPass(target pulse.RenderTarget, color pulse.Color) error {
	f.log.add("encoder.ClearPass")
	f.clears = append(f.clears, color)
	return f.clearErr
}

func (f *fakeEncoder) LoadPass(label string, target pulse.RenderTarget, draw func(pass *wgpu.RenderPassEncoder) error) error {
	f.log.add("encoder.LoadPass %s", label)
	return draw(nil)
}

func (f *fakeEncoder) Submit() error {
	f.log.add("encoder.Submit")
	return f.submitErr
}

func (f *fakeEncoder) Release() {
	f.log.add("encoder.Release")
}

type fakeOverlay struct {
	log  *callLog
	data []*imui.DrawData
	err  error
}

func (f *fakeOverlay) Render(pass *wgpu.RenderPassEncoder, target pulse.RenderTarget, data *imui.DrawData) error {
	f.log.add("overlay.Render")
	f.data = append(f.data, data)
	return f.err
}

type recordingApp struct {
	BaseApplication

	log  *callLog
	exit bool

	released int
	stats    *FrameStats
}

func (a *recordingApp) Update(gpu *pulse.Context) {
	a.log.add("app.Update")
}

func (a *recordingApp) Render(frame *pulse.Frame, encoder *wgpu.CommandEncoder) {
	a.log.add("app.Render %dx%d", frame.Width, frame.Height)
}

func (a *recordingApp) BuildUI(ui *imui.Ui) {
	a.log.add("app.BuildUI")
	ui.Text("hello")
}

func (a *recordingApp) Resize(width, height uint32) {
	a.log.add("app.Resize %dx%d", width, height)
}

func (a *recordingApp) IsExit() bool {
	return a.exit
}

func (a *recordingApp) HandleEvent(ev glimpse.Event) {
	a.log.add("app.HandleEvent %T", ev)
}

func (a *recordingApp) ClearColor() pulse.Color {
	return pulse.ColorWhite
}

func (a *recordingApp) Release() {
	a.released++
}

func (a *recordingApp) UseStats(stats *FrameStats) {
	a.stats = stats
}

type harness struct {
	log     *callLog
	window  *fakeWindow
	surface *fakeSurface
	encoder *fakeEncoder
	overlay *fakeOverlay
	orch    *Orchestrator

	encoderErr error
}

func newHarness(t *testing.T, app Application) *harness {
	t.Helper()

	log := &callLog{}

	window := &fakeWindow{width: 800, height: 600, scale: 1}
	surface := &fakeSurface{log: log, width: 800, height: 600}
	encoder := &fakeEncoder{log: log}
	overlay := &fakeOverlay{log: log}

	ui, err := imui.NewContext(goregular.TTF, imui.FontOptions{})
	require.NoError(t, err)

	t.Cleanup(ui.Destroy)

	platform := imui.NewPlatform()
	platform.AttachWindow(&ui.IO, window)

	if rec, ok := app.(*recordingApp); ok {
		rec.log = log
	}

	h := &harness{
		log:     log,
		window:  window,
		surface: surface,
		encoder: encoder,
		overlay: overlay,
	}

	newEncoder := func() (frameEncoder, error) {
		if h.encoderErr != nil {
			return nil, h.encoderErr
		}

		return encoder, nil
	}

	h.orch = newOrchestrator(window, nil, surface, ui, platform, overlay, app, newEncoder)

	return h
}

// captureLogs records everything logged through the default logger until
// the test ends.
func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func (h *harness) send(t *testing.T, ev glimpse.Event) glimpse.ControlFlow {
	t.Helper()

	flow, err := h.orch.HandleEvent(ev)
	require.NoError(t, err)

	return flow
}

func TestFrameSequence(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	flow := h.send(t, glimpse.RedrawEventsCleared{})
	assert.Equal(t, glimpse.Continue, flow)

	assert.Equal(t, []string{
		"app.HandleEvent glimpse.RedrawEventsCleared",
		"app.Update",
		"app.BuildUI",
		"surface.AcquireFrame",
		"app.Resize 800x600",
		"encoder.ClearPass",
		"app.Render 800x600",
		"encoder.LoadPass Overlay",
		"overlay.Render",
		"encoder.Submit",
		"surface.Present",
		"encoder.Release",
	}, h.log.calls)

	assert.Equal(t, []pulse.Color{pulse.ColorWhite}, h.encoder.clears)

	require.Len(t, h.overlay.data, 1)
	assert.False(t, h.overlay.data[0].Empty())
}

func TestResizeOnlyOnSizeChange(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	h.send(t, glimpse.RedrawEventsCleared{})
	h.log.calls = nil

	h.send(t, glimpse.RedrawEventsCleared{})
	assert.NotContains(t, h.log.calls, "app.Resize 800x600")

	h.log.calls = nil

	h.window.width, h.window.height = 1024, 768
	assert.Equal(t, glimpse.Continue, h.send(t, glimpse.Resized{Width: 1024, Height: 768}))

	// resizing does not render
	assert.Equal(t, []string{
		"app.HandleEvent glimpse.Resized",
		"surface.RequestResize 1024x768",
	}, h.log.calls)

	h.log.calls = nil

	h.send(t, glimpse.RedrawEventsCleared{})
	assert.Contains(t, h.log.calls, "app.Resize 1024x768")
	assert.Contains(t, h.log.calls, "app.Render 1024x768")
}

func TestCloseRequested(t *testing.T) {
	app := &recordingApp{}
	h := newHarness(t, app)

	flow := h.send(t, glimpse.CloseRequested{})
	assert.Equal(t, glimpse.Exit, flow)
	assert.True(t, h.orch.Terminated())

	assert.Equal(t, []string{"app.HandleEvent glimpse.CloseRequested"}, h.log.calls)

	// nothing happens after termination
	h.log.calls = nil

	assert.Equal(t, glimpse.Exit, h.send(t, glimpse.RedrawEventsCleared{}))
	assert.Equal(t, glimpse.Exit, h.send(t, glimpse.CloseRequested{}))
	assert.Empty(t, h.log.calls)
}

func TestApplicationExit(t *testing.T) {
	app := &recordingApp{}
	h := newHarness(t, app)

	h.send(t, glimpse.RedrawEventsCleared{})
	h.log.calls = nil

	app.exit = true

	// the exit check happens before the event reaches the core
	flow := h.send(t, glimpse.Resized{Width: 10, Height: 10})
	assert.Equal(t, glimpse.Exit, flow)
	assert.Equal(t, []string{"app.HandleEvent glimpse.Resized"}, h.log.calls)

	h.log.calls = nil

	assert.Equal(t, glimpse.Exit, h.send(t, glimpse.RedrawEventsCleared{}))
	assert.Empty(t, h.log.calls)
}

func TestAcquireFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})
	h.surface.failures = 1

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.ErrorIs(t, err, pulse.ErrAcquireFailed)
	assert.Equal(t, glimpse.Exit, flow)
	assert.True(t, h.orch.Terminated())

	assert.Equal(t, []string{
		"app.HandleEvent glimpse.RedrawEventsCleared",
		"app.Update",
		"app.BuildUI",
		"surface.AcquireFrame",
	}, h.log.calls)

	// the loop stays terminated
	h.log.calls = nil

	flow, err = h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.NoError(t, err)
	assert.Equal(t, glimpse.Exit, flow)
	assert.Empty(t, h.log.calls)
}

func TestOverlayFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})
	h.overlay.err = errors.New("broken pipeline")

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.Error(t, err)
	assert.Equal(t, glimpse.Exit, flow)

	assert.NotContains(t, h.log.calls, "encoder.Submit")
	assert.NotContains(t, h.log.calls, "surface.Present")
	assert.Contains(t, h.log.calls, "encoder.Release")
}

func TestPrepareFrameFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})
	h.window.scale = 0

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.Error(t, err)
	assert.Equal(t, glimpse.Exit, flow)

	assert.Equal(t, []string{"app.HandleEvent glimpse.RedrawEventsCleared"}, h.log.calls)
}

func TestMinimizedWindowSkipsFrame(t *testing.T) {
	h := newHarness(t, &recordingApp{})
	h.window.width, h.window.height = 0, 0

	assert.Equal(t, glimpse.Continue, h.send(t, glimpse.RedrawEventsCleared{}))
	assert.Equal(t, []string{"app.HandleEvent glimpse.RedrawEventsCleared"}, h.log.calls)
	assert.Equal(t, uint64(0), h.orch.Stats().FrameCount)
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	assert.Equal(t, glimpse.Continue, h.send(t, glimpse.Focused{Focused: true}))
	assert.Equal(t, glimpse.Continue, h.send(t, glimpse.CharInput{Char: 'a'}))

	assert.Equal(t, []string{
		"app.HandleEvent glimpse.Focused",
		"app.HandleEvent glimpse.CharInput",
	}, h.log.calls)
}

type defaultApp struct {
	BaseApplication
}

func TestBaseApplicationDefaults(t *testing.T) {
	var app BaseApplication

	assert.False(t, app.IsExit())
	assert.Equal(t, pulse.ColorBlack, app.ClearColor())
	assert.Equal(t, float32(1), app.ClearColor().A)

	h := newHarness(t, &defaultApp{})

	h.send(t, glimpse.RedrawEventsCleared{})

	assert.Equal(t, []pulse.Color{pulse.ColorBlack}, h.encoder.clears)
	assert.Equal(t, []string{
		"surface.AcquireFrame",
		"encoder.ClearPass",
		"encoder.LoadPass Overlay",
		"overlay.Render",
		"encoder.Submit",
		"surface.Present",
		"encoder.Release",
	}, h.log.calls)

	// without widgets the overlay is empty
	require.Len(t, h.overlay.data, 1)
	assert.True(t, h.overlay.data[0].Empty())
}

func TestStatsConsumer(t *testing.T) {
	app := &recordingApp{}
	h := newHarness(t, app)

	require.Same(t, h.orch.Stats(), app.stats)

	h.send(t, glimpse.RedrawEventsCleared{})
	h.send(t, glimpse.RedrawEventsCleared{})

	assert.Equal(t, uint64(2), app.stats.FrameCount)
}

func TestCloseReleasesApplicationOnce(t *testing.T) {
	app := &recordingApp{}
	h := newHarness(t, app)

	h.orch.Close()
	h.orch.Close()

	assert.Equal(t, 1, app.released)
	assert.True(t, h.orch.Terminated())
}

func TestCloseRequestedWhileExiting(t *testing.T) {
	logs := captureLogs(t)

	app := &recordingApp{exit: true}
	h := newHarness(t, app)

	assert.Equal(t, glimpse.Exit, h.send(t, glimpse.CloseRequested{}))
	assert.Equal(t, glimpse.Exit, h.send(t, glimpse.CloseRequested{}))

	h.orch.Close()

	assert.Equal(t, 1, strings.Count(logs.String(), "Terminate event loop"))
	assert.Equal(t, 1, app.released)

	// the second close request never reaches the application
	assert.Equal(t, []string{"app.HandleEvent glimpse.CloseRequested"}, h.log.calls)
}

func TestEncoderCreationFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	errOutOfMemory := errors.New("out of memory")
	h.encoderErr = errOutOfMemory

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.ErrorIs(t, err, errOutOfMemory)
	assert.ErrorContains(t, err, "create encoder")
	assert.Equal(t, glimpse.Exit, flow)
	assert.True(t, h.orch.Terminated())

	assert.NotContains(t, h.log.calls, "app.Render 800x600")
	assert.NotContains(t, h.log.calls, "surface.Present")
	assert.Equal(t, uint64(0), h.orch.Stats().FrameCount)
}

func TestClearPassFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	errValidation := errors.New("validation error")
	h.encoder.clearErr = errValidation

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.ErrorIs(t, err, errValidation)
	assert.Equal(t, glimpse.Exit, flow)

	assert.NotContains(t, h.log.calls, "app.Render 800x600")
	assert.NotContains(t, h.log.calls, "encoder.Submit")
	assert.Contains(t, h.log.calls, "encoder.Release")
}

func TestSubmitFailureIsFatal(t *testing.T) {
	h := newHarness(t, &recordingApp{})

	errDeviceLost := errors.New("device lost")
	h.encoder.submitErr = errDeviceLost

	flow, err := h.orch.HandleEvent(glimpse.RedrawEventsCleared{})
	require.ErrorIs(t, err, errDeviceLost)
	assert.ErrorContains(t, err, "submit frame")
	assert.Equal(t, glimpse.Exit, flow)

	assert.NotContains(t, h.log.calls, "surface.Present")
	assert.Contains(t, h.log.calls, "encoder.Release")
}
