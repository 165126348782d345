package orion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/imframe/clipboard"
	"github.com/oliverbestmann/imframe/glimpse"
	"github.com/oliverbestmann/imframe/imui"
	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/pkg/profile"
)

type RunOptions struct {
	// creates the application. Required.
	NewApplication NewApplicationFunc

	// truetype or opentype font for the overlay. Required.
	Font        []byte
	FontOptions imui.FontOptions

	Title  string
	Width  uint32
	Height uint32

	// optional device features, enabled if supported by the adapter
	Features []wgpu.FeatureName

	// optional configuration, explicit options take precedence
	Config *Config
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.Config == nil {
		config := DefaultConfig()
		opts.Config = &config
	}

	if opts.Title == "" {
		opts.Title = opts.Config.Window.Title
	}

	if opts.Width == 0 {
		opts.Width = opts.Config.Window.Width
	}

	if opts.Height == 0 {
		opts.Height = opts.Config.Window.Height
	}

	if opts.Title == "" {
		opts.Title = "imframe"
	}

	if opts.Width == 0 {
		opts.Width = 1000
	}

	if opts.Height == 0 {
		opts.Height = 600
	}

	return opts
}

// Run opens a window and drives the application until the window is closed,
// the application asks to exit or a frame fails. Failures of a frame are
// returned and must be treated as fatal.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.NewApplication == nil {
		return errors.New("NewApplication must not be nil")
	}

	if len(opts.Font) == 0 {
		return fmt.Errorf("overlay font: %w", imui.ErrNoFont)
	}

	opts = opts.withDefaults()

	surfaceOpts, err := opts.Config.SurfaceOptions()
	if err != nil {
		return fmt.Errorf("surface options: %w", err)
	}

	if dir := opts.Config.Debug.Profile; dir != "" {
		slog.Info("Writing cpu profile", slog.String("directory", dir))
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
	}

	// create a new window
	win, err := glimpse.NewWindow(int(opts.Width), int(opts.Height), opts.Title)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	gpu, err := pulse.Establish(ctx, win.SurfaceDescriptor(), opts.Features)
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer gpu.Release()

	width, height := win.GetSize()
	surface := pulse.NewSurfaceManager(gpu, width, height, surfaceOpts)

	ui, err := imui.NewContext(opts.Font, opts.FontOptions)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}

	defer ui.Destroy()

	if backend, err := clipboard.NewSystem(); err != nil {
		slog.Debug("Using internal clipboard", slog.String("reason", err.Error()))
	} else {
		ui.SetClipboard(backend)
	}

	platform := imui.NewPlatform()
	platform.AttachWindow(&ui.IO, win)

	renderer, err := imui.NewRenderer(gpu)
	if err != nil {
		return fmt.Errorf("create overlay renderer: %w", err)
	}

	defer renderer.Release()

	app, err := opts.NewApplication(gpu, ui)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	orchestrator := NewOrchestrator(win, gpu, surface, ui, platform, renderer, app)
	defer orchestrator.Close()

	slog.Info("Starting event loop",
		slog.String("title", opts.Title),
		slog.Int("width", int(width)),
		slog.Int("height", int(height)),
		slog.Any("format", surface.Config().Format),
	)

	return win.Run(orchestrator.HandleEvent)
}
