package pulse

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrAcquireFailed is returned by SurfaceManager.AcquireFrame once the retry
// budget is exhausted. The surface can not make progress after that.
var ErrAcquireFailed = errors.New("acquire surface texture")

// SurfaceConfig describes how the presentation surface is configured.
type SurfaceConfig struct {
	Format      wgpu.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode wgpu.PresentMode
}

type SurfaceOptions struct {
	PresentMode wgpu.PresentMode

	// Number of reconfigure-and-retry attempts after a failed acquisition.
	// Negative values are treated as zero.
	AcquireRetries int
}

func DefaultSurfaceOptions() SurfaceOptions {
	return SurfaceOptions{
		PresentMode:    wgpu.PresentModeFifo,
		AcquireRetries: 1,
	}
}

// surface is the part of the presentation surface the manager drives.
type surface interface {
	Configure(config SurfaceConfig)
	Acquire() (*Frame, error)
	Present()
}

// SurfaceManager owns the presentation surface. Resize requests are only
// recorded and applied lazily by the next call to AcquireFrame, so a burst of
// resize events results in a single reconfiguration.
type SurfaceManager struct {
	surface surface
	config  SurfaceConfig

	// true if the surface needs to be reconfigured before the next acquisition
	resize bool

	retries int

	// number of reconfigurations after the initial configuration
	reconfigurations int
}

// NewSurfaceManager negotiates the surface format with the adapter and
// configures the surface to the given size.
func NewSurfaceManager(ctx *Context, width, height uint32, opts SurfaceOptions) *SurfaceManager {
	caps := ctx.Surface.GetCapabilities(ctx.Adapter)
	slog.Info("Available surface formats", slog.Any("formats", caps.Formats))

	config := SurfaceConfig{
		Format:      chooseFormat(caps.Formats),
		Width:       width,
		Height:      height,
		PresentMode: choosePresentMode(caps.PresentModes, opts.PresentMode),
	}

	var alphaMode wgpu.CompositeAlphaMode
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}

	target := &wgpuSurface{
		ctx:       ctx,
		alphaMode: alphaMode,
	}

	return newSurfaceManager(target, config, opts.AcquireRetries)
}

func newSurfaceManager(target surface, config SurfaceConfig, retries int) *SurfaceManager {
	m := &SurfaceManager{
		surface: target,
		config:  config,
		retries: max(0, retries),
	}

	// initial configuration, does not count as a reconfiguration
	target.Configure(config)

	return m
}

// RequestResize records the new size of the surface. No gpu work is done
// here, the surface is reconfigured by the next AcquireFrame.
func (m *SurfaceManager) RequestResize(width, height uint32) {
	m.config.Width = width
	m.config.Height = height
	m.resize = true
}

// AcquireFrame returns the next presentable frame. A pending resize is applied
// first. If the acquisition fails, the surface is reconfigured and the
// acquisition retried until the retry budget is used up.
func (m *SurfaceManager) AcquireFrame() (*Frame, error) {
	if m.resize {
		m.reconfigure()
		m.resize = false
	}

	frame, err := m.surface.Acquire()

	for attempt := 0; err != nil; attempt++ {
		if attempt >= m.retries {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrAcquireFailed, attempt+1, err)
		}

		slog.Warn(
			"Acquire surface texture failed, reconfiguring",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)

		m.reconfigure()
		frame, err = m.surface.Acquire()
	}

	return frame, nil
}

// Present shows the frame on screen. It must only be called after all work
// rendering to the frame was submitted.
func (m *SurfaceManager) Present(frame *Frame) {
	m.surface.Present()

	frame.Release()
}

func (m *SurfaceManager) Config() SurfaceConfig {
	return m.config
}

// Reconfigurations returns the number of times the surface was configured
// after the initial configuration.
func (m *SurfaceManager) Reconfigurations() int {
	return m.reconfigurations
}

func (m *SurfaceManager) reconfigure() {
	slog.Debug("Configure surface",
		slog.Int("width", int(m.config.Width)),
		slog.Int("height", int(m.config.Height)),
	)

	m.surface.Configure(m.config)
	m.reconfigurations += 1
}

func chooseFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	if len(formats) == 0 || slices.Contains(formats, wgpu.TextureFormatBGRA8Unorm) {
		return wgpu.TextureFormatBGRA8Unorm
	}

	return formats[0]
}

func choosePresentMode(modes []wgpu.PresentMode, requested wgpu.PresentMode) wgpu.PresentMode {
	if slices.Contains(modes, requested) {
		return requested
	}

	if requested != wgpu.PresentModeFifo {
		slog.Warn("Present mode not supported, using fifo", slog.Any("presentMode", requested))
	}

	// fifo is always supported
	return wgpu.PresentModeFifo
}

// wgpuSurface drives the actual wgpu.Surface.
type wgpuSurface struct {
	ctx       *Context
	alphaMode wgpu.CompositeAlphaMode
	format    wgpu.TextureFormat
}

func (s *wgpuSurface) Configure(config SurfaceConfig) {
	s.format = config.Format

	s.ctx.Surface.Configure(s.ctx.Device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: config.PresentMode,
		AlphaMode:   s.alphaMode,

		// try to reduce input latency
		DesiredMaximumFrameLatency: 1,
	})
}

func (s *wgpuSurface) Acquire() (*Frame, error) {
	texture, err := s.ctx.Surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}

	return newFrame(texture, s.format, texture.GetWidth(), texture.GetHeight(), texture.CreateView)
}

func (s *wgpuSurface) Present() {
	s.ctx.Surface.Present()
}
