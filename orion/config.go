package orion

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

// Config is the content of a toml configuration file.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Surface SurfaceConfig `toml:"surface"`
	Log     LogConfig     `toml:"log"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
}

type SurfaceConfig struct {
	// one of fifo, fifo-relaxed, mailbox or immediate
	PresentMode string `toml:"present_mode"`

	AcquireRetries *int `toml:"acquire_retries"`
}

type LogConfig struct {
	// one of debug, info, warn or error
	Level string `toml:"level"`
}

type DebugConfig struct {
	// path of a directory to write a cpu profile to
	Profile string `toml:"profile"`
}

func DefaultConfig() Config {
	retries := pulse.DefaultSurfaceOptions().AcquireRetries

	return Config{
		Surface: SurfaceConfig{
			PresentMode:    "fifo",
			AcquireRetries: &retries,
		},

		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads a configuration file. Values missing in the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}

	return config, nil
}

// ParseConfig parses the toml data on top of the default configuration.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if _, err := config.LogLevel(); err != nil {
		return Config{}, err
	}

	if _, err := config.SurfaceOptions(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}

// SurfaceOptions converts the surface section into options for the
// pulse.SurfaceManager.
func (c Config) SurfaceOptions() (pulse.SurfaceOptions, error) {
	opts := pulse.DefaultSurfaceOptions()

	switch strings.ToLower(c.Surface.PresentMode) {
	case "", "fifo":
		opts.PresentMode = wgpu.PresentModeFifo
	case "fifo-relaxed":
		opts.PresentMode = wgpu.PresentModeFifoRelaxed
	case "mailbox":
		opts.PresentMode = wgpu.PresentModeMailbox
	case "immediate":
		opts.PresentMode = wgpu.PresentModeImmediate
	default:
		return opts, fmt.Errorf("unknown present mode %q", c.Surface.PresentMode)
	}

	if c.Surface.AcquireRetries != nil {
		if *c.Surface.AcquireRetries < 0 {
			return opts, fmt.Errorf("acquire_retries must not be negative, got %d", *c.Surface.AcquireRetries)
		}

		opts.AcquireRetries = *c.Surface.AcquireRetries
	}

	return opts, nil
}
