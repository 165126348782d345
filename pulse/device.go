package pulse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	// the event loop, the surface and the device all live on the main thread
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Queue, Surface and active Adapter.
// The Context is shared by the surface manager, the application and the
// overlay renderer. All of them run on the event loop thread.
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter

	// features enabled on the device
	Features []wgpu.FeatureName
}

// Establish negotiates an adapter, device and queue that are able to render
// to the surface described by sd. Of the requested features, only the ones
// supported by the adapter are enabled. The call blocks until the device is
// available or the context is cancelled.
func Establish(ctx context.Context, sd *wgpu.SurfaceDescriptor, features []wgpu.FeatureName) (st *Context, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// create a Surface based on the window
	st.Surface = instance.CreateSurface(sd)

	if err := ctx.Err(); err != nil {
		return st, err
	}

	// create an adapter that can render to the Surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return st, fmt.Errorf("request adapter: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return st, err
	}

	st.Features = supportedFeatures(st.Adapter.GetFeatures(), features)

	st.Device, err = st.Adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Device",
		RequiredFeatures: st.Features,
	})

	if err != nil {
		return st, fmt.Errorf("request device: %w", err)
	}

	st.Queue = st.Device.GetQueue()

	slog.Info(
		"Device established",
		slog.Any("features", st.Features),
	)

	return st, nil
}

// supportedFeatures returns the requested features that are also offered
// by the adapter.
func supportedFeatures(available, requested []wgpu.FeatureName) []wgpu.FeatureName {
	var result []wgpu.FeatureName

	for _, feature := range requested {
		if !slices.Contains(available, feature) {
			slog.Warn("Requested feature not supported by adapter", slog.Any("feature", feature))
			continue
		}

		if !slices.Contains(result, feature) {
			result = append(result, feature)
		}
	}

	return result
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}
