package orion

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// framePhases holds the durations of the phases of a single frame.
type framePhases struct {
	Update  time.Duration
	BuildUI time.Duration
	Acquire time.Duration
	Encode  time.Duration
	Submit  time.Duration
}

type FrameStats struct {
	FrameCount      uint64
	AverageDuration time.Duration
	MaxDuration     time.Duration

	// Delta time to previous frame
	Delta time.Duration

	// phases of the most recent frame
	Update  time.Duration
	BuildUI time.Duration
	Acquire time.Duration
	Encode  time.Duration
	Submit  time.Duration

	// refreshed every 60 frames
	Memory runtime.MemStats

	lastTime time.Time
}

func (t *FrameStats) update(d time.Duration) {
	const window = 64

	t.Delta = d
	t.MaxDuration = max(t.MaxDuration, d)

	if t.FrameCount < window/2 {
		t.AverageDuration = d
	} else {
		t.AverageDuration = ((window-1)*t.AverageDuration + d) / window
	}
}

// FPS returns the frames per second based on the moving average of the frame
// duration. Zero until at least two frames were recorded.
func (t *FrameStats) FPS() float64 {
	if t.AverageDuration <= 0 {
		return 0
	}

	return 1.0 / t.AverageDuration.Seconds()
}

func (t *FrameStats) tick(now time.Time) bool {
	if t.FrameCount > 0 {
		dt := now.Sub(t.lastTime)
		t.update(dt)
	}

	t.lastTime = now
	t.FrameCount += 1

	return t.FrameCount%60 == 0
}

func (t *FrameStats) record(now time.Time, phases framePhases) {
	t.Update = phases.Update
	t.BuildUI = phases.BuildUI
	t.Acquire = phases.Acquire
	t.Encode = phases.Encode
	t.Submit = phases.Submit

	if t.tick(now) || t.FrameCount == 1 {
		runtime.ReadMemStats(&t.Memory)
	}
}

// Lines formats the statistics for display.
func (t *FrameStats) Lines() []string {
	ms := func(d time.Duration) float64 {
		return d.Seconds() * 1000
	}

	lastCycle := (t.Memory.NumGC + 255) % 256
	lastCycleDur := time.Duration(t.Memory.PauseNs[lastCycle])

	return []string{
		fmt.Sprintf("FPS: %1.2f", t.FPS()),
		fmt.Sprintf("Frames: %d", t.FrameCount),
		fmt.Sprintf("Max frame: %1.2fms", ms(t.MaxDuration)),
		"",
		"Phases",
		fmt.Sprintf("  Update:  %1.2fms", ms(t.Update)),
		fmt.Sprintf("  UI:      %1.2fms", ms(t.BuildUI)),
		fmt.Sprintf("  Acquire: %1.2fms", ms(t.Acquire)),
		fmt.Sprintf("  Encode:  %1.2fms", ms(t.Encode)),
		fmt.Sprintf("  Submit:  %1.2fms", ms(t.Submit)),
		"",
		"Memory",
		fmt.Sprintf("  Heap Objects: %d", t.Memory.HeapObjects),
		fmt.Sprintf("  Heap InUse:   %1.2fmb", float64(t.Memory.HeapInuse)/(1024.0*1024.0)),
		fmt.Sprintf("  GC Cycles:    %d", t.Memory.NumGC),
		fmt.Sprintf("  GC Duration:  %1.2fms", ms(lastCycleDur)),
	}
}

func (t *FrameStats) String() string {
	return strings.Join(t.Lines(), "\n")
}
