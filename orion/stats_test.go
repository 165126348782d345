package orion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameStats(t *testing.T) {
	var stats FrameStats

	assert.Equal(t, float64(0), stats.FPS())

	now := time.Unix(0, 0)
	for range 10 {
		stats.record(now, framePhases{Update: time.Millisecond})
		now = now.Add(20 * time.Millisecond)
	}

	assert.Equal(t, uint64(10), stats.FrameCount)
	assert.Equal(t, 20*time.Millisecond, stats.Delta)
	assert.Equal(t, 20*time.Millisecond, stats.MaxDuration)
	assert.InDelta(t, 50.0, stats.FPS(), 1e-6)
	assert.Equal(t, time.Millisecond, stats.Update)

	// memory stats are sampled on the first frame
	assert.NotZero(t, stats.Memory.HeapInuse)

	assert.Contains(t, stats.String(), "FPS: 50.00")
}
