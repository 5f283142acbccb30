package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDrainDelayClampsLow(t *testing.T) {
	// Deep buffer with fast jitter hits the floor.
	assert.Equal(t, minDrainDelay, DrainDelay(500, 0.5))
}

func TestDrainDelayClampsHigh(t *testing.T) {
	// Near-empty buffer with slow jitter hits the ceiling.
	assert.Equal(t, maxDrainDelay, DrainDelay(1, 1.5))
	assert.Equal(t, maxDrainDelay, DrainDelay(0, 1.0))
}

func TestDrainDelayMidRange(t *testing.T) {
	// 30 events, neutral jitter: 5000/(30*0.9) ≈ 185ms.
	got := DrainDelay(30, 1.0)
	assert.InDelta(t, 185, float64(got/time.Millisecond), 1)
}

func TestDrainDelaySpeedsUpWithDepth(t *testing.T) {
	shallow := DrainDelay(10, 1.0)
	deep := DrainDelay(50, 1.0)
	assert.Less(t, deep, shallow)
}

func TestDrainDelayJitterSpreads(t *testing.T) {
	slow := DrainDelay(30, 1.5)
	fast := DrainDelay(30, 0.5)
	assert.Less(t, fast, slow)
}
