package feed

import "time"

const (
	minDrainDelay = 30 * time.Millisecond
	maxDrainDelay = 600 * time.Millisecond

	// drainBudget is the notional time to empty a full buffer; deeper buffers
	// drain proportionally faster.
	drainBudget = 5000.0
)

// DrainDelay computes the pause before processing the next buffered event.
// jitter is expected in [0.5, 1.5] and desynchronizes concurrent clients so
// their updates don't land in lockstep. The result is clamped so the consumer
// never updates faster than ~33 times a second nor grinds to a halt.
func DrainDelay(bufferLen int, jitter float64) time.Duration {
	if bufferLen <= 0 {
		return maxDrainDelay
	}
	raw := (drainBudget / (float64(bufferLen) * 0.9)) * jitter
	delay := time.Duration(raw * float64(time.Millisecond))
	if delay < minDrainDelay {
		return minDrainDelay
	}
	if delay > maxDrainDelay {
		return maxDrainDelay
	}
	return delay
}
