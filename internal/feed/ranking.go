package feed

import (
	"sort"
	"time"
)

const (
	creditsWeight = 10.0
	packetsWeight = 0.01

	// decayWindow is how long a silent node takes to decay to zero.
	decayWindow = 30 * time.Second

	topN = 12
)

// RankedNode is a NodeMetric with its computed score and rank. Recomputed on
// every pass, never stored.
type RankedNode struct {
	NodeMetric
	Score float64
	Rank  int
}

// Score computes the decayed activity score for one node at the given time.
// Offline nodes score zero regardless of accumulated deltas.
func Score(m *NodeMetric, now time.Time) float64 {
	if m.Status == StatusOffline {
		return 0
	}
	elapsed := float64(now.UnixMilli() - m.LastUpdate)
	decay := 1 - elapsed/float64(decayWindow.Milliseconds())
	if decay <= 0 {
		return 0
	}
	if decay > 1 {
		decay = 1
	}
	return (m.CreditsDelta()*creditsWeight + m.PacketsDelta()*packetsWeight) * decay
}

// Rank produces the top-N leaderboard: descending score, zero-score nodes
// dropped, ranks assigned from 1. The sort is stable with pubkey as the final
// tiebreak, so identical input state always yields an identical list.
func Rank(metrics []*NodeMetric, now time.Time) []RankedNode {
	scored := make([]RankedNode, 0, len(metrics))
	for _, m := range metrics {
		score := Score(m, now)
		if score <= 0 {
			continue
		}
		scored = append(scored, RankedNode{NodeMetric: *m, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Pubkey < scored[j].Pubkey
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
