package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricAt(pubkey string, credits, packets float64, lastUpdate time.Time) *NodeMetric {
	m := &NodeMetric{Pubkey: pubkey, Status: StatusOnline, LastUpdate: lastUpdate.UnixMilli()}
	m.credits.addIncrement(credits)
	m.packets.addIncrement(packets)
	return m
}

func TestScoreFreshNode(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	m := metricAt("a", 5, 150, now)

	// (5*10 + 150*0.01) * 1.0
	assert.InDelta(t, 51.5, Score(m, now), 0.001)
}

func TestScoreLinearDecay(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	m := metricAt("a", 5, 150, now)

	half := Score(m, now.Add(15*time.Second))
	assert.InDelta(t, 51.5/2, half, 0.001)

	assert.Zero(t, Score(m, now.Add(30*time.Second)))
	assert.Zero(t, Score(m, now.Add(45*time.Second)))
}

func TestScoreOfflineIsZero(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	m := metricAt("a", 100, 0, now)
	m.Status = StatusOffline

	assert.Zero(t, Score(m, now))
}

func TestRankDropsDecayedNodes(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	fresh := metricAt("fresh", 1, 0, now)
	stale := metricAt("stale", 100, 0, now.Add(-40*time.Second))

	ranked := Rank([]*NodeMetric{stale, fresh}, now)
	require.Len(t, ranked, 1)
	assert.Equal(t, "fresh", ranked[0].Pubkey)
	assert.Equal(t, 1, ranked[0].Rank)
}

func TestRankTopN(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	metrics := make([]*NodeMetric, 0, 20)
	for i := 0; i < 20; i++ {
		metrics = append(metrics, metricAt(string(rune('a'+i)), float64(i+1), 0, now))
	}

	ranked := Rank(metrics, now)
	require.Len(t, ranked, topN)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, topN, ranked[topN-1].Rank)
	// Highest score first.
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRankDeterministic(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	// Three nodes with identical scores force the tiebreak.
	metrics := []*NodeMetric{
		metricAt("charlie", 2, 0, now),
		metricAt("alpha", 2, 0, now),
		metricAt("bravo", 2, 0, now),
	}

	first := Rank(metrics, now)
	for i := 0; i < 10; i++ {
		again := Rank(metrics, now)
		require.Equal(t, first, again)
	}
	assert.Equal(t, "alpha", first[0].Pubkey)
	assert.Equal(t, "bravo", first[1].Pubkey)
	assert.Equal(t, "charlie", first[2].Pubkey)
}
