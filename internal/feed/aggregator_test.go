package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/podwatch/internal/activity"
)

func newTestAggregator(t *testing.T, now time.Time) *Aggregator {
	t.Helper()
	a := NewAggregator(nil)
	a.now = func() time.Time { return now }
	a.jitter = func() float64 { return 1.0 }
	return a
}

func TestAggregatorScenario(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.apply(activity.Event{
		Type:      activity.EventPacketsEarned,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{RxEarned: 100, TxEarned: 50},
	})
	a.apply(activity.Event{
		Type:      activity.EventCreditsEarned,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Earned: 5},
	})

	ranked := a.Ranked()
	require.Len(t, ranked, 1)
	assert.Equal(t, "node-a", ranked[0].Pubkey)
	assert.Equal(t, 1, ranked[0].Rank)
	// 5 credits * 10 + 150 packets * 0.01, no decay.
	assert.InDelta(t, 51.5, ranked[0].Score, 0.001)
}

func TestAggregatorPauseDiscardsBuffered(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.Enqueue(activity.Event{Type: activity.EventCreditsEarned, Pubkey: "a"})
	a.Enqueue(activity.Event{Type: activity.EventCreditsEarned, Pubkey: "b"})
	require.Equal(t, 2, a.BufferLen())

	a.Pause()
	assert.True(t, a.Paused())
	assert.Equal(t, 0, a.BufferLen())

	// Events arriving while paused vanish too.
	a.Enqueue(activity.Event{Type: activity.EventCreditsEarned, Pubkey: "c"})
	assert.Equal(t, 0, a.BufferLen())

	a.Resume()
	assert.False(t, a.Paused())
	assert.Equal(t, 0, a.BufferLen())
}

func TestAggregatorBaselineCapture(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	// First absolute reading only captures the baseline.
	a.apply(activity.Event{
		Type:      activity.EventNodeStatus,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Credits: 100, Packets: 500},
	})
	m := a.nodes["node-a"]
	require.NotNil(t, m)
	assert.Zero(t, m.CreditsDelta())
	assert.Zero(t, m.PacketsDelta())

	// Later readings are measured against it.
	a.apply(activity.Event{
		Type:      activity.EventNodeStatus,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Credits: 104, Packets: 520},
	})
	assert.Equal(t, 4.0, m.CreditsDelta())
	assert.Equal(t, 20.0, m.PacketsDelta())
}

func TestAggregatorIncrementsAccumulate(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	for i := 0; i < 3; i++ {
		a.apply(activity.Event{
			Type:      activity.EventPacketsEarned,
			Pubkey:    "node-a",
			Timestamp: now.UnixMilli(),
			Payload:   &activity.Payload{RxEarned: 10, TxEarned: 5},
		})
	}

	m := a.nodes["node-a"]
	require.NotNil(t, m)
	assert.Equal(t, 45.0, m.PacketsDelta())
}

func TestAggregatorOfflineKeepsTotals(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.apply(activity.Event{
		Type:      activity.EventCreditsEarned,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Earned: 3},
	})
	a.apply(activity.Event{
		Type:      activity.EventNodeOffline,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
	})

	m := a.nodes["node-a"]
	require.NotNil(t, m)
	assert.Equal(t, StatusOffline, m.Status)
	assert.Equal(t, 3.0, m.CreditsDelta())

	// Offline nodes never appear on the leaderboard.
	assert.Empty(t, a.Ranked())

	// Coming back online resumes from the same session totals.
	a.apply(activity.Event{
		Type:      activity.EventNodeOnline,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
	})
	ranked := a.Ranked()
	require.Len(t, ranked, 1)
	assert.InDelta(t, 30.0, ranked[0].Score, 0.001)
}

func TestAggregatorStreamsUpdate(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.apply(activity.Event{
		Type:      activity.EventStreamsActive,
		Pubkey:    "node-a",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Streams: 7},
	})

	m := a.nodes["node-a"]
	require.NotNil(t, m)
	assert.Equal(t, uint32(7), m.ActiveStreams)
}

func TestAggregatorPrune(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	for i := 0; i < 25; i++ {
		a.apply(activity.Event{
			Type:      activity.EventCreditsEarned,
			Pubkey:    "node-" + string(rune('a'+i)),
			Timestamp: now.UnixMilli(),
			Payload:   &activity.Payload{Earned: float64(i + 1)},
		})
	}
	a.apply(activity.Event{
		Type:      activity.EventCreditsEarned,
		Pubkey:    "stale",
		Timestamp: now.Add(-2 * time.Minute).UnixMilli(),
		Payload:   &activity.Payload{Earned: 1000},
	})
	require.Len(t, a.nodes, 26)

	a.prune()

	assert.Len(t, a.nodes, pruneKeep)
	assert.NotContains(t, a.nodes, "stale")
	// The lowest earners went first.
	assert.NotContains(t, a.nodes, "node-a")
	assert.Contains(t, a.nodes, "node-"+string(rune('a'+24)))
}

func TestAggregatorReset(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.Enqueue(activity.Event{Type: activity.EventCreditsEarned, Pubkey: "a"})
	a.apply(activity.Event{
		Type:      activity.EventCreditsEarned,
		Pubkey:    "b",
		Timestamp: now.UnixMilli(),
		Payload:   &activity.Payload{Earned: 1},
	})

	a.Reset()

	assert.Equal(t, 0, a.BufferLen())
	assert.Empty(t, a.nodes)
	assert.Empty(t, a.Ranked())
}

func TestAggregatorMalformedEventsSkipped(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	a := newTestAggregator(t, now)

	a.apply(activity.Event{Type: activity.EventCreditsEarned})                    // no pubkey
	a.apply(activity.Event{Type: activity.EventPacketsEarned, Pubkey: "node-a"})  // nil payload
	a.apply(activity.Event{Type: "bogus", Pubkey: "node-b", Timestamp: now.UnixMilli()})

	assert.Empty(t, a.Ranked())
}
