package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/podwatch/internal/gossip"
	"github.com/creamcroissant/podwatch/internal/snapshot"
)

const testKey = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

func newTestDiffer() (*Differ, *snapshot.Store) {
	store := snapshot.NewStore(0)
	differ := NewDiffer(store)
	differ.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return differ, store
}

func record(rx, tx uint64, streams uint32, credits float64) gossip.Record {
	return gossip.Record{
		Pubkey:          testKey,
		Address:         "1.2.3.4:5000",
		City:            "Berlin",
		Country:         "Germany",
		PacketsReceived: rx,
		PacketsSent:     tx,
		ActiveStreams:   streams,
		Credits:         credits,
	}
}

func TestDiffFirstSightingEmitsNothing(t *testing.T) {
	differ, store := newTestDiffer()

	events := differ.Diff([]gossip.Record{record(10, 5, 1, 2)})
	assert.Empty(t, events)

	counters, ok := store.Get(testKey)
	require.True(t, ok)
	assert.Equal(t, snapshot.Counters{PacketsReceived: 10, PacketsSent: 5, ActiveStreams: 1, Credits: 2}, counters)
}

func TestDiffMonotonicDeltas(t *testing.T) {
	differ, _ := newTestDiffer()
	differ.Diff([]gossip.Record{record(10, 5, 1, 2)})

	events := differ.Diff([]gossip.Record{record(15, 5, 1, 4)})
	require.Len(t, events, 2)

	packets := events[0]
	assert.Equal(t, EventPacketsEarned, packets.Type)
	require.NotNil(t, packets.Payload)
	assert.Equal(t, uint64(5), packets.Payload.RxEarned)
	assert.Equal(t, uint64(0), packets.Payload.TxEarned)
	assert.Equal(t, uint64(20), packets.Payload.Packets)

	credits := events[1]
	assert.Equal(t, EventCreditsEarned, credits.Type)
	require.NotNil(t, credits.Payload)
	assert.Equal(t, 2.0, credits.Payload.Earned)
	assert.Equal(t, 4.0, credits.Payload.Total)
}

func TestDiffNegativeCreditDeltaSuppressed(t *testing.T) {
	differ, store := newTestDiffer()
	differ.Diff([]gossip.Record{record(0, 0, 0, 10)})

	events := differ.Diff([]gossip.Record{record(0, 0, 0, 8)})
	assert.Empty(t, events)

	// The snapshot still commits the lower value.
	counters, ok := store.Get(testKey)
	require.True(t, ok)
	assert.Equal(t, 8.0, counters.Credits)
}

func TestDiffStreamChangeBothDirections(t *testing.T) {
	differ, _ := newTestDiffer()
	differ.Diff([]gossip.Record{record(0, 0, 2, 0)})

	down := differ.Diff([]gossip.Record{record(0, 0, 0, 0)})
	require.Len(t, down, 1)
	assert.Equal(t, EventStreamsActive, down[0].Type)
	assert.Equal(t, uint32(0), down[0].Payload.Streams)

	up := differ.Diff([]gossip.Record{record(0, 0, 2, 0)})
	require.Len(t, up, 1)
	assert.Equal(t, EventStreamsActive, up[0].Type)
	assert.Equal(t, uint32(2), up[0].Payload.Streams)
}

func TestDiffSnapshotAlwaysUpdates(t *testing.T) {
	differ, store := newTestDiffer()
	differ.Diff([]gossip.Record{record(100, 50, 1, 5)})

	// Packet counters roll back: no events, but the snapshot follows.
	events := differ.Diff([]gossip.Record{record(90, 40, 1, 5)})
	assert.Empty(t, events)

	counters, ok := store.Get(testKey)
	require.True(t, ok)
	assert.Equal(t, uint64(90), counters.PacketsReceived)
	assert.Equal(t, uint64(40), counters.PacketsSent)
}

func TestDiffAbsentKeysUntouched(t *testing.T) {
	differ, store := newTestDiffer()
	other := record(1, 1, 1, 1)
	other.Pubkey = "7bXdWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

	differ.Diff([]gossip.Record{record(10, 5, 1, 2), other})

	// An empty poll cycle is "no update", not "all nodes went dark".
	events := differ.Diff(nil)
	assert.Empty(t, events)

	_, ok := store.Get(testKey)
	assert.True(t, ok)
	_, ok = store.Get(other.Pubkey)
	assert.True(t, ok)
}

func TestDiffScenario(t *testing.T) {
	differ, _ := newTestDiffer()

	first := differ.Diff([]gossip.Record{record(0, 0, 0, 0)})
	assert.Empty(t, first)

	events := differ.Diff([]gossip.Record{record(100, 50, 0, 5)})
	require.Len(t, events, 2)
	assert.Equal(t, EventPacketsEarned, events[0].Type)
	assert.Equal(t, uint64(100), events[0].Payload.RxEarned)
	assert.Equal(t, uint64(50), events[0].Payload.TxEarned)
	assert.Equal(t, EventCreditsEarned, events[1].Type)
	assert.Equal(t, 5.0, events[1].Payload.Earned)
}
