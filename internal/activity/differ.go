package activity

import (
	"time"

	"github.com/creamcroissant/podwatch/internal/gossip"
	"github.com/creamcroissant/podwatch/internal/snapshot"
)

// Differ turns polled counter records into activity events by comparing each
// record against the snapshot store and committing the new counters afterwards.
// It is driven exclusively by the poll job, one cycle at a time.
type Differ struct {
	store *snapshot.Store
	now   func() time.Time
}

// NewDiffer builds a differ over the given snapshot store.
func NewDiffer(store *snapshot.Store) *Differ {
	return &Differ{store: store, now: time.Now}
}

// Diff processes one poll cycle. The first sighting of a key stores a baseline
// and emits nothing. Counter resets show up as negative deltas and are treated
// as no-ops. The snapshot is always overwritten, even when no event fires, so
// deltas never accumulate across cycles. Keys absent from records are left
// untouched.
func (d *Differ) Diff(records []gossip.Record) []Event {
	var events []Event
	now := d.now().UnixMilli()

	for _, rec := range records {
		current := snapshot.Counters{
			PacketsReceived: rec.PacketsReceived,
			PacketsSent:     rec.PacketsSent,
			ActiveStreams:   rec.ActiveStreams,
			Credits:         rec.Credits,
		}

		prev, seen := d.store.Get(rec.Pubkey)
		if !seen {
			d.store.Put(rec.Pubkey, current)
			continue
		}

		events = append(events, d.compare(rec, prev, current, now)...)
		d.store.Put(rec.Pubkey, current)
	}
	return events
}

func (d *Differ) compare(rec gossip.Record, prev, current snapshot.Counters, now int64) []Event {
	var events []Event

	prevTotal := prev.PacketsReceived + prev.PacketsSent
	newTotal := current.PacketsReceived + current.PacketsSent
	if newTotal > prevTotal {
		events = append(events, Event{
			Type:     EventPacketsEarned,
			Pubkey:   rec.Pubkey,
			Address:  rec.Address,
			Location: rec.Location(),
			Payload: &Payload{
				RxEarned: clampedDelta(current.PacketsReceived, prev.PacketsReceived),
				TxEarned: clampedDelta(current.PacketsSent, prev.PacketsSent),
				Packets:  newTotal,
			},
			Timestamp: now,
		})
	}

	// Credit loss is intentionally silent here; signed deltas belong to the
	// historical charting pipeline.
	if earned := current.Credits - prev.Credits; earned > 0 {
		events = append(events, Event{
			Type:     EventCreditsEarned,
			Pubkey:   rec.Pubkey,
			Address:  rec.Address,
			Location: rec.Location(),
			Payload: &Payload{
				Earned: earned,
				Total:  current.Credits,
			},
			Timestamp: now,
		})
	}

	if current.ActiveStreams != prev.ActiveStreams {
		events = append(events, Event{
			Type:     EventStreamsActive,
			Pubkey:   rec.Pubkey,
			Address:  rec.Address,
			Location: rec.Location(),
			Payload: &Payload{
				Streams: current.ActiveStreams,
			},
			Timestamp: now,
		})
	}

	return events
}

// clampedDelta protects against counter rollbacks on individual sub-counters.
func clampedDelta(now, before uint64) uint64 {
	if now < before {
		return 0
	}
	return now - before
}
