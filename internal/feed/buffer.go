package feed

import "github.com/creamcroissant/podwatch/internal/activity"

const (
	bufferHighWater = 60
	bufferKeep      = 30
)

// buffer is a capped FIFO of pending events. It looks unbounded on push, but
// any observation past the high-water mark truncates it to the newest entries,
// trading completeness for freshness under overload. Not safe for concurrent
// use; the aggregator serializes access.
type buffer struct {
	events []activity.Event
}

// push appends an event.
func (b *buffer) push(event activity.Event) {
	b.events = append(b.events, event)
}

// pop removes and returns the oldest retained event.
func (b *buffer) pop() (activity.Event, bool) {
	b.truncate()
	if len(b.events) == 0 {
		return activity.Event{}, false
	}
	event := b.events[0]
	b.events = b.events[1:]
	return event, true
}

// len reports how many events are retained after overload truncation.
func (b *buffer) len() int {
	b.truncate()
	return len(b.events)
}

func (b *buffer) clear() { b.events = nil }

// truncate drops the oldest events once the high-water mark is crossed.
func (b *buffer) truncate() {
	if len(b.events) > bufferHighWater {
		kept := make([]activity.Event, bufferKeep)
		copy(kept, b.events[len(b.events)-bufferKeep:])
		b.events = kept
	}
}
