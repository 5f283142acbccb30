package feed

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/creamcroissant/podwatch/internal/activity"
)

const (
	pruneInterval = 5 * time.Second
	pruneWindow   = 60 * time.Second
	pruneKeep     = 20
)

// Aggregator consumes a stream of activity events and maintains the decaying
// per-node state behind the leaderboard. Events are buffered and drained one
// at a time on an adaptive timer so bursty input still renders smoothly.
//
// All state is guarded by one mutex; the drain loop is the only writer of the
// node map apart from Reset and the prune pass.
type Aggregator struct {
	mu     sync.Mutex
	buf    buffer
	nodes  map[string]*NodeMetric
	paused bool

	jitter func() float64
	now    func() time.Time
	wake   chan struct{}
	logger *slog.Logger
}

// NewAggregator builds an aggregator with the default jitter source.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		nodes:  make(map[string]*NodeMetric),
		jitter: func() float64 { return 0.5 + rand.Float64() },
		now:    time.Now,
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Enqueue buffers one incoming event. Events arriving while paused are
// discarded; resume never replays them.
func (a *Aggregator) Enqueue(event activity.Event) {
	a.mu.Lock()
	if a.paused {
		a.mu.Unlock()
		return
	}
	a.buf.push(event)
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Run drains the buffer until ctx is cancelled, pruning stale nodes along the
// way. It processes one event per pass with an adaptive, jittered delay.
func (a *Aggregator) Run(ctx context.Context) {
	prune := time.NewTicker(pruneInterval)
	defer prune.Stop()

	for {
		event, pending, ok := a.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-a.wake:
				continue
			case <-prune.C:
				a.prune()
				continue
			}
		}

		a.apply(event)

		delay := DrainDelay(pending, a.jitter())
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-prune.C:
			a.prune()
			<-timer.C
		case <-timer.C:
		}
	}
}

// Pause suspends draining and throws away everything already buffered.
func (a *Aggregator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = true
	a.buf.clear()
}

// Resume re-enables draining. Discarded events are gone.
func (a *Aggregator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paused = false
}

// Paused reports whether draining is suspended.
func (a *Aggregator) Paused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// Reset drops the buffer and all per-node state, as on disconnect or tab
// visibility loss. There is no catching up afterwards.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf.clear()
	a.nodes = make(map[string]*NodeMetric)
}

// BufferLen reports the number of pending events.
func (a *Aggregator) BufferLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf.len()
}

// Ranked returns the current leaderboard.
func (a *Aggregator) Ranked() []RankedNode {
	a.mu.Lock()
	metrics := make([]*NodeMetric, 0, len(a.nodes))
	for _, m := range a.nodes {
		metrics = append(metrics, m)
	}
	now := a.now()
	a.mu.Unlock()
	return Rank(metrics, now)
}

// next pops the oldest event; pending is the buffer length after the pop.
func (a *Aggregator) next() (activity.Event, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paused {
		return activity.Event{}, 0, false
	}
	event, ok := a.buf.pop()
	if !ok {
		return activity.Event{}, 0, false
	}
	return event, a.buf.len(), true
}

// apply folds one event into the node map. Malformed events are skipped; the
// drain loop must survive anything the wire can carry.
func (a *Aggregator) apply(event activity.Event) {
	if event.Pubkey == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.nodes[event.Pubkey]
	if !ok {
		m = &NodeMetric{Pubkey: event.Pubkey, Status: StatusOnline}
		a.nodes[event.Pubkey] = m
	}
	if event.Address != "" {
		m.Address = event.Address
	}
	if event.Location != "" {
		m.Location = event.Location
	}
	m.LastUpdate = event.Timestamp
	if m.LastUpdate == 0 {
		m.LastUpdate = a.now().UnixMilli()
	}

	payload := event.Payload

	switch event.Type {
	case activity.EventNewNode, activity.EventNodeOnline, activity.EventNodeStatus:
		m.Status = StatusOnline
		if payload != nil {
			if payload.Credits > 0 {
				m.credits.observeAbsolute(payload.Credits)
			}
			if payload.Packets > 0 {
				m.packets.observeAbsolute(float64(payload.Packets))
			}
			if payload.Streams > 0 {
				m.ActiveStreams = payload.Streams
			}
		}

	case activity.EventNodeSyncing:
		m.Status = StatusSyncing

	case activity.EventNodeOffline:
		// Session totals survive; they resume if the node comes back.
		m.Status = StatusOffline

	case activity.EventPacketsEarned:
		m.Status = StatusOnline
		if payload != nil {
			m.packets.addIncrement(float64(payload.RxEarned + payload.TxEarned))
		}

	case activity.EventCreditsEarned:
		m.Status = StatusOnline
		if payload != nil {
			m.credits.addIncrement(payload.Earned)
		}

	case activity.EventStreamsActive:
		m.Status = StatusOnline
		if payload != nil {
			m.ActiveStreams = payload.Streams
		}

	default:
		a.logger.Debug("unknown event type skipped", "type", event.Type)
	}
}

// prune bounds memory: keep only the top scorers among nodes touched recently.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	cutoff := now.Add(-pruneWindow).UnixMilli()

	type scored struct {
		key   string
		score float64
	}
	alive := make([]scored, 0, len(a.nodes))
	for key, m := range a.nodes {
		if m.LastUpdate < cutoff {
			continue
		}
		alive = append(alive, scored{key: key, score: Score(m, now)})
	}

	sort.SliceStable(alive, func(i, j int) bool {
		if alive[i].score != alive[j].score {
			return alive[i].score > alive[j].score
		}
		return alive[i].key < alive[j].key
	})
	if len(alive) > pruneKeep {
		alive = alive[:pruneKeep]
	}

	kept := make(map[string]*NodeMetric, len(alive))
	for _, entry := range alive {
		kept[entry.key] = a.nodes[entry.key]
	}
	a.nodes = kept
}
