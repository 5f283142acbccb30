package feed

// NodeStatus is the client-side view of a node's liveness.
type NodeStatus string

const (
	StatusOnline  NodeStatus = "online"
	StatusOffline NodeStatus = "offline"
	StatusSyncing NodeStatus = "syncing"
)

// BaselineState tracks whether a session baseline has been captured for a
// counter. The first positive absolute value a node reports becomes its
// baseline; everything after is measured relative to it.
type BaselineState int

const (
	BaselineUninitialized BaselineState = iota
	BaselineCaptured
	BaselineTracking
)

// baseline is the per-counter session-baseline state machine.
type baseline struct {
	state BaselineState
	value float64
	delta float64
}

// observeAbsolute feeds an absolute counter reading through the state machine.
func (b *baseline) observeAbsolute(value float64) {
	switch b.state {
	case BaselineUninitialized:
		if value > 0 {
			b.value = value
			b.state = BaselineCaptured
		}
	case BaselineCaptured, BaselineTracking:
		b.state = BaselineTracking
		if d := value - b.value; d > b.delta {
			b.delta = d
		}
	}
}

// addIncrement applies a carried delta directly; no baseline involved.
func (b *baseline) addIncrement(delta float64) {
	if delta <= 0 {
		return
	}
	if b.state == BaselineUninitialized {
		b.state = BaselineCaptured
	}
	b.delta += delta
}

// sessionDelta is the accumulated session-relative total.
func (b *baseline) sessionDelta() float64 {
	if b.delta < 0 {
		return 0
	}
	return b.delta
}

// NodeMetric is the per-node rolling state the ranking engine reads. Credits
// and packets are session-relative deltas, not lifetime totals: they capture
// what happened while this client was watching.
type NodeMetric struct {
	Pubkey        string
	Address       string
	Location      string
	CountryCode   string
	Status        NodeStatus
	ActiveStreams uint32

	credits baseline
	packets baseline

	// LastUpdate is unix milliseconds of the last event for this node.
	LastUpdate int64
}

// CreditsDelta returns the session-relative credits total.
func (m *NodeMetric) CreditsDelta() float64 { return m.credits.sessionDelta() }

// PacketsDelta returns the session-relative packets total.
func (m *NodeMetric) PacketsDelta() float64 { return m.packets.sessionDelta() }
