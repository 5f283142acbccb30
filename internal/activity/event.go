package activity

// EventType enumerates the activity event kinds pushed to clients.
type EventType string

const (
	EventNewNode       EventType = "new_node"
	EventNodeOnline    EventType = "node_online"
	EventNodeOffline   EventType = "node_offline"
	EventNodeSyncing   EventType = "node_syncing"
	EventNodeStatus    EventType = "node_status"
	EventStreamsActive EventType = "streams_active"
	EventPacketsEarned EventType = "packets_earned"
	EventCreditsEarned EventType = "credits_earned"
)

// Payload carries event-specific deltas and totals. All fields are optional;
// consumers read only what the event type defines.
type Payload struct {
	Credits  float64 `json:"credits,omitempty"`
	Packets  uint64  `json:"packets,omitempty"`
	Streams  uint32  `json:"streams,omitempty"`
	Total    float64 `json:"total,omitempty"`
	RxEarned uint64  `json:"rxEarned,omitempty"`
	TxEarned uint64  `json:"txEarned,omitempty"`
	Earned   float64 `json:"earned,omitempty"`
}

// Event is an immutable record of one detected node state change. Events have
// no identity beyond their content; duplicates are acceptable downstream.
type Event struct {
	Type      EventType `json:"type"`
	Pubkey    string    `json:"pubkey"`
	Address   string    `json:"address,omitempty"`
	Location  string    `json:"location,omitempty"`
	Payload   *Payload  `json:"data,omitempty"`
	Timestamp int64     `json:"timestamp"`
}
