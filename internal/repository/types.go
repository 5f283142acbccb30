package repository

import "github.com/creamcroissant/podwatch/internal/activity"

// NodeStatus is the latest cached record for one node, refreshed every poll
// cycle. This is what the dashboard's table and detail views read.
type NodeStatus struct {
	Pubkey          string  `json:"pubkey"`
	Address         string  `json:"address,omitempty"`
	City            string  `json:"city,omitempty"`
	Country         string  `json:"country,omitempty"`
	PacketsReceived uint64  `json:"packets_received"`
	PacketsSent     uint64  `json:"packets_sent"`
	ActiveStreams   uint32  `json:"active_streams"`
	Credits         float64 `json:"credits"`
	UpdatedAt       int64   `json:"updated_at"`
}

// ActivityRow is one persisted activity event for the recent-activity panel.
type ActivityRow struct {
	ID        int64              `json:"id"`
	Type      activity.EventType `json:"type"`
	Pubkey    string             `json:"pubkey"`
	Address   string             `json:"address,omitempty"`
	Location  string             `json:"location,omitempty"`
	Payload   *activity.Payload  `json:"data,omitempty"`
	Timestamp int64              `json:"timestamp"`
}
