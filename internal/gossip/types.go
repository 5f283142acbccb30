package gossip

import "encoding/json"

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      int    `json:"id"`
	Params  []any  `json:"params"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// podsEnvelope covers mirrors that wrap the pod list in an object.
type podsEnvelope struct {
	Pods []wirePod `json:"pods"`
}

// wirePod is a node entry as the gossip mirrors serialize it. Field names vary
// between mirror versions, so both spellings are accepted where they diverge.
type wirePod struct {
	Pubkey          string  `json:"pubkey"`
	PublicKey       string  `json:"publicKey"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	Country         string  `json:"country"`
	PacketsReceived uint64  `json:"packets_received"`
	PacketsSent     uint64  `json:"packets_sent"`
	ActiveStreams   uint32  `json:"active_streams"`
	Credits         float64 `json:"credits"`
	Balance         float64 `json:"balance"`
}

// creditsResponse is the credits index payload.
type creditsResponse struct {
	Status      string         `json:"status"`
	PodsCredits []creditsEntry `json:"pods_credits"`
}

type creditsEntry struct {
	PodID   string  `json:"pod_id"`
	Credits float64 `json:"credits"`
}

// Record is a normalized per-node counter record produced by one poll cycle.
type Record struct {
	Pubkey          string
	Address         string
	City            string
	Country         string
	PacketsReceived uint64
	PacketsSent     uint64
	ActiveStreams   uint32
	Credits         float64
}

// Location renders the display location, empty when neither part is known.
func (r Record) Location() string {
	switch {
	case r.City != "" && r.Country != "":
		return r.City + ", " + r.Country
	case r.City != "":
		return r.City
	default:
		return r.Country
	}
}
