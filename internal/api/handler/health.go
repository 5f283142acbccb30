package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ClientCounter reports the number of connected websocket subscribers.
type ClientCounter interface {
	ClientCount() int
}

// NodeCounter reports the number of nodes tracked in the snapshot store.
type NodeCounter interface {
	Len() int
}

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	clients  ClientCounter
	nodes    NodeCounter
	bootTime time.Time
	version  string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(clients ClientCounter, nodes NodeCounter, bootTime time.Time, version string) *HealthHandler {
	return &HealthHandler{clients: clients, nodes: nodes, bootTime: bootTime, version: version}
}

// Get returns process status, connected-client count and cached-node count.
// GET / and GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":         "ok",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.bootTime).Seconds()),
		"clients":        h.clients.ClientCount(),
		"cached_nodes":   h.nodes.Len(),
	}

	// Process stats are best-effort decoration; the endpoint stays useful
	// even when gopsutil cannot read them.
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			payload["rss_bytes"] = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			payload["cpu_percent"] = cpu
		}
	}

	respondJSON(w, http.StatusOK, payload)
}
