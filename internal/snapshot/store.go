package snapshot

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Counters is the last-observed counter set for one node.
type Counters struct {
	PacketsReceived uint64
	PacketsSent     uint64
	ActiveStreams   uint32
	Credits         float64
}

// Store holds per-node counter snapshots keyed by pubkey. Entries expire after
// the TTL so nodes that vanish from gossip permanently are eventually forgotten
// and re-observed as first sightings if they return. A single writer (the poll
// job) owns all mutation; the go-cache backend makes reads safe everywhere else.
type Store struct {
	backend *gocache.Cache
	ttl     time.Duration
}

// NewStore builds a snapshot store with the given eviction TTL. Zero or
// negative TTL keeps snapshots forever.
func NewStore(ttl time.Duration) *Store {
	cleanup := ttl
	if cleanup <= 0 {
		ttl = gocache.NoExpiration
		cleanup = time.Hour
	}
	return &Store{
		backend: gocache.New(ttl, cleanup),
		ttl:     ttl,
	}
}

// Get returns the stored counters for key.
func (s *Store) Get(key string) (Counters, bool) {
	raw, ok := s.backend.Get(key)
	if !ok {
		return Counters{}, false
	}
	counters, ok := raw.(Counters)
	return counters, ok
}

// Put overwrites the counters for key, refreshing its TTL.
func (s *Store) Put(key string, counters Counters) {
	s.backend.Set(key, counters, s.ttl)
}

// Len reports the number of tracked nodes.
func (s *Store) Len() int {
	return s.backend.ItemCount()
}
