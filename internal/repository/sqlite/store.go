package sqlite

import (
	"database/sql"

	"github.com/creamcroissant/podwatch/internal/repository"
)

// Store wires SQLite-backed repository implementations.
type Store struct {
	db           *sql.DB
	nodeStatuses repository.NodeStatusRepository
	activityLogs repository.ActivityLogRepository
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		nodeStatuses: &nodeStatusRepo{db: db},
		activityLogs: &activityLogRepo{db: db},
	}
}

func (s *Store) NodeStatuses() repository.NodeStatusRepository { return s.nodeStatuses }
func (s *Store) ActivityLogs() repository.ActivityLogRepository { return s.activityLogs }
