package repository

import "context"

// Store exposes the repositories backing the dashboard cache.
type Store interface {
	NodeStatuses() NodeStatusRepository
	ActivityLogs() ActivityLogRepository
}

// NodeStatusRepository persists the latest observed record per node.
type NodeStatusRepository interface {
	Upsert(ctx context.Context, status *NodeStatus) error
	UpsertBatch(ctx context.Context, statuses []*NodeStatus) error
	FindByPubkey(ctx context.Context, pubkey string) (*NodeStatus, error)
	List(ctx context.Context, limit, offset int) ([]*NodeStatus, error)
	Count(ctx context.Context) (int64, error)
}

// ActivityLogRepository appends and queries the event history.
type ActivityLogRepository interface {
	Insert(ctx context.Context, row *ActivityRow) error
	InsertBatch(ctx context.Context, rows []*ActivityRow) error
	ListRecent(ctx context.Context, limit int) ([]*ActivityRow, error)
	DeleteOlderThan(ctx context.Context, cutoffUnixMilli int64) (int64, error)
}
