package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/creamcroissant/podwatch/internal/repository"
)

// ActivityCleanupJob trims the activity log to the configured retention window.
type ActivityCleanupJob struct {
	store     repository.Store
	retention time.Duration
	logger    *slog.Logger
}

// NewActivityCleanupJob builds the cleanup job.
func NewActivityCleanupJob(store repository.Store, retention time.Duration, logger *slog.Logger) *ActivityCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &ActivityCleanupJob{store: store, retention: retention, logger: logger}
}

// Name returns the job identifier.
func (j *ActivityCleanupJob) Name() string { return "activity.cleanup" }

// Run deletes activity rows older than the retention cutoff.
func (j *ActivityCleanupJob) Run(ctx context.Context) error {
	if j.store == nil {
		return fmt.Errorf("activity cleanup job has no store configured")
	}
	cutoff := time.Now().Add(-j.retention).UnixMilli()
	deleted, err := j.store.ActivityLogs().DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete old activity rows: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("activity log trimmed", "deleted", deleted)
	}
	return nil
}
