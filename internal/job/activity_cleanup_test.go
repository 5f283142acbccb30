package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/podwatch/internal/repository"
)

type recordingActivityRepo struct {
	repository.ActivityLogRepository
	cutoff int64
}

func (r *recordingActivityRepo) DeleteOlderThan(_ context.Context, cutoffUnixMilli int64) (int64, error) {
	r.cutoff = cutoffUnixMilli
	return 3, nil
}

type cleanupStore struct {
	activity recordingActivityRepo
}

func (s *cleanupStore) NodeStatuses() repository.NodeStatusRepository { return nil }
func (s *cleanupStore) ActivityLogs() repository.ActivityLogRepository { return &s.activity }

func TestActivityCleanupCutoff(t *testing.T) {
	store := &cleanupStore{}
	job := NewActivityCleanupJob(store, 24*time.Hour, nil)

	assert.Equal(t, "activity.cleanup", job.Name())
	require.NoError(t, job.Run(context.Background()))

	want := time.Now().Add(-24 * time.Hour).UnixMilli()
	assert.InDelta(t, want, store.activity.cutoff, float64(time.Second.Milliseconds()))
}

func TestActivityCleanupDefaultRetention(t *testing.T) {
	store := &cleanupStore{}
	job := NewActivityCleanupJob(store, 0, nil)
	require.NoError(t, job.Run(context.Background()))

	want := time.Now().Add(-7 * 24 * time.Hour).UnixMilli()
	assert.InDelta(t, want, store.activity.cutoff, float64(time.Second.Milliseconds()))
}

func TestActivityCleanupNoStore(t *testing.T) {
	job := NewActivityCleanupJob(nil, time.Hour, nil)
	assert.Error(t, job.Run(context.Background()))
}
