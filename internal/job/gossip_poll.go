package job

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/creamcroissant/podwatch/internal/activity"
	"github.com/creamcroissant/podwatch/internal/gossip"
	"github.com/creamcroissant/podwatch/internal/repository"
	"github.com/creamcroissant/podwatch/internal/snapshot"
)

// Publisher receives every event produced by a poll cycle.
type Publisher interface {
	Publish(event activity.Event)
}

var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "podwatch",
		Subsystem: "poll",
		Name:      "cycles_total",
		Help:      "Completed gossip poll cycles.",
	})
	pollSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "podwatch",
		Subsystem: "poll",
		Name:      "cycles_skipped_total",
		Help:      "Poll ticks skipped because the previous cycle was still running.",
	})
	pollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "podwatch",
		Subsystem: "poll",
		Name:      "cycle_duration_seconds",
		Help:      "Wall time of one poll cycle.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	})
	cachedNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "podwatch",
		Subsystem: "poll",
		Name:      "cached_nodes",
		Help:      "Nodes currently tracked in the snapshot store.",
	})
)

// GossipPollJob runs the poll → diff → publish → persist pipeline. A cycle
// still in flight when the next tick fires causes that tick to no-op; cycles
// never queue or overlap, which keeps the snapshot store single-writer.
type GossipPollJob struct {
	client    *gossip.Client
	differ    *activity.Differ
	snapshots *snapshot.Store
	publisher Publisher
	store     repository.Store
	logger    *slog.Logger
	inFlight  atomic.Bool
}

// NewGossipPollJob assembles the poll pipeline. store may be nil when
// persistence is disabled.
func NewGossipPollJob(client *gossip.Client, differ *activity.Differ, snapshots *snapshot.Store, publisher Publisher, store repository.Store, logger *slog.Logger) *GossipPollJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &GossipPollJob{
		client:    client,
		differ:    differ,
		snapshots: snapshots,
		publisher: publisher,
		store:     store,
		logger:    logger,
	}
}

// Name returns the job identifier.
func (j *GossipPollJob) Name() string { return "gossip.poll" }

// Run executes one poll cycle. Upstream failures degrade to an empty record
// set, which the differ treats as "no update". Persistence failures are logged
// and never block broadcasting.
func (j *GossipPollJob) Run(ctx context.Context) error {
	if !j.inFlight.CompareAndSwap(false, true) {
		pollSkipped.Inc()
		j.logger.Warn("poll cycle still running, skipping tick")
		return nil
	}
	defer j.inFlight.Store(false)

	start := time.Now()
	records := j.client.Poll(ctx)
	events := j.differ.Diff(records)

	for _, event := range events {
		j.publisher.Publish(event)
	}

	j.persist(ctx, records, events)

	pollCycles.Inc()
	pollDuration.Observe(time.Since(start).Seconds())
	cachedNodes.Set(float64(j.snapshots.Len()))
	j.logger.Debug("poll cycle complete", "nodes", len(records), "events", len(events), "elapsed", time.Since(start))
	return nil
}

func (j *GossipPollJob) persist(ctx context.Context, records []gossip.Record, events []activity.Event) {
	if j.store == nil {
		return
	}
	now := time.Now().UnixMilli()

	statuses := make([]*repository.NodeStatus, 0, len(records))
	for _, rec := range records {
		statuses = append(statuses, &repository.NodeStatus{
			Pubkey:          rec.Pubkey,
			Address:         rec.Address,
			City:            rec.City,
			Country:         rec.Country,
			PacketsReceived: rec.PacketsReceived,
			PacketsSent:     rec.PacketsSent,
			ActiveStreams:   rec.ActiveStreams,
			Credits:         rec.Credits,
			UpdatedAt:       now,
		})
	}
	if err := j.store.NodeStatuses().UpsertBatch(ctx, statuses); err != nil {
		j.logger.Error("node status persist failed", "error", err)
	}

	rows := make([]*repository.ActivityRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, &repository.ActivityRow{
			Type:      event.Type,
			Pubkey:    event.Pubkey,
			Address:   event.Address,
			Location:  event.Location,
			Payload:   event.Payload,
			Timestamp: event.Timestamp,
		})
	}
	if err := j.store.ActivityLogs().InsertBatch(ctx, rows); err != nil {
		j.logger.Error("activity log persist failed", "error", err)
	}
}
