package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/creamcroissant/podwatch/internal/activity"
)

// ConnState describes the subscriber's connection to the activity feed.
type ConnState int

const (
	ConnIdle ConnState = iota
	ConnConnected
	ConnReconnecting
)

// wireFrame matches the hub's broadcast envelope.
type wireFrame struct {
	Event string         `json:"event"`
	Data  activity.Event `json:"data"`
}

// Subscriber maintains a websocket subscription to a podwatch server and feeds
// every received event into the aggregator. On reconnect the aggregator is
// reset: the feed has no replay, so stale session state would lie.
type Subscriber struct {
	url        string
	aggregator *Aggregator
	logger     *slog.Logger
	state      chan ConnState
}

// NewSubscriber builds a subscriber for the given ws:// URL.
func NewSubscriber(url string, aggregator *Aggregator, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		url:        url,
		aggregator: aggregator,
		logger:     logger,
		state:      make(chan ConnState, 8),
	}
}

// States exposes connection state transitions for UI indicators.
func (s *Subscriber) States() <-chan ConnState { return s.state }

// Run connects and pumps events until ctx is cancelled, reconnecting with
// exponential backoff on any connection loss.
func (s *Subscriber) Run(ctx context.Context) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 0

	for {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()
		err := s.pump(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > time.Minute {
			// The connection held for a while; start the backoff over.
			policy.Reset()
		}
		s.notify(ConnReconnecting)
		s.aggregator.Reset()

		wait := policy.NextBackOff()
		s.logger.Warn("feed connection lost, reconnecting", "error", err, "wait", wait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// pump runs one connection until it breaks.
func (s *Subscriber) pump(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.notify(ConnConnected)
	s.logger.Info("connected to activity feed", "url", s.url)

	// Close the connection when ctx dies so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var frame wireFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.Debug("malformed feed frame skipped", "error", err)
			continue
		}
		if frame.Event != "activity" {
			continue
		}
		s.aggregator.Enqueue(frame.Data)
	}
}

func (s *Subscriber) notify(state ConnState) {
	select {
	case s.state <- state:
	default:
	}
}
