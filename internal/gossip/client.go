package gossip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	methodPodsWithStats = "get-pods-with-stats"
	methodPods          = "get-pods"

	// maxRetries keeps retry work inside the request timeout budget.
	maxRetries      = 1
	initialInterval = 300 * time.Millisecond
)

// Client fetches node counter records from a set of gossip mirrors and an
// optional credits index. Every failure degrades to empty results; the poll
// loop must never see an error it has to handle.
type Client struct {
	endpoints  []string
	creditsURL string
	httpClient *http.Client
	logger     *slog.Logger
	pick       func(n int) int
}

// Options configure a Client.
type Options struct {
	Endpoints      []string
	CreditsURL     string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewClient builds a gossip client with a hard per-request timeout.
func NewClient(opts Options) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoints:  opts.Endpoints,
		creditsURL: opts.CreditsURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		pick:       rand.Intn,
	}
}

// Poll runs one fetch cycle: pods from a randomly picked mirror plus the
// credits index, fetched concurrently, merged into normalized records.
func (c *Client) Poll(ctx context.Context) []Record {
	if len(c.endpoints) == 0 {
		return nil
	}
	endpoint := c.endpoints[c.pick(len(c.endpoints))]

	creditsCh := make(chan map[string]float64, 1)
	go func() {
		creditsCh <- c.fetchCredits(ctx)
	}()

	pods := c.fetchPods(ctx, endpoint)
	credits := <-creditsCh

	return normalize(pods, credits)
}

// fetchPods asks for pods with stats and falls back to the reduced method when
// the result field comes back empty.
func (c *Client) fetchPods(ctx context.Context, endpoint string) []wirePod {
	pods, err := c.callPods(ctx, endpoint, methodPodsWithStats)
	if err == nil && len(pods) > 0 {
		return pods
	}
	if err != nil {
		c.logger.Warn("gossip stats request failed, falling back", "endpoint", endpoint, "error", err)
	}

	pods, err = c.callPods(ctx, endpoint, methodPods)
	if err != nil {
		c.logger.Warn("gossip request failed", "endpoint", endpoint, "error", err)
		return nil
	}
	return pods
}

func (c *Client) callPods(ctx context.Context, endpoint, method string) ([]wirePod, error) {
	var pods []wirePod

	operation := func() error {
		raw, err := c.callRPC(ctx, endpoint, method)
		if err != nil {
			return err
		}
		parsed, err := parsePods(raw)
		if err != nil {
			return backoff.Permanent(err)
		}
		pods = parsed
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxElapsedTime = 0

	retryable := backoff.WithMaxRetries(backoff.WithContext(policy, ctx), maxRetries)
	if err := backoff.Retry(operation, retryable); err != nil {
		return nil, err
	}
	return pods, nil
}

func (c *Client) callRPC(ctx context.Context, endpoint, method string) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, ID: 1, Params: []any{}})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc %s: unexpected status %d", method, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read rpc response: %w", err)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("rpc %s: %s (code %d)", method, envelope.Error.Message, envelope.Error.Code)
	}
	if len(envelope.Result) == 0 {
		return nil, fmt.Errorf("rpc %s: empty result", method)
	}
	return envelope.Result, nil
}

// parsePods accepts either a bare pod array or a {pods:[...]} envelope.
func parsePods(raw json.RawMessage) ([]wirePod, error) {
	var list []wirePod
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var envelope podsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode pods result: %w", err)
	}
	return envelope.Pods, nil
}

// fetchCredits returns the pod credits index, or an empty map on any failure.
func (c *Client) fetchCredits(ctx context.Context) map[string]float64 {
	credits := map[string]float64{}
	if c.creditsURL == "" {
		return credits
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.creditsURL, nil)
	if err != nil {
		c.logger.Warn("credits request build failed", "error", err)
		return credits
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("credits request failed", "error", err)
		return credits
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("credits request failed", "status", resp.StatusCode)
		return credits
	}

	var payload creditsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 32<<20)).Decode(&payload); err != nil {
		c.logger.Warn("credits response decode failed", "error", err)
		return credits
	}
	if payload.Status != "success" {
		c.logger.Warn("credits response not successful", "status", payload.Status)
		return credits
	}

	for _, entry := range payload.PodsCredits {
		if entry.PodID == "" {
			continue
		}
		credits[entry.PodID] = entry.Credits
	}
	return credits
}
