package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultURL is where AnkiConnect listens by default.
	DefaultURL = "http://127.0.0.1:8765"
	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 30 * time.Second
)

// Config holds the configuration of the AnkiConnect client.
type Config struct {
	URL     string
	APIKey  string // sent as "key" when AnkiConnect requires one
	Timeout time.Duration
	// RequestsPerSecond throttles round trips; zero means unlimited.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

// Client talks to AnkiConnect. Requests are never retried.
type Client struct {
	config  Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client.
func NewClient(config Config) *Client {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	return &Client{
		config:  config,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Invoke performs one action and returns its raw result.
func (c *Client) Invoke(ctx context.Context, a Action) (json.RawMessage, error) {
	body, err := c.post(ctx, a)
	if err != nil {
		return nil, err
	}
	return parse(a.Name(), body)
}

// Multi performs actions in one round trip and returns their results in
// order. The first failed sub-action fails the whole call.
func (c *Client) Multi(ctx context.Context, actions []Action) ([]json.RawMessage, error) {
	if len(actions) == 0 {
		return nil, nil
	}
	raw, err := c.Invoke(ctx, Multi{Actions: actions})
	if err != nil {
		return nil, err
	}
	subs, err := decode[[]json.RawMessage]("multi", raw)
	if err != nil {
		return nil, err
	}
	if len(subs) != len(actions) {
		return nil, &APIError{Action: "multi", Message: fmt.Sprintf("got %d results for %d actions", len(subs), len(actions))}
	}

	results := make([]json.RawMessage, len(subs))
	for i, sub := range subs {
		result, err := parse(actions[i].Name(), sub)
		if err != nil {
			return nil, fmt.Errorf("multi action %d: %w", i, err)
		}
		results[i] = result
	}
	return results, nil
}

func (c *Client) post(ctx context.Context, a Action) ([]byte, error) {
	payload, err := json.Marshal(newRequest(a, c.config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("anki: failed to encode %s: %w", a.Name(), err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("anki: failed to build %s request: %w", a.Name(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.config.Logger.Debug("anki request", "action", a.Name(), "bytes", len(payload))
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Action: a.Name(), Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Action: a.Name(), Message: fmt.Sprintf("failed to read response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Action: a.Name(), StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}

	c.config.Logger.Debug("anki response", "action", a.Name(), "status", resp.StatusCode, "duration", time.Since(start))
	return body, nil
}
