// Package remote submits session results to an optional HTTP sink.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/verte-zerg/blip/internal/model"
)

// Sink posts completed-session summaries to a configured endpoint. The
// zero endpoint disables submission entirely; callers treat every failure
// as best-effort.
type Sink struct {
	endpoint string
	player   string
	client   *http.Client
}

// NewSink builds a sink for the configured endpoint. An empty endpoint
// yields a disabled sink.
func NewSink(endpoint, player string) *Sink {
	return &Sink{
		endpoint: endpoint,
		player:   player,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an endpoint is configured.
func (s *Sink) Enabled() bool {
	return s != nil && s.endpoint != ""
}

// Submit posts the summary as JSON. It returns an error for logging only;
// session and campaign state never depend on the outcome.
func (s *Sink) Submit(ctx context.Context, summary model.SessionSummary) error {
	if !s.Enabled() {
		return nil
	}
	payload := struct {
		Player string `json:"player,omitempty"`
		model.SessionSummary
	}{Player: s.player, SessionSummary: summary}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit result: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("result sink returned status %d", resp.StatusCode)
	}
	return nil
}
