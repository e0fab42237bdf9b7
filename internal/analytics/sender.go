package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Sender delivers a batch of events for one client to the collector.
type Sender interface {
	Send(ctx context.Context, clientID string, events []Event) error
}

// HTTPSender posts events in the Measurement Protocol JSON shape.
type HTTPSender struct {
	client        *http.Client
	endpoint      string
	measurementID string
	apiSecret     string
}

// NewHTTPSender creates a sender for endpoint. A nil client uses
// http.DefaultClient; callers bound each send with a context deadline.
func NewHTTPSender(client *http.Client, endpoint, measurementID, apiSecret string) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{
		client:        client,
		endpoint:      endpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
	}
}

type collectPayload struct {
	ClientID string  `json:"client_id"`
	Events   []Event `json:"events"`
}

// Send posts the events. Any non-2xx status is an error.
func (s *HTTPSender) Send(ctx context.Context, clientID string, events []Event) error {
	body, err := json.Marshal(collectPayload{ClientID: clientID, Events: events})
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	if s.measurementID != "" {
		q.Set("measurement_id", s.measurementID)
	}
	if s.apiSecret != "" {
		q.Set("api_secret", s.apiSecret)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post events: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}
