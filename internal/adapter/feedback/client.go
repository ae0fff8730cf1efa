package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/stampcard/internal/domain/model"
)

// Sink receives discrete feedback notifications. Delivery is best effort:
// the core never consumes a reply, only the error for logging.
type Sink interface {
	Deliver(ctx context.Context, event model.FeedbackEvent) error
}

// HTTPClient pushes feedback events to an external haptic/push endpoint.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// payload mirrors the JSON body expected by the feedback endpoint.
type payload struct {
	Kind       string    `json:"kind"`
	CardID     int64     `json:"card_id"`
	Stamps     int       `json:"stamps"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewHTTPClient creates HTTP feedback client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feedback url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("feedback url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// Deliver posts one event to the feedback endpoint.
func (c *HTTPClient) Deliver(ctx context.Context, event model.FeedbackEvent) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/feedback")

	body, err := json.Marshal(payload{
		Kind:       string(event.Kind),
		CardID:     event.CardID,
		Stamps:     event.Stamps,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("feedback endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSink records events in the application log. It backs deployments
// without an external feedback endpoint.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink constructs LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Deliver writes the event to the log and always succeeds.
func (s *LogSink) Deliver(_ context.Context, event model.FeedbackEvent) error {
	s.logger.Info("feedback event",
		slog.String("kind", string(event.Kind)),
		slog.Int64("card_id", event.CardID),
		slog.Int("stamps", event.Stamps),
	)
	return nil
}
