package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/papermart/papermart/internal/domain/model"
)

// Dispatcher delivers a notification to a recipient. Delivery is
// best-effort: callers log failures and move on.
type Dispatcher interface {
	Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]string) error
}

// HTTPDispatcher posts notifications to an external mailer service.
type HTTPDispatcher struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type message struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Payload   map[string]string `json:"payload,omitempty"`
}

// NewHTTPDispatcher creates an HTTP dispatcher with default timeout.
func NewHTTPDispatcher(baseURL string, logger *slog.Logger) (*HTTPDispatcher, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notifier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notifier url must be absolute")
	}
	return &HTTPDispatcher{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Notify posts a single notification message to the mailer.
func (d *HTTPDispatcher) Notify(ctx context.Context, kind model.NotificationKind, recipient string, payload map[string]string) error {
	endpoint := *d.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	body, err := json.Marshal(message{
		ID:        uuid.NewString(),
		Kind:      string(kind),
		Recipient: recipient,
		Payload:   payload,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		d.logger.Error("notifier request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return fmt.Errorf("notifier error: %s", resp.Status)
	}

	return nil
}

// NopDispatcher drops notifications; used when no mailer is configured.
type NopDispatcher struct {
	logger *slog.Logger
}

// NewNopDispatcher builds a dispatcher that only logs.
func NewNopDispatcher(logger *slog.Logger) *NopDispatcher {
	return &NopDispatcher{logger: logger}
}

// Notify logs the would-be notification and succeeds.
func (d *NopDispatcher) Notify(_ context.Context, kind model.NotificationKind, recipient string, _ map[string]string) error {
	d.logger.Debug("notification skipped", slog.String("kind", string(kind)), slog.String("recipient", recipient))
	return nil
}
