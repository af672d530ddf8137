package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

// BridgeClient talks to the local notification bridge daemon, the process
// that owns the platform's alert registration on this device.
type BridgeClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewBridgeClient(baseURL string, maxRetries int) *BridgeClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &BridgeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

type bridgeNotification struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	FireAt  time.Time `json:"fire_at"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Channel string    `json:"channel"`
}

type bridgePendingResponse struct {
	Notifications []bridgeNotification `json:"notifications"`
}

type bridgeCancelRequest struct {
	IDs []string `json:"ids"`
}

func (c *BridgeClient) EnumeratePending(ctx context.Context) ([]domain.PendingNotification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/notifications/pending", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending notifications: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded bridgePendingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode pending response: %w", err)
	}

	pending := make([]domain.PendingNotification, 0, len(decoded.Notifications))
	for _, n := range decoded.Notifications {
		pending = append(pending, domain.PendingNotification{
			ID:     n.ID,
			Kind:   domain.Kind(n.Kind),
			FireAt: n.FireAt,
			Body:   n.Body,
		})
	}

	return pending, nil
}

// Register upserts one scheduled notification with the bridge, retrying
// transient failures with exponential backoff.
func (c *BridgeClient) Register(ctx context.Context, notification *domain.ScheduledNotification) error {
	if notification == nil {
		return ErrNilNotification
	}

	payload, err := json.Marshal(bridgeNotification{
		ID:      notification.ID,
		Kind:    notification.Kind.String(),
		FireAt:  notification.FireAt,
		Title:   notification.Title,
		Body:    notification.Body,
		Channel: notification.Channel,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification registration",
				slog.String("notification_id", notification.ID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.post(ctx, "/notifications", payload); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to register notification %s after %d attempts: %w",
		notification.ID, c.maxRetries, lastErr)
}

func (c *BridgeClient) CancelByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	payload, err := json.Marshal(bridgeCancelRequest{IDs: ids})
	if err != nil {
		return fmt.Errorf("failed to marshal cancel request: %w", err)
	}

	if err := c.post(ctx, "/notifications/cancel", payload); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	return nil
}

func (c *BridgeClient) CancelAll(ctx context.Context) error {
	if err := c.post(ctx, "/notifications/clear", []byte("{}")); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func (c *BridgeClient) post(ctx context.Context, path string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
