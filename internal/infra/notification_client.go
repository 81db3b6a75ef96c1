package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"order-desk/internal/domain"

	"go.uber.org/zap"
)

const notifyAttempts = 3

// ConfirmationMessage is the body posted for a confirmed order.
type ConfirmationMessage struct {
	ID        uint64 `json:"id"`
	Cost      string `json:"cost"`
	ConfirmDT string `json:"confirm_dt"`
}

func BuildConfirmationMessage(order *domain.Order) ConfirmationMessage {
	msg := ConfirmationMessage{
		ID:   order.ID,
		Cost: order.TotalCost.StringFixed(2),
	}
	if order.ConfirmedDate != nil {
		msg.ConfirmDT = order.ConfirmedDate.UTC().Format(time.RFC3339)
	}
	return msg
}

type NotificationClient struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewNotificationClient(url string, timeout time.Duration, logger *zap.Logger) *NotificationClient {
	return &NotificationClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// NotifyConfirmed posts the order to the external endpoint. Transport errors
// are retried up to three attempts in total; any response ends the loop and
// only 200-209 counts as success.
func (c *NotificationClient) NotifyConfirmed(ctx context.Context, order *domain.Order) bool {
	body, err := json.Marshal(BuildConfirmationMessage(order))
	if err != nil {
		c.logger.Error("notification payload", zap.Uint64("order_id", order.ID), zap.Error(err))
		return false
	}

	for attempt := 1; attempt <= notifyAttempts; attempt++ {
		status, err := c.post(ctx, body)
		if err != nil {
			c.logger.Warn("notification request failed",
				zap.Uint64("order_id", order.ID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		c.logger.Info("notification sent", zap.Uint64("order_id", order.ID), zap.Int("status", status))
		return isSuccess(status)
	}
	return false
}

func (c *NotificationClient) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// isSuccess matches status codes of the form 20x.
func isSuccess(status int) bool {
	return status >= 200 && status <= 209
}
