// Package notification delivers outbound webhooks.
package notification

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appnotification "github.com/atelier/marketplace/internal/application/notification"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const signatureHeader = "X-Atelier-Signature"

var _ appnotification.Sender = (*WebhookClient)(nil)

// WebhookClient posts envelopes with bounded retries on transport errors,
// 429 and 5xx responses.
type WebhookClient struct {
	client *resty.Client
	url    string
	secret string
	logger *zap.Logger
}

// NewWebhookClient returns nil when no URL is configured
func NewWebhookClient(cfg config.NotificationConfig, logger *zap.Logger) *WebhookClient {
	if cfg.WebhookURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = 500 * time.Millisecond
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(8*retryWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "atelier-marketplace-webhook/1").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &WebhookClient{
		client: client,
		url:    cfg.WebhookURL,
		secret: cfg.WebhookSecret,
		logger: logger,
	}
}

// Send posts the envelope; a non-2xx final response is an error
func (c *WebhookClient) Send(ctx context.Context, envelope appnotification.Envelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("X-Atelier-Event", envelope.Type).
		SetHeader("X-Atelier-Delivery", envelope.ID.String()).
		SetBody(body)
	if c.secret != "" {
		req.SetHeader(signatureHeader, Sign(c.secret, body))
	}

	resp, err := req.Post(c.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook post: unexpected status %d", resp.StatusCode())
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body keyed with secret, prefixed "sha256="
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
