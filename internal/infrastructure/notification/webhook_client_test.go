package notification

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	appnotification "github.com/atelier/marketplace/internal/application/notification"
	"github.com/atelier/marketplace/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testEnvelope() appnotification.Envelope {
	return appnotification.Envelope{
		ID:          uuid.New(),
		Type:        "OrderPlaced",
		OccurredAt:  time.Now(),
		AggregateID: uuid.New(),
		Payload:     []byte(`{"total":"221.00"}`),
	}
}

func TestNewWebhookClient_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewWebhookClient(config.NotificationConfig{}, zap.NewNop()))
}

func TestWebhookClient_Send(t *testing.T) {
	t.Run("signs the body", func(t *testing.T) {
		var gotSig, gotEvent string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSig = r.Header.Get(signatureHeader)
			gotEvent = r.Header.Get("X-Atelier-Event")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewWebhookClient(config.NotificationConfig{WebhookURL: srv.URL, WebhookSecret: "s3cret"}, zap.NewNop())
		require.NoError(t, c.Send(context.Background(), testEnvelope()))

		assert.Equal(t, "OrderPlaced", gotEvent)
		assert.Equal(t, Sign("s3cret", gotBody), gotSig)
		assert.Contains(t, string(gotBody), `"payload":{"total":"221.00"}`)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewWebhookClient(config.NotificationConfig{WebhookURL: srv.URL, RetryCount: 3, RetryWait: time.Millisecond}, zap.NewNop())
		require.NoError(t, c.Send(context.Background(), testEnvelope()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewWebhookClient(config.NotificationConfig{WebhookURL: srv.URL, RetryCount: 2, RetryWait: time.Millisecond}, zap.NewNop())
		err := c.Send(context.Background(), testEnvelope())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewWebhookClient(config.NotificationConfig{WebhookURL: srv.URL, RetryCount: 2, RetryWait: time.Millisecond}, zap.NewNop())
		assert.Error(t, c.Send(context.Background(), testEnvelope()))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
