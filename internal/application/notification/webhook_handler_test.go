package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, envelope Envelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

type shippedEvent struct {
	shared.BaseDomainEvent
	Tracking string `json:"tracking_number"`
}

func TestWebhookHandler_Handle(t *testing.T) {
	orderID := uuid.New()
	ev := &shippedEvent{BaseDomainEvent: shared.NewBaseDomainEvent("OrderShipped", "Order", orderID), Tracking: "1Z999"}

	t.Run("posts the envelope", func(t *testing.T) {
		sender := new(MockSender)
		h := NewWebhookHandler(sender, zap.NewNop())
		sender.On("Send", mock.Anything, mock.MatchedBy(func(e Envelope) bool {
			var payload map[string]any
			if err := json.Unmarshal(e.Payload, &payload); err != nil {
				return false
			}
			return e.ID == ev.ID && e.Type == "OrderShipped" && e.AggregateID == orderID && payload["tracking_number"] == "1Z999"
		})).Return(nil)

		require.NoError(t, h.Handle(context.Background(), ev))
		sender.AssertExpectations(t)
	})

	t.Run("delivery failure is not propagated", func(t *testing.T) {
		sender := new(MockSender)
		h := NewWebhookHandler(sender, zap.NewNop())
		sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("502"))

		assert.NoError(t, h.Handle(context.Background(), ev))
	})

	t.Run("subscribes to order and payout events", func(t *testing.T) {
		h := NewWebhookHandler(new(MockSender), zap.NewNop())
		assert.ElementsMatch(t, []string{"OrderPlaced", "OrderShipped", "OrderCancelled", "EscrowReleased"}, h.EventTypes())
	})
}
