package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	block      chan struct{}
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish_Synchronous(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	event := newTestEvent("OrderPlaced")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Equal(t, 1, handler.count())
	assert.Equal(t, event, handler.handled[0])
}

func TestInMemoryEventBus_Publish_Routing(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	placed := newTestHandler("OrderPlaced")
	released := newTestHandler("EscrowReleased")
	audit := newTestHandler()
	bus.Subscribe(placed)
	bus.Subscribe(released)
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("OrderPlaced"),
		newTestEvent("OrderPlaced"),
		newTestEvent("ProductApproved"),
	))

	assert.Equal(t, 2, placed.count())
	assert.Equal(t, 0, released.count())
	assert.Equal(t, 3, audit.count())
}

func TestInMemoryEventBus_Subscribe_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler, "OrderCancelled")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("OrderCancelled")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := newTestHandler("OrderPlaced")
	failing.err = errors.New("webhook down")
	panicking := newTestHandler("OrderPlaced")
	panicking.panicWith = "boom"
	healthy := newTestHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Publish_IgnoresNil(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), nil, newTestEvent("UserRegistered")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Publish_DetachesCancellation(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	var seen context.Context
	handler := &ctxHandler{fn: func(ctx context.Context) { seen = ctx }}
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(shared.WithActor(context.Background(), shared.Actor{UserID: uuid.New()}))
	cancel()
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))

	require.NotNil(t, seen)
	assert.NoError(t, seen.Err())
	assert.False(t, shared.ActorFromContext(seen).IsZero())
}

type ctxHandler struct {
	fn func(ctx context.Context)
}

func (h *ctxHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.fn(ctx)
	return nil
}

func (h *ctxHandler) EventTypes() []string { return nil }

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
	require.Equal(t, 1, handler.count())

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
	assert.Equal(t, 1, handler.count())
	assert.Zero(t, bus.HandlerCount())
}

func TestInMemoryEventBus_Async(t *testing.T) {
	t.Run("workers handle queued events and Stop drains the queue", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithWorkers(2), WithQueueSize(16))
		handler := newTestHandler("OrderPlaced")
		bus.Subscribe(handler)

		require.NoError(t, bus.Start(context.Background()))
		for i := 0; i < 10; i++ {
			require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, bus.Stop(ctx))
		assert.Equal(t, 10, handler.count())
	})

	t.Run("full queue falls back to synchronous dispatch", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithWorkers(1), WithQueueSize(1))
		slow := newTestHandler("Slow")
		slow.block = make(chan struct{})
		fast := newTestHandler("Fast")
		bus.Subscribe(slow)
		bus.Subscribe(fast)
		require.NoError(t, bus.Start(context.Background()))

		// first occupies the worker, second fills the queue
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("Slow")))
		assert.Eventually(t, func() bool { return len(bus.queue) == 0 }, time.Second, 5*time.Millisecond)
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("Slow")))

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("Fast")))
		assert.Equal(t, 1, fast.count())

		close(slow.block)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, bus.Stop(ctx))
		assert.Equal(t, 2, slow.count())
	})

	t.Run("Start and Stop are idempotent", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		require.NoError(t, bus.Start(context.Background()))
		require.NoError(t, bus.Start(context.Background()))
		require.NoError(t, bus.Stop(context.Background()))
		require.NoError(t, bus.Stop(context.Background()))

		handler := newTestHandler()
		bus.Subscribe(handler)
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("UserRegistered")))
		assert.Equal(t, 1, handler.count())
	})

	t.Run("Stop honours the deadline", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop(), WithWorkers(1))
		stuck := newTestHandler("Stuck")
		stuck.block = make(chan struct{})
		defer close(stuck.block)
		bus.Subscribe(stuck)
		require.NoError(t, bus.Start(context.Background()))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("Stuck")))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := bus.Stop(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
