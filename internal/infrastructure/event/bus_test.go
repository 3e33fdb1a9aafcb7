package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lms/backend/internal/domain/catalog"
	"github.com/lms/backend/internal/domain/enrollment"
	"github.com/lms/backend/internal/domain/shared"
)

// recordingHandler captures the events it receives
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	err        error
	panics     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.received = append(h.received, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func activatedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	m, err := enrollment.NewMembership(uuid.New(), uuid.New(), catalog.EntityTypeCourse, uuid.New())
	require.NoError(t, err)
	require.NoError(t, m.ActivateFree(uuid.New(), ""))
	return enrollment.NewMembershipActivatedEvent(m)
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{enrollment.EventTypeMembershipActivated}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), activatedEvent(t))

	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	expired := &recordingHandler{eventTypes: []string{enrollment.EventTypeMembershipExpired}}
	all := &recordingHandler{}
	bus.Subscribe(expired)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), activatedEvent(t)))

	assert.Equal(t, 0, expired.count())
	assert.Equal(t, 1, all.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{err: errors.New("boom")}
	healthy := &recordingHandler{}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), activatedEvent(t))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), activatedEvent(t))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), activatedEvent(t)))
	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), activatedEvent(t)))

	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_ExplicitSubscriptionTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler, enrollment.EventTypeMembershipExpired)

	require.NoError(t, bus.Publish(context.Background(), activatedEvent(t)))
	assert.Equal(t, 0, handler.count())
}
