package messaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

type captureHandler struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (h *captureHandler) Handle(event shared.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *captureHandler) Name() string { return "capture" }

func (h *captureHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

type testEvent struct {
	shared.BaseEvent
}

func (testEvent) Payload() map[string]interface{} { return nil }

func newTestEvent(eventType shared.EventType) testEvent {
	return testEvent{BaseEvent: shared.NewBaseEvent(eventType, "s1")}
}

func syncBus() *InMemoryEventBus {
	cfg := DefaultConfig()
	cfg.Async = false
	return NewInMemoryEventBus(cfg, nil)
}

func TestPublish_DeliversToSubscribers(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	xpHandler := &captureHandler{}
	bus.Subscribe(shared.EventXPGained, xpHandler)

	require.NoError(t, bus.Publish(newTestEvent(shared.EventXPGained)))
	require.NoError(t, bus.Publish(newTestEvent(shared.EventLevelUp)))

	assert.Equal(t, 1, xpHandler.count())
	assert.Equal(t, shared.EventXPGained, xpHandler.events[0].EventType())
}

func TestPublish_SubscribeAllReceivesEverything(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	all := &captureHandler{}
	bus.SubscribeAll(all)

	require.NoError(t, bus.Publish(newTestEvent(shared.EventXPGained)))
	require.NoError(t, bus.Publish(newTestEvent(shared.EventBadgeUnlocked)))

	assert.Equal(t, 2, all.count())
}

func TestPublish_HandlerErrorIsSwallowed(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	failing := &captureHandler{err: errors.New("boom")}
	bus.Subscribe(shared.EventXPGained, failing)

	assert.NoError(t, bus.Publish(newTestEvent(shared.EventXPGained)))
	assert.Equal(t, 1, failing.count())
}

func TestPublish_NilEvent(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	assert.NoError(t, bus.Publish(nil))
}

func TestPublish_AfterCloseDispatchesInline(t *testing.T) {
	cfg := DefaultConfig()
	bus := NewInMemoryEventBus(cfg, nil)

	handler := &captureHandler{}
	bus.Subscribe(shared.EventXPGained, handler)

	bus.Close()

	require.NoError(t, bus.Publish(newTestEvent(shared.EventXPGained)))
	assert.Equal(t, 1, handler.count())
}
