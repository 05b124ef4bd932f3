// Package messaging provides the in-process event bus wiring domain
// events to their handlers. Publishing never fails the caller: handler
// errors are logged and swallowed so the write path stays fast.
package messaging

import (
	"log/slog"
	"sync"
	"time"

	"github.com/orbita-academy/progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// Config configures the event bus.
type Config struct {
	// Async dispatches handlers on a worker pool instead of inline.
	Async bool

	// Workers is the worker pool size when Async is enabled.
	Workers int

	// QueueSize bounds the pending-dispatch queue. When full, Publish
	// falls back to synchronous dispatch for that event.
	QueueSize int

	// HandlerTimeout bounds a single handler invocation.
	HandlerTimeout time.Duration
}

// DefaultConfig returns sensible event bus defaults.
func DefaultConfig() Config {
	return Config{
		Async:          true,
		Workers:        4,
		QueueSize:      256,
		HandlerTimeout: 5 * time.Second,
	}
}

type dispatch struct {
	handler shared.EventHandler
	event   shared.Event
}

// InMemoryEventBus fans out domain events to registered handlers.
// Handlers can subscribe to a specific event type or to all events.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler

	cfg    Config
	logger *slog.Logger

	queue  chan dispatch
	wg     sync.WaitGroup
	closed bool
}

// NewInMemoryEventBus creates the bus and starts its worker pool.
func NewInMemoryEventBus(cfg Config, logger *slog.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 5 * time.Second
	}

	bus := &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		cfg:      cfg,
		logger:   logger,
	}

	if cfg.Async {
		bus.queue = make(chan dispatch, cfg.QueueSize)
		for i := 0; i < cfg.Workers; i++ {
			bus.wg.Add(1)
			go bus.worker()
		}
	}

	return bus
}

// Subscribe registers a handler for a single event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler that receives every published event.
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish delivers an event to all matching handlers. It implements
// shared.EventPublisher and never returns a handler error.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return nil
	}
	b.publishOne(event)
	return nil
}

func (b *InMemoryEventBus) publishOne(event shared.Event) {
	b.mu.RLock()
	matched := make([]shared.EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	matched = append(matched, b.handlers[event.EventType()]...)
	matched = append(matched, b.allHandlers...)
	closed := b.closed
	b.mu.RUnlock()

	if len(matched) == 0 {
		b.logger.Debug("event published with no handlers",
			"event_type", string(event.EventType()),
			"aggregate_id", event.AggregateID(),
		)
		return
	}

	for _, handler := range matched {
		if b.cfg.Async && !closed {
			select {
			case b.queue <- dispatch{handler: handler, event: event}:
				continue
			default:
				// Queue is full. Degrade to inline dispatch rather
				// than dropping the event.
			}
		}
		b.execute(handler, event)
	}
}

func (b *InMemoryEventBus) worker() {
	defer b.wg.Done()
	for d := range b.queue {
		b.execute(d.handler, d.event)
	}
}

func (b *InMemoryEventBus) execute(handler shared.EventHandler, event shared.Event) {
	done := make(chan error, 1)
	start := time.Now()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("event handler panicked",
					"handler", handler.Name(),
					"event_type", string(event.EventType()),
					"panic", r,
				)
				done <- nil
			}
		}()
		done <- handler.Handle(event)
	}()

	select {
	case err := <-done:
		if err != nil {
			b.logger.Error("event handler failed",
				"handler", handler.Name(),
				"event_type", string(event.EventType()),
				"aggregate_id", event.AggregateID(),
				"error", err,
			)
		}
	case <-time.After(b.cfg.HandlerTimeout):
		b.logger.Warn("event handler timed out",
			"handler", handler.Name(),
			"event_type", string(event.EventType()),
			"elapsed", time.Since(start).String(),
		)
	}
}

// Close drains the dispatch queue and stops the worker pool.
// Publish calls after Close dispatch synchronously.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if b.queue != nil {
		close(b.queue)
		b.wg.Wait()
	}
}
