package events

import (
	"context"
	"errors"
	"sync"

	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
)

// InMemoryBus is a process-local Bus implementation. Handlers registered for
// an event name are invoked in registration order. Publish detaches from the
// caller's context so that slow handlers cannot block or fail the mutation
// that triggered them.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish invokes all handlers for the event in a background goroutine.
// Handler errors are logged and swallowed.
func (b *InMemoryBus) Publish(_ context.Context, event Event) {
	handlers := b.handlersFor(event.EventName())
	if len(handlers) == 0 {
		return
	}

	go func() {
		ctx := context.Background()
		for _, h := range handlers {
			if err := h.Handle(ctx, event); err != nil && b.log != nil {
				b.log.Warn("event handler failed",
					"event", event.EventName(),
					"error", err,
				)
			}
		}
	}()
}

// PublishSync invokes all handlers inline and joins their errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, h := range b.handlersFor(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.handlers[eventName]
	handlers := make([]Handler, len(registered))
	copy(handlers, registered)
	return handlers
}

var _ Bus = (*InMemoryBus)(nil)
