package events

import (
	"context"
	"errors"
	"sync"

	"storefront_backend/platform/logger"
)

// InMemoryBus dispatches events to handlers registered in this process.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	if log == nil {
		log = logger.Discard()
	}
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for eventName.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *InMemoryBus) handlersFor(name string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[name]...)
}

// Publish runs every handler in its own goroutine. Handler errors are logged.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	for _, h := range b.handlersFor(event.EventName()) {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			if err := h.Handle(context.WithoutCancel(ctx), event); err != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}(h)
	}
}

// PublishSync runs handlers in registration order and joins their errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, h := range b.handlersFor(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until handlers started by Publish have returned.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}

var _ Bus = (*InMemoryBus)(nil)
