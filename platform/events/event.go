// Package events is the in-process event plumbing shared by the storefront
// modules. Event types live with their domain (internal/events); this
// package only knows names, timestamps and handlers.
package events

import (
	"context"
	"time"
)

// Event is anything that can be published. Names are dotted and scoped by
// module, for example "leads.lead.promoted" or "leads.funnel.analyzed".
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to satisfy OccurredAt.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns the stamped time.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// NewBaseEventAt stamps an event with t. Services pass their own clock so a
// funnel run and the events it emits share one timestamp.
func NewBaseEventAt(t time.Time) BaseEvent {
	return BaseEvent{Timestamp: t}
}

// Handler reacts to one published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Publisher is the side services depend on.
type Publisher interface {
	// Publish dispatches asynchronously; handler errors are only logged.
	Publish(ctx context.Context, event Event)
	// PublishSync dispatches and waits, returning the handlers' joined errors.
	PublishSync(ctx context.Context, event Event) error
}

// Subscriber is the side module wiring depends on.
type Subscriber interface {
	// Subscribe registers handler for the name returned by Event.EventName().
	Subscribe(eventName string, handler Handler)
}

// Bus publishes and subscribes.
type Bus interface {
	Publisher
	Subscriber
}

// SubscribeAll registers handler for every name in names.
func SubscribeAll(s Subscriber, handler Handler, names ...string) {
	for _, name := range names {
		s.Subscribe(name, handler)
	}
}
