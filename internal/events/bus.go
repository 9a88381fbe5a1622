package events

import (
	"context"

	platformevents "storefront_backend/platform/events"
	"storefront_backend/platform/logger"
)

// InMemoryBus is the platform bus used by both binaries.
type InMemoryBus = platformevents.InMemoryBus

// Names lists every storefront event, in the order they appear in a funnel
// run's life: promotions, the run itself, then manual status changes.
var Names = []string{
	LeadPromoted{}.EventName(),
	FunnelAnalyzed{}.EventName(),
	LeadStatusChanged{}.EventName(),
}

// NewInMemoryBus creates a bus with a debug trail of every storefront event.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	bus := platformevents.NewInMemoryBus(log)
	if log == nil {
		return bus
	}
	platformevents.SubscribeAll(bus, platformevents.HandlerFunc(func(ctx context.Context, event Event) error {
		log.WithContext(ctx).Debug("storefront event", "event", event.EventName(), "occurredAt", event.OccurredAt())
		return nil
	}), Names...)
	return bus
}
