// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"storefront_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadPromoted is published when the funnel moves a NEW lead to HOT.
type LeadPromoted struct {
	BaseEvent
	LeadID  string `json:"leadId"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Score   int    `json:"score"`
}

func (e LeadPromoted) EventName() string { return "leads.lead.promoted" }

// LeadStatusChanged is published when an operator moves a lead manually.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    string `json:"leadId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// FunnelAnalyzed is published after a funnel run has been persisted.
type FunnelAnalyzed struct {
	BaseEvent
	Total        int      `json:"total"`
	Promoted     []string `json:"promoted"`
	AverageScore float64  `json:"averageScore"`
}

func (e FunnelAnalyzed) EventName() string { return "leads.funnel.analyzed" }
