package repository

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SummaryMaxLen is the maximum character length for activity summaries.
const SummaryMaxLen = 400

// Activity actions written by the leads service.
const (
	ActionFunnelAnalyzed = "funnel_analyzed"
	ActionLeadPromoted   = "lead_promoted"
	ActionLeadsImported  = "leads_imported"
	ActionLeadsGenerated = "leads_generated"
	ActionStatusChanged  = "status_changed"
)

// ActivityEntry is one line of the agent activity log.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Agent     string         `json:"agent"`
	Action    string         `json:"action"`
	LeadID    string         `json:"leadId,omitempty"`
	Summary   string         `json:"summary"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewActivityEntry creates an entry with a fresh id.
func NewActivityEntry(agent, action, summary string, at time.Time) ActivityEntry {
	return ActivityEntry{
		ID:        uuid.NewString(),
		Agent:     agent,
		Action:    action,
		Summary:   TruncateSummary(summary, SummaryMaxLen),
		CreatedAt: at.UTC(),
	}
}

// TruncateSummary trims text to maxLen runes, appending "..." on overflow.
func TruncateSummary(text string, maxLen int) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return trimmed
}

// fillDefaults gives the entry an id and timestamp when missing.
func fillDefaults(entry ActivityEntry, now func() time.Time) ActivityEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now().UTC()
	}
	entry.Summary = TruncateSummary(entry.Summary, SummaryMaxLen)
	return entry
}

func takeNewest(entries []ActivityEntry, limit int) []ActivityEntry {
	if limit <= 0 || limit >= len(entries) {
		return append([]ActivityEntry(nil), entries...)
	}
	return append([]ActivityEntry(nil), entries[:limit]...)
}
