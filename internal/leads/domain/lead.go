// Package domain provides core business rules for the leads bounded context.
package domain

import "time"

// Status is the funnel stage of a lead.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusHot       Status = "HOT"
	StatusContacted Status = "CONTACTED"
	StatusConverted Status = "CONVERTED"
	StatusCold      Status = "COLD"
)

// Well-known lead sources. The set is open: unknown sources are valid but
// earn no source bonus.
const (
	SourceLinkedIn  = "LinkedIn"
	SourceInstagram = "Instagram"
	SourceDirectory = "Directory"
)

// Lead is a prospective business contact harvested by the lead generator.
// Score and Status are derived fields; everything else is identity.
type Lead struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Company       string     `json:"company"`
	Source        string     `json:"source"`
	Niche         string     `json:"niche"`
	Contact       string     `json:"contact,omitempty"`
	Score         *int       `json:"score,omitempty"`
	Status        Status     `json:"status"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// IsScored reports whether the lead carries a score.
func (l Lead) IsScored() bool {
	return l.Score != nil
}

// ScoreValue returns the score, or 0 for an unscored lead.
func (l Lead) ScoreValue() int {
	if l.Score == nil {
		return 0
	}
	return *l.Score
}

// WithScore returns a copy of the lead with the given score.
func (l Lead) WithScore(score int) Lead {
	l.Score = &score
	return l
}

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusHot:       {},
	StatusContacted: {},
	StatusConverted: {},
	StatusCold:      {},
}

// IsKnownStatus reports whether status is one of the five funnel stages.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

var knownSources = map[string]struct{}{
	SourceLinkedIn:  {},
	SourceInstagram: {},
	SourceDirectory: {},
}

// IsKnownSource reports whether source is a channel the scoring rules reward.
// Unknown sources are still accepted; they just score nothing.
func IsKnownSource(source string) bool {
	_, ok := knownSources[source]
	return ok
}
