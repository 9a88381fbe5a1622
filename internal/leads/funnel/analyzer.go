// Package funnel applies lead scoring across a collection of leads and
// promotes NEW leads that cross the HOT threshold.
package funnel

import (
	"sort"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/scoring"
)

// HotThreshold is the score a NEW lead must exceed to be promoted to HOT.
const HotThreshold = 50

// Scorer scores a single lead.
type Scorer interface {
	Score(lead domain.Lead) int
}

// Analyzer scores leads and applies the NEW -> HOT promotion.
type Analyzer struct {
	scorer    Scorer
	threshold int
}

// NewAnalyzer creates an analyzer. A nil scorer uses the built-in rules.
func NewAnalyzer(scorer Scorer) *Analyzer {
	if scorer == nil {
		scorer = scoring.Default()
	}
	return &Analyzer{scorer: scorer, threshold: HotThreshold}
}

// AnalyzeFunnel scores leads with the built-in rules.
func AnalyzeFunnel(leads []domain.Lead) []domain.Lead {
	return NewAnalyzer(nil).Analyze(leads)
}

// Analyze returns a scored copy of every lead in input order. The input
// slice is not modified. Only NEW leads are promoted; every other status is
// re-scored and left as is.
func (a *Analyzer) Analyze(leads []domain.Lead) []domain.Lead {
	out := make([]domain.Lead, len(leads))
	for i, lead := range leads {
		score := a.scorer.Score(lead)
		scored := lead.WithScore(score)
		if score > a.threshold && scored.Status == domain.StatusNew {
			scored.Status = domain.StatusHot
		}
		out[i] = scored
	}
	return out
}

// Promotions lists the ids of leads that were NEW in before and HOT in after.
// Both slices must come from the same Analyze call (same length and order).
func Promotions(before, after []domain.Lead) []string {
	var ids []string
	for i := range before {
		if i >= len(after) {
			break
		}
		if before[i].Status == domain.StatusNew && after[i].Status == domain.StatusHot {
			ids = append(ids, after[i].ID)
		}
	}
	return ids
}

// Summary aggregates a funnel snapshot.
type Summary struct {
	Total        int                   `json:"total"`
	ByStatus     map[domain.Status]int `json:"byStatus"`
	AverageScore float64               `json:"averageScore"`
	HotLeadIDs   []string              `json:"hotLeadIds"`
}

// Summarize counts leads per status and averages the scores of scored leads.
func Summarize(leads []domain.Lead) Summary {
	summary := Summary{
		Total:      len(leads),
		ByStatus:   map[domain.Status]int{},
		HotLeadIDs: []string{},
	}

	scored, sum := 0, 0
	for _, lead := range leads {
		summary.ByStatus[lead.Status]++
		if lead.IsScored() {
			scored++
			sum += lead.ScoreValue()
		}
		if lead.Status == domain.StatusHot {
			summary.HotLeadIDs = append(summary.HotLeadIDs, lead.ID)
		}
	}
	if scored > 0 {
		summary.AverageScore = float64(sum) / float64(scored)
	}
	sort.Strings(summary.HotLeadIDs)
	return summary
}
