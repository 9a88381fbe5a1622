// Package service orchestrates the leads funnel: scoring, promotion,
// persistence, activity logging and domain events.
package service

import (
	"context"
	"fmt"
	"time"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/funnel"
	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/leads/scoring"
	"storefront_backend/internal/leads/transport"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Agent is the activity log author for funnel operations.
const Agent = "sales"

// Service is the leads application service.
type Service struct {
	repo     repository.LeadRepository
	activity repository.ActivityLogger
	bus      events.Publisher
	engine   *scoring.Engine
	analyzer *funnel.Analyzer
	val      *validator.Validator
	region   string
	log      *logger.Logger
	now      func() time.Time
}

// Options carries the optional collaborators of the service.
type Options struct {
	Engine      *scoring.Engine
	PhoneRegion string
	Now         func() time.Time
}

// New creates the leads service. A nil engine uses the built-in rules.
func New(repo repository.LeadRepository, activity repository.ActivityLogger, bus events.Publisher, val *validator.Validator, log *logger.Logger, opts Options) *Service {
	engine := opts.Engine
	if engine == nil {
		engine = scoring.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Discard()
	}
	if val == nil {
		val = validator.New()
	}
	return &Service{
		repo:     repo,
		activity: activity,
		bus:      bus,
		engine:   engine,
		analyzer: funnel.NewAnalyzer(engine),
		val:      val,
		region:   opts.PhoneRegion,
		log:      log,
		now:      now,
	}
}

// FunnelReport describes one funnel run.
type FunnelReport struct {
	Summary  funnel.Summary `json:"summary"`
	Promoted []string       `json:"promoted"`
	Leads    []domain.Lead  `json:"-"`
}

// AnalyzeAndStore scores every stored lead, promotes qualifying NEW leads to
// HOT and persists the result.
func (s *Service) AnalyzeAndStore(ctx context.Context) (FunnelReport, error) {
	log := s.log.WithContext(ctx)

	leads, analyzed, err := s.repo.ReplaceAll(ctx, s.analyzer.Analyze)
	if err != nil {
		log.StoreError("analyze leads", err)
		return FunnelReport{}, err
	}

	promoted := funnel.Promotions(leads, analyzed)
	if promoted == nil {
		promoted = []string{}
	}
	summary := funnel.Summarize(analyzed)
	at := s.now()

	byID := make(map[string]domain.Lead, len(analyzed))
	for _, lead := range analyzed {
		byID[lead.ID] = lead
	}
	for _, id := range promoted {
		lead := byID[id]
		log.LeadPromoted(id, lead.ScoreValue())

		entry := repository.NewActivityEntry(Agent, repository.ActionLeadPromoted,
			fmt.Sprintf("Promoted %s (%s) to HOT with score %d", lead.Name, lead.Company, lead.ScoreValue()), at)
		entry.LeadID = id
		s.appendActivity(ctx, entry)

		s.publish(ctx, events.LeadPromoted{
			BaseEvent: events.NewBaseEventAt(at),
			LeadID:    id,
			Name:      lead.Name,
			Company:   lead.Company,
			Score:     lead.ScoreValue(),
		})
	}

	entry := repository.NewActivityEntry(Agent, repository.ActionFunnelAnalyzed,
		fmt.Sprintf("Analyzed %d leads, promoted %d", summary.Total, len(promoted)), at)
	entry.Metadata = map[string]any{"total": summary.Total, "promoted": len(promoted), "averageScore": summary.AverageScore}
	s.appendActivity(ctx, entry)

	log.FunnelAnalyzed(summary.Total, len(promoted), summary.AverageScore)
	s.publish(ctx, events.FunnelAnalyzed{
		BaseEvent:    events.NewBaseEventAt(at),
		Total:        summary.Total,
		Promoted:     promoted,
		AverageScore: summary.AverageScore,
	})

	return FunnelReport{Summary: summary, Promoted: promoted, Leads: analyzed}, nil
}

// Summary reports the current funnel without re-scoring.
func (s *Service) Summary(ctx context.Context) (funnel.Summary, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return funnel.Summary{}, err
	}
	return funnel.Summarize(leads), nil
}

// List returns the stored leads.
func (s *Service) List(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.List(ctx)
}

// Score explains the score of each lead without touching the store.
func (s *Service) Score(leads []domain.Lead) []transport.ScoreResponse {
	out := make([]transport.ScoreResponse, len(leads))
	for i, lead := range leads {
		res := s.engine.Breakdown(lead)
		out[i] = transport.ScoreResponse{
			LeadID:  lead.ID,
			Name:    lead.Name,
			Score:   res.Score,
			Factors: res.Factors,
			Version: res.Version,
		}
	}
	return out
}

// RecentActivity returns the newest activity entries first.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]repository.ActivityEntry, error) {
	return s.activity.Recent(ctx, limit)
}

// appendActivity records an entry. A failing activity log never fails the
// operation that produced the entry.
func (s *Service) appendActivity(ctx context.Context, entry repository.ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.log.WithContext(ctx).StoreError("append activity", err)
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
