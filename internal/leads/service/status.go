package service

import (
	"context"
	"fmt"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/leads/transport"
	"storefront_backend/platform/apperr"
)

// UpdateStatus moves a lead to another funnel stage. Moving to CONTACTED
// stamps LastContacted.
func (s *Service) UpdateStatus(ctx context.Context, req transport.UpdateStatusRequest) (domain.Lead, error) {
	if err := s.val.Struct(req); err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInvalidInput, "invalid status update", err).WithOp("leads.UpdateStatus")
	}

	target := domain.Status(req.Status)
	at := s.now().UTC()
	var previous domain.Status

	updated, err := s.repo.Update(ctx, req.LeadID, func(lead domain.Lead) (domain.Lead, error) {
		if reason := domain.ValidateTransition(lead.Status, target); reason != "" {
			return lead, apperr.Conflict(reason).WithOp("leads.UpdateStatus")
		}
		previous = lead.Status
		lead.Status = target
		if target == domain.StatusContacted {
			lead.LastContacted = &at
		}
		return lead, nil
	})
	if err != nil {
		return domain.Lead{}, err
	}

	if previous == target {
		return updated, nil
	}

	entry := repository.NewActivityEntry(Agent, repository.ActionStatusChanged,
		fmt.Sprintf("Moved %s from %s to %s", updated.Name, previous, target), at)
	entry.LeadID = updated.ID
	s.appendActivity(ctx, entry)

	s.publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEventAt(at),
		LeadID:    updated.ID,
		OldStatus: string(previous),
		NewStatus: string(target),
	})
	return updated, nil
}
