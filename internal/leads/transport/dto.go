// Package transport holds the wire shapes for lead files and their mapping
// onto the domain model.
package transport

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/phone"
	"storefront_backend/platform/sanitize"
	"storefront_backend/platform/validator"
)

// LeadRecord is one lead as it appears in an imported JSON file.
type LeadRecord struct {
	ID            string     `json:"id" validate:"required,max=64"`
	Name          string     `json:"name" validate:"required,min=1,max=200"`
	Role          string     `json:"role" validate:"max=200"`
	Company       string     `json:"company" validate:"max=200"`
	Source        string     `json:"source" validate:"required,lead_source_tag,max=64"`
	Niche         string     `json:"niche" validate:"max=100"`
	Contact       string     `json:"contact,omitempty" validate:"max=200"`
	Score         *int       `json:"score,omitempty" validate:"omitempty,min=0"`
	Status        string     `json:"status,omitempty" validate:"lead_status"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// UpdateStatusRequest moves a lead to another funnel stage.
type UpdateStatusRequest struct {
	LeadID string `json:"leadId" validate:"required"`
	Status string `json:"status" validate:"required,lead_status"`
}

// LeadResponse is the printable view of a lead.
type LeadResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Company       string     `json:"company"`
	Source        string     `json:"source"`
	Niche         string     `json:"niche"`
	Contact       string     `json:"contact,omitempty"`
	Score         *int       `json:"score"`
	Status        string     `json:"status"`
	LastContacted *time.Time `json:"lastContacted,omitempty"`
}

// ScoreResponse reports a single scoring run.
type ScoreResponse struct {
	LeadID  string         `json:"leadId"`
	Name    string         `json:"name"`
	Score   int            `json:"score"`
	Factors map[string]int `json:"factors"`
	Version string         `json:"version"`
}

// DecodeLeadRecords parses a JSON array of lead records.
func DecodeLeadRecords(data []byte) ([]LeadRecord, error) {
	var records []LeadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "lead file is not a JSON array of leads", err).WithOp("transport.DecodeLeadRecords")
	}
	return records, nil
}

// ToDomain validates every record and maps it to a domain lead. A record
// without a status is NEW. Text fields are stripped of markup. Contacts are normalised to E.164 when they parse
// as phone numbers for region.
func ToDomain(val *validator.Validator, records []LeadRecord, region string) ([]domain.Lead, error) {
	leads := make([]domain.Lead, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		if err := val.Struct(rec); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidInput, fmt.Sprintf("lead record %d is invalid", i), err).
				WithOp("transport.ToDomain").
				WithDetails(map[string]any{"index": i, "id": rec.ID})
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, apperr.InvalidInput(fmt.Sprintf("duplicate lead id %q", rec.ID)).WithOp("transport.ToDomain")
		}
		seen[rec.ID] = struct{}{}
		leads = append(leads, rec.toDomain(region))
	}
	return leads, nil
}

func (rec LeadRecord) toDomain(region string) domain.Lead {
	status := domain.Status(rec.Status)
	if status == "" {
		status = domain.StatusNew
	}

	contact := strings.TrimSpace(rec.Contact)
	if contact != "" {
		contact = phone.NormalizeE164In(contact, region)
	}

	return domain.Lead{
		ID:            strings.TrimSpace(rec.ID),
		Name:          sanitize.Text(rec.Name),
		Role:          sanitize.Text(rec.Role),
		Company:       sanitize.Text(rec.Company),
		Source:        rec.Source,
		Niche:         sanitize.Text(rec.Niche),
		Contact:       contact,
		Score:         rec.Score,
		Status:        status,
		LastContacted: rec.LastContacted,
	}
}

// ToLeadResponse maps a domain lead for output.
func ToLeadResponse(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:            lead.ID,
		Name:          lead.Name,
		Role:          lead.Role,
		Company:       lead.Company,
		Source:        lead.Source,
		Niche:         lead.Niche,
		Contact:       lead.Contact,
		Score:         lead.Score,
		Status:        string(lead.Status),
		LastContacted: lead.LastContacted,
	}
}

// ToLeadResponses maps a slice of leads.
func ToLeadResponses(leads []domain.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = ToLeadResponse(lead)
	}
	return out
}
