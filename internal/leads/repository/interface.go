package repository

import (
	"context"

	"storefront_backend/internal/leads/domain"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	List(ctx context.Context) ([]domain.Lead, error)
	Get(ctx context.Context, id string) (domain.Lead, error)
}

// LeadWriter provides write operations for lead data.
type LeadWriter interface {
	// SaveAll replaces the stored collection, keeping the given order.
	SaveAll(ctx context.Context, leads []domain.Lead) error
	// Upsert adds unknown leads and refreshes identity fields of known ones,
	// keeping their stored score, status and contact history.
	Upsert(ctx context.Context, leads []domain.Lead) (UpsertResult, error)
	// ReplaceAll reads the collection, hands it to replace and stores the
	// result in one step. It returns the collection before and after.
	ReplaceAll(ctx context.Context, replace func([]domain.Lead) []domain.Lead) (before, after []domain.Lead, err error)
	// Update applies mutate to one lead atomically.
	Update(ctx context.Context, id string, mutate func(domain.Lead) (domain.Lead, error)) (domain.Lead, error)
}

// LeadRepository composes lead reads and writes.
type LeadRepository interface {
	LeadReader
	LeadWriter
}

// ActivityLogger records the agent activity trail. Implementations keep only
// the newest entries up to their retention limit.
type ActivityLogger interface {
	Append(ctx context.Context, entry ActivityEntry) error
	// Recent returns up to limit entries, newest first. limit <= 0 returns all retained.
	Recent(ctx context.Context, limit int) ([]ActivityEntry, error)
}

// UpsertResult counts the effect of an Upsert.
type UpsertResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// DefaultActivityLimit is the retention used when none is configured.
const DefaultActivityLimit = 100
