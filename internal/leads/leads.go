// Package leads provides lead management functionality.
// This file defines the public API of the leads bounded context.
// Only types and interfaces defined here should be imported by other domains.
package leads

import (
	"context"

	"storefront_backend/internal/leads/service"
)

// FunnelRunner runs the scheduled funnel analysis. The scheduler depends on
// this interface, not on the concrete service.
type FunnelRunner interface {
	AnalyzeAndStore(ctx context.Context) (service.FunnelReport, error)
}

var _ FunnelRunner = (*service.Service)(nil)
