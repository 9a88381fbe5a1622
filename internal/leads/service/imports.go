package service

import (
	"context"
	"fmt"
	"os"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/generator"
	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/leads/transport"
	"storefront_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

// maxParallelReads bounds concurrent lead file reads.
const maxParallelReads = 8

// LoadFiles reads and validates lead files concurrently. Leads are returned
// in argument order, then file order.
func (s *Service) LoadFiles(ctx context.Context, paths []string) ([]domain.Lead, error) {
	batches := make([][]domain.Lead, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			leads, err := s.loadFile(path)
			if err != nil {
				return err
			}
			batches[i] = leads
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Lead
	seen := map[string]string{}
	for i, batch := range batches {
		for _, lead := range batch {
			if prev, dup := seen[lead.ID]; dup {
				return nil, apperr.InvalidInput(fmt.Sprintf("lead %q appears in both %s and %s", lead.ID, prev, paths[i])).WithOp("leads.LoadFiles")
			}
			seen[lead.ID] = paths[i]
			all = append(all, lead)
		}
	}
	return all, nil
}

func (s *Service) loadFile(path string) ([]domain.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFound("lead file " + path + " does not exist").WithOp("leads.LoadFiles")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "read lead file "+path, err).WithOp("leads.LoadFiles")
	}

	records, err := transport.DecodeLeadRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	leads, err := transport.ToDomain(s.val, records, s.region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return leads, nil
}

// Import merges leads into the store. Stored scores and statuses survive
// re-imports of the same lead.
func (s *Service) Import(ctx context.Context, leads []domain.Lead) (repository.UpsertResult, error) {
	res, err := s.repo.Upsert(ctx, leads)
	if err != nil {
		s.log.WithContext(ctx).StoreError("import leads", err)
		return repository.UpsertResult{}, err
	}

	entry := repository.NewActivityEntry(Agent, repository.ActionLeadsImported,
		fmt.Sprintf("Imported %d leads (%d new, %d updated)", len(leads), res.Added, res.Updated), s.now())
	entry.Metadata = map[string]any{"added": res.Added, "updated": res.Updated}
	s.appendActivity(ctx, entry)
	return res, nil
}

// ImportFiles loads lead files and merges them into the store.
func (s *Service) ImportFiles(ctx context.Context, paths []string) (repository.UpsertResult, error) {
	leads, err := s.LoadFiles(ctx, paths)
	if err != nil {
		return repository.UpsertResult{}, err
	}
	return s.Import(ctx, leads)
}

// Generate harvests count mock leads from seed and stores them.
func (s *Service) Generate(ctx context.Context, count int, seed uint64) ([]domain.Lead, error) {
	if count < 1 || count > generator.MaxCount {
		return nil, apperr.InvalidInput(fmt.Sprintf("count must be between 1 and %d", generator.MaxCount)).WithOp("leads.Generate")
	}

	leads := generator.New(seed).Generate(count)
	if _, err := s.repo.Upsert(ctx, leads); err != nil {
		s.log.WithContext(ctx).StoreError("store generated leads", err)
		return nil, err
	}

	entry := repository.NewActivityEntry(Agent, repository.ActionLeadsGenerated,
		fmt.Sprintf("Generated %d mock leads", len(leads)), s.now())
	entry.Metadata = map[string]any{"seed": seed}
	s.appendActivity(ctx, entry)
	return leads, nil
}
