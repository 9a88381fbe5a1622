package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/platform/apperr"
)

// JSONStore keeps leads and the activity log in two JSON files. All access
// goes through one mutex and every write replaces the file atomically.
type JSONStore struct {
	mu           sync.Mutex
	leadsPath    string
	activityPath string
	limit        int
	now          func() time.Time
}

// NewJSONStore creates a store. Missing files read as empty collections.
func NewJSONStore(leadsPath, activityPath string, activityLimit int) *JSONStore {
	if activityLimit < 1 {
		activityLimit = DefaultActivityLimit
	}
	return &JSONStore{
		leadsPath:    leadsPath,
		activityPath: activityPath,
		limit:        activityLimit,
		now:          time.Now,
	}
}

// List returns all stored leads in stored order.
func (s *JSONStore) List(_ context.Context) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLeads()
}

// Get returns one lead by id.
func (s *JSONStore) Get(_ context.Context, id string) (domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.readLeads()
	if err != nil {
		return domain.Lead{}, err
	}
	for _, lead := range leads {
		if lead.ID == id {
			return lead, nil
		}
	}
	return domain.Lead{}, apperr.NotFound("lead " + id + " not found").WithOp("repository.Get")
}

// SaveAll replaces the stored leads.
func (s *JSONStore) SaveAll(_ context.Context, leads []domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLeads(leads)
}

// ReplaceAll runs replace on the stored leads and writes its result while
// holding the store lock, so no other write can land between the two.
func (s *JSONStore) ReplaceAll(_ context.Context, replace func([]domain.Lead) []domain.Lead) ([]domain.Lead, []domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.readLeads()
	if err != nil {
		return nil, nil, err
	}
	after := replace(append([]domain.Lead(nil), before...))
	if err := s.writeLeads(after); err != nil {
		return nil, nil, err
	}
	if after == nil {
		after = []domain.Lead{}
	}
	return before, after, nil
}

// Upsert merges leads by id.
func (s *JSONStore) Upsert(_ context.Context, incoming []domain.Lead) (UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.readLeads()
	if err != nil {
		return UpsertResult{}, err
	}
	merged, result := mergeLeads(leads, incoming)
	if err := s.writeLeads(merged); err != nil {
		return UpsertResult{}, err
	}
	return result, nil
}

// Update applies mutate to the lead with id. The lead id cannot be changed.
func (s *JSONStore) Update(_ context.Context, id string, mutate func(domain.Lead) (domain.Lead, error)) (domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.readLeads()
	if err != nil {
		return domain.Lead{}, err
	}
	for i, lead := range leads {
		if lead.ID != id {
			continue
		}
		updated, err := mutate(lead)
		if err != nil {
			return domain.Lead{}, err
		}
		updated.ID = lead.ID
		leads[i] = updated
		if err := s.writeLeads(leads); err != nil {
			return domain.Lead{}, err
		}
		return updated, nil
	}
	return domain.Lead{}, apperr.NotFound("lead " + id + " not found").WithOp("repository.Update")
}

// Append adds an entry at the head of the log and evicts the oldest past the limit.
func (s *JSONStore) Append(_ context.Context, entry ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []ActivityEntry
	if err := readJSON(s.activityPath, &entries); err != nil {
		return apperr.Wrap(apperr.KindInternal, "read activity log", err).WithOp("repository.Append")
	}

	entries = append([]ActivityEntry{fillDefaults(entry, s.now)}, entries...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	if err := writeJSONAtomic(s.activityPath, entries); err != nil {
		return apperr.Wrap(apperr.KindInternal, "write activity log", err).WithOp("repository.Append")
	}
	return nil
}

// Recent returns the newest entries first.
func (s *JSONStore) Recent(_ context.Context, limit int) ([]ActivityEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []ActivityEntry
	if err := readJSON(s.activityPath, &entries); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "read activity log", err).WithOp("repository.Recent")
	}
	return takeNewest(entries, limit), nil
}

func (s *JSONStore) readLeads() ([]domain.Lead, error) {
	var leads []domain.Lead
	if err := readJSON(s.leadsPath, &leads); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "read leads file", err).WithOp("repository.List")
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return leads, nil
}

func (s *JSONStore) writeLeads(leads []domain.Lead) error {
	if leads == nil {
		leads = []domain.Lead{}
	}
	if err := writeJSONAtomic(s.leadsPath, leads); err != nil {
		return apperr.Wrap(apperr.KindInternal, "write leads file", err).WithOp("repository.SaveAll")
	}
	return nil
}

// mergeLeads keeps existing order, appending unknown leads at the end.
func mergeLeads(existing, incoming []domain.Lead) ([]domain.Lead, UpsertResult) {
	index := make(map[string]int, len(existing))
	merged := append([]domain.Lead(nil), existing...)
	for i, lead := range merged {
		index[lead.ID] = i
	}

	var result UpsertResult
	for _, lead := range incoming {
		if i, ok := index[lead.ID]; ok {
			current := merged[i]
			lead.Score = current.Score
			lead.Status = current.Status
			lead.LastContacted = current.LastContacted
			merged[i] = lead
			result.Updated++
			continue
		}
		index[lead.ID] = len(merged)
		merged = append(merged, lead)
		result.Added++
	}
	return merged, result
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var (
	_ LeadRepository = (*JSONStore)(nil)
	_ ActivityLogger = (*JSONStore)(nil)
)
