package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads/domain"
	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/leads/transport"
	"storefront_backend/platform/apperr"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) named(name string) []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []events.Event
	for _, e := range b.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(t *testing.T) (*Service, *repository.JSONStore, *recordingBus) {
	t.Helper()
	dir := t.TempDir()
	store := repository.NewJSONStore(filepath.Join(dir, "leads.json"), filepath.Join(dir, "activity.json"), 100)
	bus := &recordingBus{}
	svc := New(store, store, bus, nil, nil, Options{PhoneRegion: "IN", Now: func() time.Time { return fixedNow }})
	return svc, store, bus
}

func seedLeads() []domain.Lead {
	return []domain.Lead{
		{ID: "hot", Name: "Asha", Role: "Design Director", Company: "Studio A", Source: "LinkedIn", Niche: "Interior Design", Status: domain.StatusNew},
		{ID: "warm", Name: "Ben", Role: "Owner", Company: "B Co", Source: "Instagram", Niche: "Gardening", Status: domain.StatusNew},
		{ID: "done", Name: "Chitra", Role: "Studio Manager", Company: "C Co", Source: "LinkedIn", Niche: "Interior Design", Status: domain.StatusConverted},
	}
}

func TestAnalyzeAndStorePromotesAndPersists(t *testing.T) {
	svc, store, bus := newTestService(t)
	ctx := context.Background()
	if err := store.SaveAll(ctx, seedLeads()); err != nil {
		t.Fatal(err)
	}

	report, err := svc.AnalyzeAndStore(ctx)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if len(report.Promoted) != 1 || report.Promoted[0] != "hot" {
		t.Fatalf("expected only hot promoted, got %v", report.Promoted)
	}
	if report.Summary.Total != 3 {
		t.Fatalf("expected total 3, got %d", report.Summary.Total)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]struct {
		status domain.Status
		score  int
	}{
		"hot":  {domain.StatusHot, 90},
		"warm": {domain.StatusNew, 20},
		"done": {domain.StatusConverted, 65},
	}
	for _, lead := range stored {
		w := want[lead.ID]
		if lead.Status != w.status || lead.ScoreValue() != w.score {
			t.Fatalf("lead %s: expected %s/%d, got %s/%d", lead.ID, w.status, w.score, lead.Status, lead.ScoreValue())
		}
	}

	promotedEvents := bus.named(events.LeadPromoted{}.EventName())
	if len(promotedEvents) != 1 {
		t.Fatalf("expected 1 promotion event, got %d", len(promotedEvents))
	}
	if e := promotedEvents[0].(events.LeadPromoted); e.LeadID != "hot" || e.Score != 90 {
		t.Fatalf("unexpected promotion event %+v", e)
	}
	if len(bus.named(events.FunnelAnalyzed{}.EventName())) != 1 {
		t.Fatal("expected a funnel analyzed event")
	}

	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Action != repository.ActionFunnelAnalyzed || entries[1].Action != repository.ActionLeadPromoted {
		t.Fatalf("unexpected activity %+v", entries)
	}
	if entries[1].LeadID != "hot" {
		t.Fatalf("expected promotion entry for hot, got %q", entries[1].LeadID)
	}
}

func TestAnalyzeAndStoreIsIdempotent(t *testing.T) {
	svc, store, bus := newTestService(t)
	ctx := context.Background()
	if err := store.SaveAll(ctx, seedLeads()); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AnalyzeAndStore(ctx); err != nil {
		t.Fatal(err)
	}
	report, err := svc.AnalyzeAndStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Promoted) != 0 {
		t.Fatalf("expected no promotions on second run, got %v", report.Promoted)
	}
	if got := len(bus.named(events.LeadPromoted{}.EventName())); got != 1 {
		t.Fatalf("expected 1 promotion event overall, got %d", got)
	}
	if report.Summary.ByStatus[domain.StatusHot] != 1 {
		t.Fatalf("expected hot lead to stay HOT, got %+v", report.Summary.ByStatus)
	}
}

// racingStore issues a status update from another goroutine while the
// funnel run is between its read and its write.
type racingStore struct {
	*repository.JSONStore
	during func()
}

func (r *racingStore) ReplaceAll(ctx context.Context, replace func([]domain.Lead) []domain.Lead) ([]domain.Lead, []domain.Lead, error) {
	return r.JSONStore.ReplaceAll(ctx, func(leads []domain.Lead) []domain.Lead {
		r.during()
		return replace(leads)
	})
}

func TestAnalyzeAndStoreKeepsConcurrentStatusUpdate(t *testing.T) {
	dir := t.TempDir()
	store := repository.NewJSONStore(filepath.Join(dir, "leads.json"), filepath.Join(dir, "activity.json"), 100)
	ctx := context.Background()
	if err := store.SaveAll(ctx, seedLeads()); err != nil {
		t.Fatal(err)
	}

	racing := &racingStore{JSONStore: store}
	svc := New(racing, store, &recordingBus{}, nil, nil, Options{Now: func() time.Time { return fixedNow }})

	var wg sync.WaitGroup
	var updateErr error
	racing.during = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, updateErr = svc.UpdateStatus(ctx, transport.UpdateStatusRequest{LeadID: "warm", Status: "CONTACTED"})
		}()
		time.Sleep(20 * time.Millisecond)
	}

	if _, err := svc.AnalyzeAndStore(ctx); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	wg.Wait()
	if updateErr != nil {
		t.Fatalf("status update failed: %v", updateErr)
	}

	warm, err := store.Get(ctx, "warm")
	if err != nil {
		t.Fatal(err)
	}
	if warm.Status != domain.StatusContacted || warm.LastContacted == nil {
		t.Fatalf("expected CONTACTED with last contacted set, got %s, %v", warm.Status, warm.LastContacted)
	}
	if warm.ScoreValue() != 20 {
		t.Fatalf("expected funnel score 20 to survive, got %d", warm.ScoreValue())
	}
	hot, _ := store.Get(ctx, "hot")
	if hot.Status != domain.StatusHot {
		t.Fatalf("expected hot promoted, got %s", hot.Status)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, store, bus := newTestService(t)
	ctx := context.Background()
	if err := store.SaveAll(ctx, seedLeads()); err != nil {
		t.Fatal(err)
	}

	lead, err := svc.UpdateStatus(ctx, transport.UpdateStatusRequest{LeadID: "warm", Status: "CONTACTED"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if lead.Status != domain.StatusContacted || lead.LastContacted == nil || !lead.LastContacted.Equal(fixedNow) {
		t.Fatalf("unexpected lead after update %+v", lead)
	}

	changed := bus.named(events.LeadStatusChanged{}.EventName())
	if len(changed) != 1 {
		t.Fatalf("expected 1 status event, got %d", len(changed))
	}
	if e := changed[0].(events.LeadStatusChanged); e.OldStatus != "NEW" || e.NewStatus != "CONTACTED" {
		t.Fatalf("unexpected status event %+v", e)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	if err := store.SaveAll(ctx, seedLeads()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		req  transport.UpdateStatusRequest
		kind apperr.Kind
	}{
		{"unknown status", transport.UpdateStatusRequest{LeadID: "warm", Status: "WARM"}, apperr.KindInvalidInput},
		{"missing lead", transport.UpdateStatusRequest{LeadID: "nobody", Status: "HOT"}, apperr.KindNotFound},
		{"converted is terminal", transport.UpdateStatusRequest{LeadID: "done", Status: "COLD"}, apperr.KindConflict},
		{"skip stage", transport.UpdateStatusRequest{LeadID: "warm", Status: "CONVERTED"}, apperr.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(ctx, tt.req)
			if !apperr.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}

	stored, _ := store.Get(ctx, "warm")
	if stored.Status != domain.StatusNew {
		t.Fatalf("rejected transitions must not change the lead, got %s", stored.Status)
	}
}

func TestImportFilesMergesConcurrently(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	dir := t.TempDir()

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `[{"id":"1","name":"Asha","role":"Design Director","source":"LinkedIn","niche":"Interior Design"}]`)
	writeFile(t, b, `[{"id":"2","name":"Ben","source":"Instagram"},{"id":"3","name":"Chitra","source":"Directory","status":"COLD"}]`)

	res, err := svc.ImportFiles(ctx, []string{a, b})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.Added != 3 || res.Updated != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	stored, _ := store.List(ctx)
	if len(stored) != 3 || stored[0].ID != "1" || stored[1].ID != "2" || stored[2].ID != "3" {
		t.Fatalf("expected argument order 1,2,3, got %+v", stored)
	}
	if stored[2].Status != domain.StatusCold {
		t.Fatalf("expected COLD, got %s", stored[2].Status)
	}

	res, err = svc.ImportFiles(ctx, []string{a})
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 0 || res.Updated != 1 {
		t.Fatalf("expected re-import to update, got %+v", res)
	}
}

func TestImportFilesErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `[{"id":"1"}]`)
	if _, err := svc.ImportFiles(ctx, []string{bad}); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	if _, err := svc.ImportFiles(ctx, []string{filepath.Join(dir, "missing.json")}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	one := filepath.Join(dir, "one.json")
	two := filepath.Join(dir, "two.json")
	writeFile(t, one, `[{"id":"x","name":"A","source":"LinkedIn"}]`)
	writeFile(t, two, `[{"id":"x","name":"B","source":"LinkedIn"}]`)
	if _, err := svc.ImportFiles(ctx, []string{one, two}); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected duplicate across files to be rejected, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	leads, err := svc.Generate(ctx, 10, 99)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(leads) != 10 {
		t.Fatalf("expected 10 leads, got %d", len(leads))
	}
	stored, _ := store.List(ctx)
	if len(stored) != 10 {
		t.Fatalf("expected 10 stored leads, got %d", len(stored))
	}

	if _, err := svc.Generate(ctx, 0, 1); !apperr.Is(err, apperr.KindInvalidInput) {
		t.Fatalf("expected invalid count error, got %v", err)
	}
}

func TestScoreExplainsFactors(t *testing.T) {
	svc, _, _ := newTestService(t)
	out := svc.Score(seedLeads()[:1])
	if out[0].Score != 90 || len(out[0].Factors) != 4 || out[0].Version == "" {
		t.Fatalf("unexpected breakdown %+v", out[0])
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}
