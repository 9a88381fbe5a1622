package leads

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"storefront_backend/internal/events"
	"storefront_backend/internal/leads/domain"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"

	"github.com/alicebob/miniredis/v2"
)

type stubConfig struct {
	dir      string
	backend  string
	redisURL string
	rules    string
}

func (c stubConfig) GetDataDir() string            { return c.dir }
func (c stubConfig) GetLeadsPath() string          { return filepath.Join(c.dir, "leads.json") }
func (c stubConfig) GetActivityPath() string       { return filepath.Join(c.dir, "activity.json") }
func (c stubConfig) GetActivityLogLimit() int      { return 10 }
func (c stubConfig) GetActivityBackend() string    { return c.backend }
func (c stubConfig) GetRedisURL() string           { return c.redisURL }
func (c stubConfig) GetRedisTLSInsecure() bool     { return false }
func (c stubConfig) GetScoringRulesPath() string   { return c.rules }
func (c stubConfig) GetDefaultPhoneRegion() string { return "IN" }

func newModule(t *testing.T, cfg stubConfig) *Module {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Discard())
	mod, err := NewModule(cfg, bus, validator.New(), logger.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		bus.Wait()
		_ = mod.Close()
	})
	return mod
}

func TestModuleWithFileBackend(t *testing.T) {
	mod := newModule(t, stubConfig{dir: t.TempDir(), backend: "file"})
	if mod.Name() != "leads" {
		t.Fatalf("expected name leads, got %q", mod.Name())
	}

	ctx := context.Background()
	if _, err := mod.Service().Generate(ctx, 5, 1); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	entries, err := mod.Service().RecentActivity(ctx, 0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one activity entry, got %v, %v", entries, err)
	}
}

func TestModuleWithRedisActivity(t *testing.T) {
	mr := miniredis.RunT(t)
	mod := newModule(t, stubConfig{dir: t.TempDir(), backend: "redis", redisURL: "redis://" + mr.Addr()})

	ctx := context.Background()
	if _, err := mod.Service().Generate(ctx, 3, 2); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := mod.Service().AnalyzeAndStore(ctx); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	stored, err := mr.List("storefront:activity")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) < 2 {
		t.Fatalf("expected activity in redis, got %d entries", len(stored))
	}
}

func TestModuleLoadsCustomRules(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yaml")
	body := "version: test-v1\nrules:\n  - name: any_linkedin\n    field: source\n    match: equals\n    patterns: [LinkedIn]\n    bonus: 60\n"
	if err := os.WriteFile(rules, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	mod := newModule(t, stubConfig{dir: dir, backend: "file", rules: rules})
	out := mod.Service().Score([]domain.Lead{{ID: "x", Source: "LinkedIn"}})
	if out[0].Score != 60 || out[0].Version != "test-v1" {
		t.Fatalf("expected custom rules to apply, got %+v", out[0])
	}
}

func TestModuleRejectsBadRedisURL(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	if _, err := NewModule(stubConfig{dir: t.TempDir(), backend: "redis", redisURL: "http://nope"}, bus, validator.New(), logger.Discard()); err == nil {
		t.Fatal("expected error for non-redis url")
	}
}
