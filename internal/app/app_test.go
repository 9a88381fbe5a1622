package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront_backend/internal/leads/repository"
	"storefront_backend/internal/pricing/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type result struct {
	code   int
	stdout string
	stderr string
}

// setupEnv isolates configuration from the developer's environment.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("ACTIVITY_BACKEND", "file")
	t.Setenv("COUPONS_PATH", "")
	t.Setenv("SCORING_RULES_PATH", "")
	t.Setenv("SUBTOTAL", "")
	t.Setenv("WEIGHT", "")
	return filepath.Join(dir, "data")
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := New("test", &stdout, &stderr)
	a.now = func() time.Time { return testNow }
	code := a.Run(context.Background(), append([]string{"--no-color"}, args...))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestCommandsRegistered(t *testing.T) {
	root := New("test", &bytes.Buffer{}, &bytes.Buffer{}).rootCommand()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"shipping", "coupon", "leads", "activity"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}

func TestShippingQuote(t *testing.T) {
	setupEnv(t)

	res := run(t, "shipping", "--subtotal", "998.99")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Total fee")
	assert.Contains(t, res.stdout, "₹79.00")
	assert.Contains(t, res.stdout, "below the free shipping threshold")
}

func TestShippingJSONFromEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("SUBTOTAL", "1200")
	t.Setenv("WEIGHT", "6")

	res := run(t, "--json", "shipping")
	require.Equal(t, 0, res.code, res.stderr)

	var quote transport.ShippingQuote
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &quote))
	assert.Equal(t, 0.0, quote.BaseFee)
	assert.Equal(t, 29.0, quote.Surcharge)
	assert.Equal(t, 29.0, quote.TotalFee)
	assert.Len(t, quote.Rationale, 2)
}

func TestShippingFlagOverridesEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("SUBTOTAL", "1200")

	res := run(t, "--json", "shipping", "--subtotal", "100")
	require.Equal(t, 0, res.code, res.stderr)

	var quote transport.ShippingQuote
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &quote))
	assert.Equal(t, 79.0, quote.TotalFee)
}

func TestShippingRejectsBadInput(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"non-numeric subtotal", []string{"shipping", "--subtotal", "abc"}, "subtotal must be a number"},
		{"non-numeric weight", []string{"shipping", "--subtotal", "10", "--weight", "heavy"}, "weight must be a number"},
		{"missing subtotal", []string{"shipping"}, "subtotal is required"},
		{"negative subtotal", []string{"shipping", "--subtotal", "-1"}, "subtotal"},
		{"unknown flag", []string{"shipping", "--bogus"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, 2, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestCouponInline(t *testing.T) {
	setupEnv(t)

	res := run(t, "--json", "coupon", "--type", "percent", "--amount", "10", "--subtotal", "1000")
	require.Equal(t, 0, res.code, res.stderr)

	var quote transport.CouponQuote
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &quote))
	assert.True(t, quote.Valid)
	assert.Equal(t, 100.0, quote.DiscountAmount)

	res = run(t, "--json", "coupon", "--type", "fixed_cart", "--amount", "50", "--expires", "2025-01-01", "--subtotal", "5000")
	require.Equal(t, 0, res.code, res.stderr)
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &quote))
	assert.False(t, quote.Valid)
	assert.Equal(t, "coupon has expired", quote.Message)

	res = run(t, "coupon", "--type", "fixed_cart", "--amount", "ten", "--subtotal", "100")
	assert.Equal(t, 2, res.code)
}

func TestCouponCatalogLookup(t *testing.T) {
	dataDir := setupEnv(t)
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "coupons.json"),
		[]byte(`[{"code":"FLAT150","discount_type":"fixed_cart","amount":"150"}]`), 0o600))

	res := run(t, "coupon", "--code", "flat150", "--subtotal", "100")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "applied")
	assert.Contains(t, res.stdout, "₹100.00", "discount is clamped to the subtotal")

	res = run(t, "--json", "coupon", "--code", "NOPE", "--subtotal", "100")
	require.Equal(t, 0, res.code, res.stderr)
	var quote transport.CouponQuote
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &quote))
	assert.False(t, quote.Valid)
	assert.Equal(t, "coupon not found", quote.Message)

	res = run(t, "coupon", "--subtotal", "100")
	assert.Equal(t, 2, res.code)

	res = run(t, "coupon", "--code", "   ", "--subtotal", "100")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "--code is required")

	res = run(t, "coupon", "--code", strings.Repeat("A", 65), "--subtotal", "100")
	assert.Equal(t, 2, res.code)

	res = run(t, "coupon", "--code", "FLAT150", "--subtotal=-5")
	assert.Equal(t, 2, res.code)
}

func TestShippingIgnoresBrokenCouponCatalog(t *testing.T) {
	dataDir := setupEnv(t)
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "coupons.json"), []byte(`{not json`), 0o600))

	res := run(t, "shipping", "--subtotal", "1200")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "₹0.00")

	res = run(t, "coupon", "--code", "FLAT150", "--subtotal", "100")
	assert.NotEqual(t, 0, res.code)
}

func TestLeadsWorkflow(t *testing.T) {
	setupEnv(t)
	file := filepath.Join(t.TempDir(), "prospects.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"id":"asha","name":"Asha Rao","role":"Design Director","company":"Studio A","source":"LinkedIn","niche":"Interior Design"},
		{"id":"ben","name":"Ben Das","role":"Owner","company":"B Gardens","source":"Instagram","niche":"Gardening"}
	]`), 0o600))

	res := run(t, "--json", "leads", "score", file)
	require.Equal(t, 0, res.code, res.stderr)
	var scores []struct {
		LeadID string `json:"leadId"`
		Score  int    `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &scores))
	require.Len(t, scores, 2)
	assert.Equal(t, 90, scores[0].Score)
	assert.Equal(t, 20, scores[1].Score)

	res = run(t, "leads", "import", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "2 new")

	res = run(t, "--json", "leads", "funnel")
	require.Equal(t, 0, res.code, res.stderr)
	var report struct {
		Promoted []string `json:"promoted"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, []string{"asha"}, report.Promoted)

	res = run(t, "leads", "status", "asha", "contacted")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Asha Rao is now CONTACTED")

	res = run(t, "leads", "status", "asha", "NEW")
	assert.Equal(t, 4, res.code, "moving back to NEW is a conflict")

	res = run(t, "leads", "status", "zed", "HOT")
	assert.Equal(t, 3, res.code)

	res = run(t, "leads", "status", "asha")
	assert.Equal(t, 2, res.code)

	res = run(t, "--json", "activity", "--limit", "0")
	require.Equal(t, 0, res.code, res.stderr)
	var entries []repository.ActivityEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 4)
	assert.Equal(t, repository.ActionStatusChanged, entries[0].Action)
	assert.Equal(t, repository.ActionFunnelAnalyzed, entries[1].Action)
	assert.Equal(t, repository.ActionLeadPromoted, entries[2].Action)
	assert.Equal(t, repository.ActionLeadsImported, entries[3].Action)
}

func TestLeadsGenerateIsSeeded(t *testing.T) {
	setupEnv(t)

	first := run(t, "--json", "leads", "generate", "--count", "3", "--seed", "7")
	require.Equal(t, 0, first.code, first.stderr)

	setupEnv(t)
	second := run(t, "--json", "leads", "generate", "--count", "3", "--seed", "7")
	require.Equal(t, 0, second.code, second.stderr)
	assert.Equal(t, first.stdout, second.stdout)

	res := run(t, "leads", "generate", "--count", "0")
	assert.Equal(t, 2, res.code)
}

func TestActivityEmpty(t *testing.T) {
	setupEnv(t)
	res := run(t, "activity")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No activity yet.")
}

func TestFunnelEnqueueNeedsRedis(t *testing.T) {
	setupEnv(t)
	t.Setenv("REDIS_URL", "")
	res := run(t, "leads", "funnel", "--enqueue")
	assert.NotEqual(t, 0, res.code)
	assert.Contains(t, res.stderr, "redis url not configured")
}
