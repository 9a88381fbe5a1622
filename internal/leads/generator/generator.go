// Package generator produces mock prospect leads for demos and load tests.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"storefront_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MaxCount bounds a single generation run.
const MaxCount = 1000

// namespace seeds deterministic lead ids.
var namespace = uuid.MustParse("6f1d7c2e-8a43-4b8e-9d1e-3c5a7b9e0f21")

var (
	firstNames = []string{"Aarav", "Diya", "Kabir", "Meera", "Rohan", "Ananya", "Vikram", "Isha", "Arjun", "Priya", "Nikhil", "Sara"}
	lastNames  = []string{"Sharma", "Iyer", "Kapoor", "Nair", "Mehta", "Reddy", "Bose", "Khan", "Das", "Joshi"}
	roles      = []string{
		"Design Director", "Interior Designer", "Studio Manager", "Landscape Designer",
		"Home Decor Influencer", "Founder", "Procurement Manager", "Garden Blogger", "Architect",
	}
	companyStems = []string{"Terracotta", "Banyan", "Monsoon", "Indigo", "Courtyard", "Jaali", "Marigold", "Sandstone"}
	companyKinds = []string{"Studio", "Interiors", "Gardens", "Living", "Design House", "Nursery"}
	sources      = []string{domain.SourceLinkedIn, domain.SourceInstagram, domain.SourceDirectory}
	niches       = []string{"Interior Design", "Gardening", "Architecture", "Hospitality", "Retail"}
)

// Generator creates NEW, unscored leads. The same seed always yields the
// same leads.
type Generator struct {
	seed uint64
	rng  *rand.Rand
	n    int
}

// New creates a generator for seed.
func New(seed uint64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns count leads. count is clamped to [0, MaxCount].
func (g *Generator) Generate(count int) []domain.Lead {
	count = max(0, min(count, MaxCount))
	leads := make([]domain.Lead, 0, count)
	for range count {
		leads = append(leads, g.next())
	}
	return leads
}

func (g *Generator) next() domain.Lead {
	g.n++
	first := pick(g.rng, firstNames)
	last := pick(g.rng, lastNames)
	company := pick(g.rng, companyStems) + " " + pick(g.rng, companyKinds)
	source := pick(g.rng, sources)

	return domain.Lead{
		ID:      uuid.NewSHA1(namespace, fmt.Appendf(nil, "%d/%d", g.seed, g.n)).String(),
		Name:    first + " " + last,
		Role:    pick(g.rng, roles),
		Company: company,
		Source:  source,
		Niche:   pick(g.rng, niches),
		Contact: contactFor(source, first, company),
		Status:  domain.StatusNew,
	}
}

// contactFor mimics what each channel exposes: a handle on Instagram, a
// business email elsewhere.
func contactFor(source, first, company string) string {
	slug := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	if source == domain.SourceInstagram {
		return "@" + slug
	}
	return strings.ToLower(first) + "@" + slug + ".in"
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
