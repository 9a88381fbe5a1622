// Package scoring assigns deterministic scores to leads from a declarative
// rule table. Every rule is additive and independent of the others.
package scoring

import "storefront_backend/internal/leads/domain"

// Result holds a score and the rules that contributed to it.
type Result struct {
	Score   int            `json:"score"`
	Factors map[string]int `json:"factors"`
	Version string         `json:"version"`
}

// Engine scores leads. It is immutable after construction and safe for
// concurrent use.
type Engine struct {
	rules RuleSet
}

// NewEngine creates an engine over a validated rule set.
func NewEngine(rules RuleSet) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	copied := RuleSet{Version: rules.Version, Rules: make([]Rule, len(rules.Rules))}
	for i, r := range rules.Rules {
		r.Patterns = append([]string(nil), r.Patterns...)
		copied.Rules[i] = r
	}
	return &Engine{rules: copied}, nil
}

var defaultEngine = mustEngine(DefaultRuleSet())

func mustEngine(rules RuleSet) *Engine {
	e, err := NewEngine(rules)
	if err != nil {
		panic("scoring: invalid built-in rules: " + err.Error())
	}
	return e
}

// Default returns the engine over the built-in rules.
func Default() *Engine {
	return defaultEngine
}

// ScoreLead scores a lead with the built-in rules.
func ScoreLead(lead domain.Lead) int {
	return defaultEngine.Score(lead)
}

// Score returns the sum of the bonuses of every matching rule.
func (e *Engine) Score(lead domain.Lead) int {
	total := 0
	for _, rule := range e.rules.Rules {
		if rule.Matches(lead) {
			total += rule.Bonus
		}
	}
	return total
}

// Breakdown scores a lead and reports each rule that fired.
func (e *Engine) Breakdown(lead domain.Lead) Result {
	factors := map[string]int{}
	total := 0
	for _, rule := range e.rules.Rules {
		if rule.Matches(lead) {
			factors[rule.Name] = rule.Bonus
			total += rule.Bonus
		}
	}
	return Result{Score: total, Factors: factors, Version: e.rules.Version}
}

// Version returns the rule set version.
func (e *Engine) Version() string {
	return e.rules.Version
}
