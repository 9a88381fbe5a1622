package scoring

import (
	"fmt"
	"os"
	"strings"

	"storefront_backend/internal/leads/domain"
	"storefront_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// Field names a lead attribute a rule inspects.
type Field string

const (
	FieldRole   Field = "role"
	FieldSource Field = "source"
	FieldNiche  Field = "niche"
)

// MatchKind selects how a rule compares the attribute with its patterns.
type MatchKind string

const (
	MatchContains MatchKind = "contains"
	MatchEquals   MatchKind = "equals"
)

// Rule awards Bonus when the lead's Field matches any of Patterns.
// Matching is case sensitive.
type Rule struct {
	Name     string    `yaml:"name"`
	Field    Field     `yaml:"field"`
	Match    MatchKind `yaml:"match"`
	Patterns []string  `yaml:"patterns"`
	Bonus    int       `yaml:"bonus"`
}

// RuleSet is a versioned, ordered rule table.
type RuleSet struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// defaultVersion tracks the built-in rule table.
// Bump this when changing the default rules.
const defaultVersion = "2025-sales-v1"

// DefaultRuleSet returns the built-in sales agent rules. Role rules overlap:
// "Design Director" collects both the decision maker and the designer bonus.
// The designer pattern is "Design" so design titles that are not spelled
// "Designer" still count.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Version: defaultVersion,
		Rules: []Rule{
			{Name: "role_decision_maker", Field: FieldRole, Match: MatchContains, Patterns: []string{"Manager", "Director"}, Bonus: 30},
			{Name: "role_designer", Field: FieldRole, Match: MatchContains, Patterns: []string{"Design"}, Bonus: 25},
			{Name: "role_influencer", Field: FieldRole, Match: MatchContains, Patterns: []string{"Influencer"}, Bonus: 20},
			{Name: "source_linkedin", Field: FieldSource, Match: MatchEquals, Patterns: []string{domain.SourceLinkedIn}, Bonus: 20},
			{Name: "source_directory", Field: FieldSource, Match: MatchEquals, Patterns: []string{domain.SourceDirectory}, Bonus: 15},
			{Name: "source_instagram", Field: FieldSource, Match: MatchEquals, Patterns: []string{domain.SourceInstagram}, Bonus: 10},
			{Name: "niche_interior_design", Field: FieldNiche, Match: MatchEquals, Patterns: []string{"Interior Design"}, Bonus: 15},
			{Name: "niche_gardening", Field: FieldNiche, Match: MatchEquals, Patterns: []string{"Gardening"}, Bonus: 10},
		},
	}
}

// Matches reports whether the rule fires for the lead.
func (r Rule) Matches(lead domain.Lead) bool {
	value := r.Field.value(lead)
	if value == "" {
		return false
	}
	for _, pattern := range r.Patterns {
		switch r.Match {
		case MatchContains:
			if strings.Contains(value, pattern) {
				return true
			}
		case MatchEquals:
			if value == pattern {
				return true
			}
		}
	}
	return false
}

func (f Field) value(lead domain.Lead) string {
	switch f {
	case FieldRole:
		return lead.Role
	case FieldSource:
		return lead.Source
	case FieldNiche:
		return lead.Niche
	default:
		return ""
	}
}

// Validate checks the rule table for unknown fields, empty patterns and
// duplicate names.
func (rs RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return apperr.InvalidInput("rule set has no rules").WithOp("scoring.Validate")
	}
	seen := make(map[string]struct{}, len(rs.Rules))
	for i, rule := range rs.Rules {
		if strings.TrimSpace(rule.Name) == "" {
			return apperr.InvalidInput(fmt.Sprintf("rule %d has no name", i)).WithOp("scoring.Validate")
		}
		if _, dup := seen[rule.Name]; dup {
			return apperr.InvalidInput("duplicate rule " + rule.Name).WithOp("scoring.Validate")
		}
		seen[rule.Name] = struct{}{}

		switch rule.Field {
		case FieldRole, FieldSource, FieldNiche:
		default:
			return apperr.InvalidInput(fmt.Sprintf("rule %s: unknown field %q", rule.Name, rule.Field)).WithOp("scoring.Validate")
		}
		switch rule.Match {
		case MatchContains, MatchEquals:
		default:
			return apperr.InvalidInput(fmt.Sprintf("rule %s: unknown match %q", rule.Name, rule.Match)).WithOp("scoring.Validate")
		}

		nonEmpty := 0
		for _, p := range rule.Patterns {
			if p != "" {
				nonEmpty++
			}
		}
		if nonEmpty == 0 {
			return apperr.InvalidInput("rule " + rule.Name + " has no patterns").WithOp("scoring.Validate")
		}
	}
	return nil
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, apperr.Wrap(apperr.KindInvalidInput, "decode scoring rules", err).WithOp("scoring.ParseRules")
	}
	if rs.Version == "" {
		rs.Version = "custom"
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// LoadRules reads a YAML rule table from path.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, apperr.Wrap(apperr.KindInvalidInput, "read scoring rules", err).WithOp("scoring.LoadRules")
	}
	return ParseRules(data)
}
