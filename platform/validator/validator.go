// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// Lead statuses accepted at the system boundary.
var leadStatuses = map[string]struct{}{
	"NEW":       {},
	"HOT":       {},
	"CONTACTED": {},
	"CONVERTED": {},
	"COLD":      {},
}

// New creates a new Validator instance with the storefront's custom tags:
//
//	lead_status      one of NEW, HOT, CONTACTED, CONVERTED, COLD (empty allowed)
//	lead_source_tag  a non-empty source tag without surrounding whitespace
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		_, ok := leadStatuses[value]
		return ok
	})
	_ = v.RegisterValidation("lead_source_tag", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value != "" && value == strings.TrimSpace(value)
	})
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
