// Package validate checks records against their schema and a small ordered
// set of named business rules before anything touches a store.
//
// Schema rules (required / type / range / pattern / enum) live as validator
// struct tags on the domain types, which keeps the rule set declarative data.
// Business rules are checks the tag language cannot express; each returns a
// severity so callers can distinguish hard errors from soft warnings.
package validate

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/inkatlas/datakit/internal/domain"
	domainerrors "github.com/inkatlas/datakit/internal/errors"
)

// Severity of a single validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one rule violation.
type Issue struct {
	Rule     string   `json:"rule"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result of validating one record. A record is valid when it has no
// error-severity issues; warnings are surfaced but do not affect validity.
type Result struct {
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Valid reports whether the record passed all hard checks.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err converts a failed result into a domain validation error, or nil.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return domainerrors.ValidationWithDetails("record validation failed", r.Errors)
}

var handlePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Validator wraps go-playground/validator with the domain's custom tags and
// business rules.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for the domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})

	// "handle" validates lowercase social-style handles and slugs.
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Artist validates an artist record: schema tags plus the artist business
// rules, in order.
func (val *Validator) Artist(a *domain.Artist) *Result {
	result := &Result{}
	val.applySchema(result, a)

	if a.Pricing != "" && !a.Pricing.IsValid() {
		result.add(Issue{
			Rule:     "pricing-tier",
			Field:    "pricing",
			Message:  fmt.Sprintf("unknown pricing tier %q", a.Pricing),
			Severity: SeverityError,
		})
	}

	for _, rule := range artistRules {
		if issue := rule.check(a); issue != nil {
			issue.Rule = rule.name
			result.add(*issue)
		}
	}
	return result
}

// Studio validates a studio record against its schema tags.
func (val *Validator) Studio(s *domain.Studio) *Result {
	result := &Result{}
	val.applySchema(result, s)
	return result
}

// Style validates a style record against its schema tags.
func (val *Validator) Style(s *domain.Style) *Result {
	result := &Result{}
	val.applySchema(result, s)
	return result
}

// applySchema runs struct-tag validation and folds failures into the result
// as error-severity issues.
func (val *Validator) applySchema(result *Result, s any) {
	err := val.v.Struct(s)
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if !domainerrors.As(err, &validationErrs) {
		result.add(Issue{
			Rule:     "schema",
			Message:  err.Error(),
			Severity: SeverityError,
		})
		return
	}

	for _, e := range validationErrs {
		result.add(Issue{
			Rule:     "schema",
			Field:    e.Field(),
			Message:  friendlyMessage(e),
			Severity: SeverityError,
		})
	}
}

func (r *Result) add(issue Issue) {
	if issue.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, issue)
		return
	}
	r.Errors = append(r.Errors, issue)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s entries", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "handle":
		return "must be a lowercase handle (letters, digits, '.', '_', '-')"
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	default:
		return "is invalid"
	}
}
