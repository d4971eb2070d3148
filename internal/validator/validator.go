// Package validator runs reconciliation checks over assembled invoice
// records. Checks only report; they never block persistence.
package validator

import (
	"time"

	"backoffice/internal/domain"
)

// Severity is how strongly a failed check should be surfaced.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is the outcome of one check on one field.
type Result struct {
	RuleKey       string   `json:"rule_key"`
	RuleName      string   `json:"rule_name"`
	Passed        bool     `json:"passed"`
	FieldPath     string   `json:"field_path"`
	ExpectedValue string   `json:"expected_value"`
	ActualValue   string   `json:"actual_value"`
	Message       string   `json:"message"`
	Severity      Severity `json:"severity"`
}

// Validator is a single built-in check.
type Validator interface {
	Validate(inv *domain.InvoiceIncome, env Env) []Result
	RuleKey() string
	RuleName() string
	Severity() Severity
}

// Env carries the inputs a check needs beyond the record itself.
type Env struct {
	Now            time.Time
	KnownIssuerRUT string
}

// Report is the full validation outcome for one record.
type Report struct {
	Valid         bool                    `json:"valid"`
	Errors        int                     `json:"errors"`
	Warnings      int                     `json:"warnings"`
	Results       []Result                `json:"results"`
	FieldStatuses map[string]*FieldStatus `json:"field_statuses"`
}

// Engine runs every registered check over a record.
type Engine struct {
	registry *Registry
	now      func() time.Time
	known    string
}

// NewEngine creates an Engine. A nil registry uses the built-in checks.
func NewEngine(registry *Registry, knownIssuerRUT string) *Engine {
	if registry == nil {
		registry = NewBuiltinRegistry()
	}
	return &Engine{registry: registry, now: time.Now, known: knownIssuerRUT}
}

// WithClock overrides the clock used by date checks.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Validate runs all checks and summarizes them. A record is valid when no
// error-severity check failed.
func (e *Engine) Validate(inv *domain.InvoiceIncome) *Report {
	env := Env{Now: e.now(), KnownIssuerRUT: e.known}
	report := &Report{Valid: true, Results: []Result{}}
	if inv == nil {
		report.FieldStatuses = map[string]*FieldStatus{}
		return report
	}

	for _, v := range e.registry.All() {
		for _, r := range v.Validate(inv, env) {
			r.RuleKey = v.RuleKey()
			r.RuleName = v.RuleName()
			r.Severity = v.Severity()
			report.Results = append(report.Results, r)
			if r.Passed {
				continue
			}
			if r.Severity == SeverityError {
				report.Errors++
				report.Valid = false
			} else {
				report.Warnings++
			}
		}
	}
	report.FieldStatuses = ComputeFieldStatuses(report.Results)
	return report
}
