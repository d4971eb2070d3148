package validator

import (
	"fmt"

	"backoffice/internal/domain"
)

// check is a built-in validator backed by a function.
type check struct {
	ruleKey  string
	ruleName string
	severity Severity
	validate func(*domain.InvoiceIncome, Env) []Result
}

func (c *check) RuleKey() string    { return c.ruleKey }
func (c *check) RuleName() string   { return c.ruleName }
func (c *check) Severity() Severity { return c.severity }

func (c *check) Validate(inv *domain.InvoiceIncome, env Env) []Result {
	return c.validate(inv, env)
}

func skipped(fieldPath, expected, ruleName, reason string) Result {
	return Result{
		Passed: true, FieldPath: fieldPath, ExpectedValue: expected,
		Message: fmt.Sprintf("%s: %s, skipping", ruleName, reason),
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
