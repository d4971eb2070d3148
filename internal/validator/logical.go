package validator

import (
	"fmt"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/normalize"
)

// LogicalValidators returns checks on relationships between fields.
func LogicalValidators() []Validator {
	return []Validator{
		&check{
			ruleKey: "logical.issue_date_not_future", ruleName: "Logical: Issue Date Not In Future",
			severity: SeverityWarning,
			validate: func(inv *domain.InvoiceIncome, env Env) []Result {
				fp := string(domain.FieldIssueDate)
				name := "Logical: Issue Date Not In Future"
				if inv.IssueDate == nil {
					return []Result{skipped(fp, "date on or before today", name, "field is empty")}
				}
				d, err := time.Parse(time.DateOnly, *inv.IssueDate)
				if err != nil {
					return []Result{{
						Passed: false, FieldPath: fp, ExpectedValue: "date on or before today",
						ActualValue: *inv.IssueDate, Message: fmt.Sprintf("%s: %s is not a valid date", name, fp),
					}}
				}
				today := env.Now.Format(time.DateOnly)
				passed := d.Format(time.DateOnly) <= today
				msg := fmt.Sprintf("%s: %s is not in the future", name, fp)
				if !passed {
					msg = fmt.Sprintf("%s: %s is after %s", name, fp, today)
				}
				return []Result{{
					Passed: passed, FieldPath: fp, ExpectedValue: "date on or before " + today,
					ActualValue: *inv.IssueDate, Message: msg,
				}}
			},
		},
		&check{
			ruleKey: "logical.issuer_client_distinct", ruleName: "Logical: Issuer And Client Differ",
			severity: SeverityWarning,
			validate: func(inv *domain.InvoiceIncome, _ Env) []Result {
				fp := string(domain.FieldClientRUT)
				name := "Logical: Issuer And Client Differ"
				if inv.IssuerRUT == "" || inv.ClientRUT == "" {
					return []Result{skipped(fp, "RUT different from issuer", name, "RUT missing")}
				}
				passed := normalize.CanonicalRUT(inv.IssuerRUT) != normalize.CanonicalRUT(inv.ClientRUT)
				msg := fmt.Sprintf("%s: client RUT differs from issuer RUT", name)
				if !passed {
					msg = fmt.Sprintf("%s: client RUT equals issuer RUT", name)
				}
				return []Result{{
					Passed: passed, FieldPath: fp, ExpectedValue: "RUT different from " + inv.IssuerRUT,
					ActualValue: inv.ClientRUT, Message: msg,
				}}
			},
		},
		&check{
			ruleKey: "logical.known_issuer", ruleName: "Logical: Known Issuer",
			severity: SeverityWarning,
			validate: func(inv *domain.InvoiceIncome, env Env) []Result {
				fp := string(domain.FieldIssuerRUT)
				name := "Logical: Known Issuer"
				if env.KnownIssuerRUT == "" {
					return []Result{skipped(fp, "configured issuer RUT", name, "no issuer configured")}
				}
				passed := normalize.CanonicalRUT(inv.IssuerRUT) == normalize.CanonicalRUT(env.KnownIssuerRUT)
				msg := fmt.Sprintf("%s: issuer RUT matches the configured issuer", name)
				if !passed {
					msg = fmt.Sprintf("%s: issuer RUT %q is not the configured issuer", name, inv.IssuerRUT)
				}
				return []Result{{
					Passed: passed, FieldPath: fp, ExpectedValue: env.KnownIssuerRUT,
					ActualValue: inv.IssuerRUT, Message: msg,
				}}
			},
		},
	}
}
