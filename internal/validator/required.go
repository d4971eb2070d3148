package validator

import (
	"fmt"

	"backoffice/internal/domain"
)

func requiredText(fieldPath, ruleName string, get func(*domain.InvoiceIncome) string) func(*domain.InvoiceIncome, Env) []Result {
	return func(inv *domain.InvoiceIncome, _ Env) []Result {
		val := get(inv)
		return []Result{{
			Passed: val != "", FieldPath: fieldPath,
			ExpectedValue: "non-empty value", ActualValue: val,
			Message: fieldMessage(val != "", ruleName, fieldPath),
		}}
	}
}

func fieldMessage(passed bool, ruleName, fieldPath string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, fieldPath)
	}
	return fmt.Sprintf("%s: %s is missing", ruleName, fieldPath)
}

// RequiredValidators returns the presence checks.
func RequiredValidators() []Validator {
	return []Validator{
		&check{
			ruleKey: "required.total_amount", ruleName: "Required: Total Amount",
			severity: SeverityError,
			validate: func(inv *domain.InvoiceIncome, _ Env) []Result {
				passed := inv.TotalAmount > 0
				return []Result{{
					Passed: passed, FieldPath: string(domain.FieldTotalAmount),
					ExpectedValue: "amount greater than zero", ActualValue: fmtf(inv.TotalAmount),
					Message: fieldMessage(passed, "Required: Total Amount", string(domain.FieldTotalAmount)),
				}}
			},
		},
		&check{
			ruleKey: "required.issuer_rut", ruleName: "Required: Issuer RUT",
			severity: SeverityWarning,
			validate: requiredText(string(domain.FieldIssuerRUT), "Required: Issuer RUT",
				func(inv *domain.InvoiceIncome) string { return inv.IssuerRUT }),
		},
		&check{
			ruleKey: "required.invoice_number", ruleName: "Required: Invoice Number",
			severity: SeverityWarning,
			validate: requiredText(string(domain.FieldInvoiceNumber), "Required: Invoice Number",
				func(inv *domain.InvoiceIncome) string { return inv.InvoiceNumber }),
		},
		&check{
			ruleKey: "required.issue_date", ruleName: "Required: Issue Date",
			severity: SeverityWarning,
			validate: requiredText(string(domain.FieldIssueDate), "Required: Issue Date",
				func(inv *domain.InvoiceIncome) string {
					if inv.IssueDate == nil {
						return ""
					}
					return *inv.IssueDate
				}),
		},
	}
}
