package validator

import (
	"fmt"
	"regexp"

	"backoffice/internal/domain"
	"backoffice/internal/normalize"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(?:\.[\w-]+)+$`)

func rutCheck(fieldPath, ruleName string, get func(*domain.InvoiceIncome) string) func(*domain.InvoiceIncome, Env) []Result {
	return func(inv *domain.InvoiceIncome, _ Env) []Result {
		val := get(inv)
		if val == "" {
			return []Result{skipped(fieldPath, "valid RUT check digit", ruleName, "field is empty")}
		}
		passed := normalize.ValidRUT(val)
		msg := fmt.Sprintf("%s: %s check digit is valid", ruleName, fieldPath)
		if !passed {
			msg = fmt.Sprintf("%s: %s check digit does not match", ruleName, fieldPath)
		}
		return []Result{{
			Passed: passed, FieldPath: fieldPath,
			ExpectedValue: "valid RUT check digit", ActualValue: val, Message: msg,
		}}
	}
}

// FormatValidators returns the field format checks.
func FormatValidators() []Validator {
	return []Validator{
		&check{
			ruleKey: "format.issuer_rut", ruleName: "Format: Issuer RUT",
			severity: SeverityError,
			validate: rutCheck(string(domain.FieldIssuerRUT), "Format: Issuer RUT",
				func(inv *domain.InvoiceIncome) string { return inv.IssuerRUT }),
		},
		&check{
			ruleKey: "format.client_rut", ruleName: "Format: Client RUT",
			severity: SeverityWarning,
			validate: rutCheck(string(domain.FieldClientRUT), "Format: Client RUT",
				func(inv *domain.InvoiceIncome) string { return inv.ClientRUT }),
		},
		&check{
			ruleKey: "format.issuer_email", ruleName: "Format: Issuer Email",
			severity: SeverityWarning,
			validate: func(inv *domain.InvoiceIncome, _ Env) []Result {
				fp := string(domain.FieldIssuerEmail)
				if inv.IssuerEmail == "" {
					return []Result{skipped(fp, "email address", "Format: Issuer Email", "field is empty")}
				}
				passed := emailPattern.MatchString(inv.IssuerEmail)
				msg := "Format: Issuer Email: issuer_email matches expected format"
				if !passed {
					msg = "Format: Issuer Email: issuer_email does not match expected format"
				}
				return []Result{{
					Passed: passed, FieldPath: fp,
					ExpectedValue: "email address", ActualValue: inv.IssuerEmail, Message: msg,
				}}
			},
		},
	}
}
