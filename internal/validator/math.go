package validator

import (
	"fmt"
	"math"

	"backoffice/internal/domain"
)

const mathTolerance = 1.00

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

func mathResult(passed bool, fieldPath, expected, actual, ruleName string) Result {
	msg := fmt.Sprintf("%s: %s calculation matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s calculation mismatch (expected %s, got %s)", ruleName, fieldPath, expected, actual)
	}
	return Result{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: expected, ActualValue: actual, Message: msg,
	}
}

// MathValidators returns the arithmetic reconciliation checks. Both skip when
// the net amount was not recovered.
func MathValidators() []Validator {
	return []Validator{
		&check{
			ruleKey: "math.total", ruleName: "Math: Total Amount",
			severity: SeverityError,
			validate: func(inv *domain.InvoiceIncome, _ Env) []Result {
				fp := string(domain.FieldTotalAmount)
				if inv.NetAmount <= 0 || inv.TotalAmount <= 0 {
					return []Result{skipped(fp, "net + iva + additional tax", "Math: Total Amount", "amounts missing")}
				}
				expected := inv.NetAmount + inv.IVAAmount + inv.AdditionalTax
				return []Result{mathResult(approxEqual(inv.TotalAmount, expected), fp,
					fmtf(expected), fmtf(inv.TotalAmount), "Math: Total Amount")}
			},
		},
		&check{
			ruleKey: "math.iva", ruleName: "Math: IVA Amount",
			severity: SeverityWarning,
			validate: func(inv *domain.InvoiceIncome, _ Env) []Result {
				fp := string(domain.FieldIVAAmount)
				if inv.NetAmount <= 0 || inv.IVAAmount <= 0 {
					return []Result{skipped(fp, "net * iva_percentage / 100", "Math: IVA Amount", "amounts missing")}
				}
				expected := math.Round(inv.NetAmount * inv.IVAPercentage / 100)
				return []Result{mathResult(approxEqual(inv.IVAAmount, expected), fp,
					fmtf(expected), fmtf(inv.IVAAmount), "Math: IVA Amount")}
			},
		},
	}
}
