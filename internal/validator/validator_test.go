package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func validInvoice() *domain.InvoiceIncome {
	return &domain.InvoiceIncome{
		IssuerName:    "CONSTRUCTORA LOS ANDES SPA",
		IssuerRUT:     "77.567.635-3",
		IssuerEmail:   "contacto@losandes.cl",
		ClientRUT:     "76.086.428-5",
		InvoiceNumber: "4521",
		IssueDate:     strPtr("2024-03-15"),
		NetAmount:     150000,
		IVAAmount:     28500,
		TotalAmount:   178500,
		IVAPercentage: 19,
	}
}

func newTestEngine(known string) *Engine {
	return NewEngine(nil, known).WithClock(func() time.Time { return fixedNow })
}

func findResult(t *testing.T, report *Report, key string) Result {
	t.Helper()
	for _, r := range report.Results {
		if r.RuleKey == key {
			return r
		}
	}
	t.Fatalf("no result for rule %s", key)
	return Result{}
}

func TestEngine_ValidInvoice(t *testing.T) {
	report := newTestEngine("77567635-3").Validate(validInvoice())

	assert.True(t, report.Valid)
	assert.Zero(t, report.Errors)
	assert.Zero(t, report.Warnings)
	assert.Len(t, report.Results, 12)
	for _, r := range report.Results {
		assert.True(t, r.Passed, r.Message)
		assert.NotEmpty(t, r.RuleName)
		assert.NotEmpty(t, r.Severity)
	}
	assert.Equal(t, FieldStatusValid, report.FieldStatuses["total_amount"].Status)
}

func TestEngine_NilInvoice(t *testing.T) {
	report := newTestEngine("").Validate(nil)

	assert.True(t, report.Valid)
	assert.Empty(t, report.Results)
	assert.NotNil(t, report.FieldStatuses)
}

func TestEngine_EmptyInvoice(t *testing.T) {
	report := newTestEngine("").Validate(&domain.InvoiceIncome{IVAPercentage: 19})

	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 3, report.Warnings)

	assert.False(t, findResult(t, report, "required.total_amount").Passed)
	assert.True(t, findResult(t, report, "math.total").Passed)
	assert.True(t, findResult(t, report, "format.issuer_rut").Passed)
	assert.True(t, findResult(t, report, "logical.known_issuer").Passed)
	assert.Equal(t, FieldStatusInvalid, report.FieldStatuses["total_amount"].Status)
	assert.Equal(t, FieldStatusUnsure, report.FieldStatuses["invoice_number"].Status)
}

func TestEngine_TotalMismatch(t *testing.T) {
	inv := validInvoice()
	inv.TotalAmount = 180000

	report := newTestEngine("").Validate(inv)
	r := findResult(t, report, "math.total")

	assert.False(t, report.Valid)
	assert.False(t, r.Passed)
	assert.Equal(t, SeverityError, r.Severity)
	assert.Equal(t, "178500.00", r.ExpectedValue)
	assert.Equal(t, "180000.00", r.ActualValue)
	assert.Contains(t, r.Message, "mismatch")
}

func TestEngine_TotalWithinTolerance(t *testing.T) {
	inv := validInvoice()
	inv.TotalAmount = 178501

	report := newTestEngine("").Validate(inv)
	assert.True(t, findResult(t, report, "math.total").Passed)
}

func TestEngine_TotalIncludesAdditionalTax(t *testing.T) {
	inv := validInvoice()
	inv.AdditionalTax = 12000
	inv.TotalAmount = 190500

	report := newTestEngine("").Validate(inv)
	assert.True(t, findResult(t, report, "math.total").Passed)
}

func TestEngine_IVAMismatchIsWarning(t *testing.T) {
	inv := validInvoice()
	inv.IVAAmount = 30000
	inv.TotalAmount = 180000

	report := newTestEngine("").Validate(inv)
	r := findResult(t, report, "math.iva")

	assert.True(t, report.Valid)
	assert.False(t, r.Passed)
	assert.Equal(t, SeverityWarning, r.Severity)
	assert.Equal(t, "28500.00", r.ExpectedValue)
	assert.Equal(t, FieldStatusUnsure, report.FieldStatuses["iva_amount"].Status)
}

func TestEngine_InvalidIssuerRUT(t *testing.T) {
	inv := validInvoice()
	inv.IssuerRUT = "77.567.635-4"

	report := newTestEngine("").Validate(inv)
	r := findResult(t, report, "format.issuer_rut")

	assert.False(t, report.Valid)
	assert.False(t, r.Passed)
	assert.Contains(t, r.Message, "does not match")
}

func TestEngine_InvalidClientRUTIsWarning(t *testing.T) {
	inv := validInvoice()
	inv.ClientRUT = "76.086.428-K"

	report := newTestEngine("").Validate(inv)

	assert.True(t, report.Valid)
	assert.False(t, findResult(t, report, "format.client_rut").Passed)
}

func TestEngine_InvalidEmail(t *testing.T) {
	inv := validInvoice()
	inv.IssuerEmail = "contacto@"

	report := newTestEngine("").Validate(inv)
	assert.False(t, findResult(t, report, "format.issuer_email").Passed)
}

func TestEngine_FutureIssueDate(t *testing.T) {
	inv := validInvoice()
	inv.IssueDate = strPtr("2024-06-02")

	report := newTestEngine("").Validate(inv)
	r := findResult(t, report, "logical.issue_date_not_future")

	assert.False(t, r.Passed)
	assert.Equal(t, "date on or before 2024-06-01", r.ExpectedValue)

	inv.IssueDate = strPtr("2024-06-01")
	report = newTestEngine("").Validate(inv)
	assert.True(t, findResult(t, report, "logical.issue_date_not_future").Passed)
}

func TestEngine_SameIssuerAndClient(t *testing.T) {
	inv := validInvoice()
	inv.ClientRUT = "77567635-3"

	report := newTestEngine("").Validate(inv)
	assert.False(t, findResult(t, report, "logical.issuer_client_distinct").Passed)
}

func TestEngine_UnknownIssuer(t *testing.T) {
	report := newTestEngine("76.086.428-5").Validate(validInvoice())
	r := findResult(t, report, "logical.known_issuer")

	assert.False(t, r.Passed)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.Warnings)
}

func TestEngine_CustomRegistry(t *testing.T) {
	reg := NewRegistry()
	for _, v := range MathValidators() {
		reg.Register(v)
	}

	report := NewEngine(reg, "").Validate(validInvoice())
	assert.Len(t, report.Results, 2)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewBuiltinRegistry()
	before := len(reg.All())

	replacement := &check{
		ruleKey: "math.total", ruleName: "Replaced", severity: SeverityWarning,
		validate: func(*domain.InvoiceIncome, Env) []Result { return nil },
	}
	reg.Register(replacement)

	assert.Len(t, reg.All(), before)
	require.NotNil(t, reg.Get("math.total"))
	assert.Equal(t, "Replaced", reg.Get("math.total").RuleName())
	assert.Nil(t, reg.Get("nope"))
}

func TestComputeFieldStatuses(t *testing.T) {
	results := []Result{
		{FieldPath: "a", Passed: true, Severity: SeverityError},
		{FieldPath: "b", Passed: false, Severity: SeverityWarning, Message: "warn b"},
		{FieldPath: "c", Passed: false, Severity: SeverityWarning, Message: "warn c"},
		{FieldPath: "c", Passed: false, Severity: SeverityError, Message: "err c"},
		{FieldPath: "c", Passed: false, Severity: SeverityWarning, Message: "warn c2"},
	}

	statuses := ComputeFieldStatuses(results)

	assert.Equal(t, FieldStatusValid, statuses["a"].Status)
	assert.Empty(t, statuses["a"].Messages)
	assert.Equal(t, FieldStatusUnsure, statuses["b"].Status)
	assert.Equal(t, []string{"warn b"}, statuses["b"].Messages)
	assert.Equal(t, FieldStatusInvalid, statuses["c"].Status)
	assert.Len(t, statuses["c"].Messages, 3)
}
