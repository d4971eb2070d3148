package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 22)
	assert.Equal(t, "ID", row[0])
	assert.Equal(t, "Fecha Emisión", row[5])
	assert.Equal(t, "Total", row[20])
	assert.Equal(t, "Creada", row[21])
}

func TestWriteInvoices(t *testing.T) {
	date := "2024-03-15"
	created := time.Date(2024, 3, 16, 10, 30, 0, 0, time.UTC)
	invoices := []domain.InvoiceIncome{
		{
			ID:             1,
			ProjectID:      42,
			Status:         domain.InvoiceStatusVerified,
			IsProcessed:    true,
			InvoiceNumber:  "4521",
			IssueDate:      &date,
			IssuerName:     "CONSTRUCTORA LOS ANDES SPA",
			IssuerRUT:      "77.567.635-3",
			ClientName:     "INMOBILIARIA EL BOSQUE, LTDA",
			Description:    "Estado de pago N°3",
			NetAmount:      150000,
			IVAAmount:      28500,
			AdditionalTax:  0,
			TotalAmount:    178500,
			ContractNumber: "2024-015",
			CreatedAt:      created,
		},
		{ID: 2, ProjectID: 42, Status: domain.InvoiceStatusPending, NetAmount: 1234.5},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteInvoices(invoices))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "42", first[1])
	assert.Equal(t, "verified", first[2])
	assert.Equal(t, "Sí", first[3])
	assert.Equal(t, "4521", first[4])
	assert.Equal(t, "2024-03-15", first[5])
	assert.Equal(t, "INMOBILIARIA EL BOSQUE, LTDA", first[10])
	assert.Equal(t, "2024-015", first[15])
	assert.Equal(t, "150000.00", first[17])
	assert.Equal(t, "28500.00", first[18])
	assert.Equal(t, "0.00", first[19])
	assert.Equal(t, "178500.00", first[20])
	assert.Equal(t, "2024-03-16T10:30:00Z", first[21])

	second := records[2]
	assert.Equal(t, "No", second[3])
	assert.Empty(t, second[5])
	assert.Equal(t, "1234.50", second[17])
	assert.Empty(t, second[21])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"facturas_proyecto_1", "facturas_proyecto_1"},
		{"Obra Los Ñandúes", "Obra_Los_and_es"},
		{"a///b", "a_b"},
		{"___x___", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 150)
	assert.Len(t, SanitizeFilename(string(long)), 100)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 3, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "facturas_proyecto_42_2024-03-16.csv", BuildFilename(42, now, "csv"))
	assert.Equal(t, "facturas_proyecto_7_2024-03-16.xlsx", BuildFilename(7, now, "xlsx"))
}
