package xlsxexport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"backoffice/internal/csvexport"
	"backoffice/internal/domain"
	"backoffice/internal/xlsxexport"
)

func TestWrite(t *testing.T) {
	invoices := []domain.InvoiceIncome{
		{ID: 1, ProjectID: 42, InvoiceNumber: "4521", NetAmount: 150000, IVAAmount: 28500, TotalAmount: 178500},
		{ID: 2, ProjectID: 42, InvoiceNumber: "4522", TotalAmount: 1234.56},
	}

	var buf bytes.Buffer
	require.NoError(t, xlsxexport.Write(&buf, invoices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{xlsxexport.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(xlsxexport.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvexport.Columns, rows[0])
	assert.Equal(t, "4521", rows[1][4])

	cellType, err := f.GetCellType(xlsxexport.SheetName, "U2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)

	total, err := f.GetCellValue(xlsxexport.SheetName, "U3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1234.56", total)
}

func TestBuild_Empty(t *testing.T) {
	f, err := xlsxexport.Build(nil)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxexport.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
