// Package xlsxexport renders invoice_income rows as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"backoffice/internal/csvexport"
	"backoffice/internal/domain"
)

// SheetName is the name of the single worksheet.
const SheetName = "Facturas"

// amountColumns are the zero-based Columns indexes written as numbers.
var amountColumns = map[int]func(*domain.InvoiceIncome) float64{
	17: func(inv *domain.InvoiceIncome) float64 { return inv.NetAmount },
	18: func(inv *domain.InvoiceIncome) float64 { return inv.IVAAmount },
	19: func(inv *domain.InvoiceIncome) float64 { return inv.AdditionalTax },
	20: func(inv *domain.InvoiceIncome) float64 { return inv.TotalAmount },
}

// Build creates a workbook with a header row and one row per invoice.
// Amounts are numeric cells so totals can be summed in Excel.
func Build(invoices []domain.InvoiceIncome) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(csvexport.Columns))
	for i, h := range csvexport.Columns {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i := range invoices {
		inv := &invoices[i]
		text := csvexport.InvoiceRow(inv)
		row := make([]interface{}, len(text))
		for col, v := range text {
			if amount, ok := amountColumns[col]; ok {
				row[col] = amount(inv)
				continue
			}
			row[col] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("freezing header: %w", err)
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, invoices []domain.InvoiceIncome) error {
	f, err := Build(invoices)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
