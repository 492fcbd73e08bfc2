package invoice

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Invoices"

var exportHeaders = []string{
	"Invoice Number",
	"Invoice Date",
	"Partner",
	"Product Code",
	"Product",
	"Quantity",
	"Unit",
	"Unit Price",
	"Subtotal",
	"Barcode",
	"Source",
	"Invoice ID",
}

// ExportXLSX writes every invoice to a spreadsheet, one row per line item.
// Invoices without items still get a row so they are not lost in review.
func (s *Service) ExportXLSX() ([]byte, error) {
	invoices, err := s.ListInvoices()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	row := 1
	write := func(col int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(exportSheet, cell, v)
	}

	for i, h := range exportHeaders {
		if err := write(i+1, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for _, invoice := range invoices {
		rec := invoice.Record
		values := [][]any{}
		for _, item := range rec.LineItems {
			values = append(values, []any{
				rec.InvoiceNumber, rec.InvoiceDate, rec.PartnerName,
				item.ProductCode, item.Name,
				item.Quantity.InexactFloat64(), item.Unit,
				item.UnitPrice.InexactFloat64(), item.Subtotal.InexactFloat64(),
				item.Barcode, string(invoice.Source), invoice.ID,
			})
		}
		if len(values) == 0 {
			values = append(values, []any{
				rec.InvoiceNumber, rec.InvoiceDate, rec.PartnerName,
				"", "", nil, "", nil, nil, "", string(invoice.Source), invoice.ID,
			})
		}

		for _, line := range values {
			row++
			for col, v := range line {
				if v == nil {
					continue
				}
				if err := write(col+1, v); err != nil {
					return nil, fmt.Errorf("writing row %d: %w", row, err)
				}
			}
		}
	}

	_ = f.SetColWidth(exportSheet, "A", "C", 18)
	_ = f.SetColWidth(exportSheet, "E", "E", 32)
	_ = f.SetColWidth(exportSheet, "L", "L", 38)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
