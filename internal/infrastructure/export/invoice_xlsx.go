package export

import (
	"fmt"
	"io"

	"github.com/sangkips/folio-api/internal/domain/billing"
	"github.com/sangkips/folio-api/internal/domain/enum"
	"github.com/xuri/excelize/v2"
)

const (
	InvoiceSheet  = "Invoice"
	PaymentsSheet = "Payments"

	// ContentTypeXLSX is the MIME type of the workbook written by WriteInvoice
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// WriteInvoice renders the invoice as a two-sheet workbook: one row per line
// with the tax columns of the invoice's jurisdiction, then totals, then the
// payment trail on its own sheet.
func WriteInvoice(w io.Writer, inv billing.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(PaymentsSheet); err != nil {
		return err
	}

	header := [][]interface{}{
		{"Bill No", inv.BillNo},
		{"Guest", inv.GuestName},
		{"Guest State", inv.GuestState},
		{"Jurisdiction", inv.Jurisdiction.String()},
	}
	row := 1
	for _, h := range header {
		if err := setRow(f, InvoiceSheet, row, h); err != nil {
			return err
		}
		row++
	}
	row++

	intra := inv.Jurisdiction == enum.JurisdictionIntraState
	columns := []interface{}{"Room", "Line", "Item", "HSN", "Price", "Qty", "Taxable"}
	if intra {
		columns = append(columns, "CGST %", "CGST", "SGST %", "SGST")
	} else {
		columns = append(columns, "IGST %", "IGST")
	}
	columns = append(columns, "Total")
	if err := setRow(f, InvoiceSheet, row, columns); err != nil {
		return err
	}
	row++

	for _, l := range inv.Lines {
		values := []interface{}{
			l.Room + 1, l.Line + 1, l.Item, l.HSNCode,
			l.Price.InexactFloat64(), l.Quantity.InexactFloat64(), l.Taxable.InexactFloat64(),
		}
		if intra {
			values = append(values,
				l.CGSTRate.InexactFloat64(), l.CGST.InexactFloat64(),
				l.SGSTRate.InexactFloat64(), l.SGST.InexactFloat64())
		} else {
			values = append(values, l.IGSTRate.InexactFloat64(), l.IGST.InexactFloat64())
		}
		values = append(values, l.LineTotal.InexactFloat64())
		if err := setRow(f, InvoiceSheet, row, values); err != nil {
			return err
		}
		row++
	}
	row++

	totals := [][]interface{}{{"Taxable", inv.Taxable.InexactFloat64()}}
	if intra {
		totals = append(totals,
			[]interface{}{"CGST", inv.CGST.InexactFloat64()},
			[]interface{}{"SGST", inv.SGST.InexactFloat64()})
	} else {
		totals = append(totals, []interface{}{"IGST", inv.IGST.InexactFloat64()})
	}
	totals = append(totals,
		[]interface{}{"Total", inv.Total.InexactFloat64()},
		[]interface{}{"Advance Paid", inv.AdvancePaid.InexactFloat64()},
		[]interface{}{"Due", inv.Due.InexactFloat64()},
	)
	if inv.Cancelled {
		totals = append(totals, []interface{}{"Status", "Cancelled"})
	} else if inv.BillPaid {
		totals = append(totals, []interface{}{"Status", "Paid"})
	}
	for _, t := range totals {
		if err := setRow(f, InvoiceSheet, row, t); err != nil {
			return err
		}
		row++
	}

	if err := setRow(f, PaymentsSheet, 1, []interface{}{"#", "Date", "Mode", "Amount"}); err != nil {
		return err
	}
	for i, p := range inv.Payments {
		values := []interface{}{p.Seq, p.Date.Format("2006-01-02"), p.Mode, p.Amount.InexactFloat64()}
		if err := setRow(f, PaymentsSheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write invoice workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
