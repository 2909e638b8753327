// Package xlsx renders invoice documents as spreadsheets. The layout
// mirrors a printed GST invoice: parties, line item table, tax split.
package xlsx

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
)

const sheet = "Invoice"

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type renderer struct{}

// NewRenderer creates the spreadsheet DocumentRenderer.
func NewRenderer() port.DocumentRenderer {
	return &renderer{}
}

func (r *renderer) Render(_ context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (*port.RenderedDocument, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		// SetCellValue only fails on invalid coordinates, which are
		// all fixed strings below.
		_ = f.SetCellValue(sheet, cell, value)
	}

	title := "TAX INVOICE"
	if invoice.IsDraft {
		title = "DRAFT INVOICE"
	}
	set("A1", title)
	set("A2", fmt.Sprintf("Invoice No: %s", invoice.InvoiceNumber))
	set("A3", fmt.Sprintf("Date: %s", invoice.InvoiceDate.Format("02/01/2006")))
	if invoice.DueDate != nil {
		set("A4", fmt.Sprintf("Due: %s", invoice.DueDate.Format("02/01/2006")))
	}

	set("A6", "Issued By")
	set("A7", invoice.SellerName)
	set("A8", invoice.SellerAddress)
	set("A9", fmt.Sprintf("%s - %s", gst.StateName(invoice.SellerState), invoice.SellerPincode))
	set("A10", fmt.Sprintf("GSTIN: %s", invoice.SellerGSTIN))

	set("D6", "Issued To")
	set("D7", invoice.BuyerName)
	set("D8", invoice.BuyerAddress)
	set("D9", fmt.Sprintf("%s - %s", gst.StateName(invoice.BuyerState), invoice.BuyerPincode))
	if invoice.BuyerGSTIN != "" {
		set("D10", fmt.Sprintf("GSTIN: %s", invoice.BuyerGSTIN))
	}

	headerRow := 12
	for i, h := range []string{"S.No.", "Description", "HSN/SAC", "Qty", "Unit Price", "Amount"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, h)
	}
	for i, item := range items {
		row := headerRow + 1 + i
		values := []interface{}{
			item.SerialNumber,
			item.Description,
			item.HSNSAC,
			item.Quantity.String(),
			item.UnitPrice.StringFixed(2),
			item.Amount.StringFixed(2),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			set(cell, v)
		}
	}

	totalsRow := headerRow + len(items) + 2
	writeTotal := func(offset int, label string, amount decimal.Decimal) {
		labelCell, _ := excelize.CoordinatesToCellName(5, totalsRow+offset)
		valueCell, _ := excelize.CoordinatesToCellName(6, totalsRow+offset)
		set(labelCell, label)
		set(valueCell, amount.StringFixed(2))
	}
	writeTotal(0, "Subtotal", invoice.Subtotal)
	offset := 1
	if invoice.IsInterstate {
		writeTotal(offset, fmt.Sprintf("IGST (%s%%)", invoice.GSTRate.StringFixed(2)), invoice.IGST)
		offset++
	} else {
		halfRate := invoice.GSTRate.Div(decimal.NewFromInt(2))
		writeTotal(offset, fmt.Sprintf("CGST (%s%%)", halfRate.StringFixed(2)), invoice.CGST)
		offset++
		writeTotal(offset, fmt.Sprintf("SGST (%s%%)", halfRate.StringFixed(2)), invoice.SGST)
		offset++
	}
	writeTotal(offset, "Total", invoice.Total)

	if invoice.Notes != "" {
		set(fmt.Sprintf("A%d", totalsRow+offset+2), fmt.Sprintf("Notes: %s", invoice.Notes))
	}
	if invoice.PaymentTerms != "" {
		set(fmt.Sprintf("A%d", totalsRow+offset+3), fmt.Sprintf("Payment Terms: %s", invoice.PaymentTerms))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &port.RenderedDocument{
		FileName:    fmt.Sprintf("%s.xlsx", invoice.InvoiceNumber),
		ContentType: contentTypeXLSX,
		Body:        buf.Bytes(),
	}, nil
}
