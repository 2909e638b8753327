// Package gst implements the GST tax computation every invoice write
// path routes through, plus the state and format rules around it.
package gst

import (
	"github.com/shopspring/decimal"

	"gstbill/internal/domain"
	"gstbill/internal/money"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// TaxLine is one invoice line as the engine sees it: a quantity and a
// GST-exclusive unit price. Callers convert inclusive prices first.
type TaxLine struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Breakdown is the result of a tax computation. Exactly one of
// CGST+SGST (intrastate) or IGST (interstate) is non-zero for a
// non-zero rate.
type Breakdown struct {
	Subtotal     decimal.Decimal
	CGST         decimal.Decimal
	SGST         decimal.Decimal
	IGST         decimal.Decimal
	Total        decimal.Decimal
	IsInterstate bool
	// LineAmounts holds the per-line rounded amounts in input order.
	LineAmounts []decimal.Decimal
}

// Compute derives the invoice-level tax split from pre-validated
// lines. Each line amount is rounded to the cent before summation;
// the subtotal is the exact sum of those rounded amounts. A rate of
// zero is legal and yields zero in every bucket.
func Compute(lines []TaxLine, sellerState, buyerState string, ratePercent decimal.Decimal) (*Breakdown, error) {
	if len(lines) == 0 {
		return nil, domain.Validationf("at least one line item is required")
	}
	if ratePercent.IsNegative() {
		return nil, domain.Validationf("gst_rate must not be negative")
	}

	subtotal := money.Zero
	amounts := make([]decimal.Decimal, 0, len(lines))
	for i, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, domain.Validationf("line %d: quantity must be greater than 0", i+1)
		}
		if !line.UnitPrice.IsPositive() {
			return nil, domain.Validationf("line %d: unit price must be greater than 0", i+1)
		}
		amount := money.Round(line.Quantity.Mul(line.UnitPrice))
		amounts = append(amounts, amount)
		subtotal = subtotal.Add(amount)
	}

	rate := ratePercent.Div(hundred)
	b := &Breakdown{
		Subtotal:    subtotal,
		CGST:        money.Zero,
		SGST:        money.Zero,
		IGST:        money.Zero,
		LineAmounts: amounts,
	}

	if sellerState == buyerState {
		// Same state: the rate splits equally into CGST and SGST.
		half := subtotal.Mul(rate.Div(decimal.NewFromInt(2)))
		b.CGST = money.Round(half)
		b.SGST = money.Round(half)
	} else {
		b.IsInterstate = true
		b.IGST = money.Round(subtotal.Mul(rate))
	}

	b.Total = subtotal.Add(b.CGST).Add(b.SGST).Add(b.IGST)
	return b, nil
}

// ExclusivePrice extracts the GST-exclusive base price from a
// GST-inclusive price at the given percent rate, rounded to the cent.
func ExclusivePrice(inclusive, ratePercent decimal.Decimal) decimal.Decimal {
	multiplier := one.Add(ratePercent.Div(hundred))
	return money.Round(inclusive.Div(multiplier))
}
