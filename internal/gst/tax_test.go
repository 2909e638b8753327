package gst

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty, price string) TaxLine {
	return TaxLine{Quantity: dec(qty), UnitPrice: dec(price)}
}

func TestCompute_IntrastateSplitsRateEqually(t *testing.T) {
	b, err := Compute([]TaxLine{line("2", "500.00")}, "KA", "KA", dec("18"))
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(dec("1000.00")), "subtotal %s", b.Subtotal)
	assert.True(t, b.CGST.Equal(dec("90.00")), "cgst %s", b.CGST)
	assert.True(t, b.SGST.Equal(dec("90.00")), "sgst %s", b.SGST)
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.Total.Equal(dec("1180.00")), "total %s", b.Total)
	assert.False(t, b.IsInterstate)
}

func TestCompute_InterstateUsesIGST(t *testing.T) {
	b, err := Compute([]TaxLine{line("2", "500.00")}, "KA", "MH", dec("18"))
	require.NoError(t, err)

	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.IGST.Equal(dec("180.00")), "igst %s", b.IGST)
	assert.True(t, b.Total.Equal(dec("1180.00")))
	assert.True(t, b.IsInterstate)
}

func TestCompute_RoundsEachLineBeforeSumming(t *testing.T) {
	// 3 x 33.335 = 100.005 -> 100.01 per line, and the subtotal is
	// the sum of rounded line amounts, not the rounded raw sum.
	b, err := Compute([]TaxLine{
		line("3", "33.335"),
		line("3", "33.335"),
	}, "KA", "KA", dec("0"))
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(dec("200.02")), "subtotal %s", b.Subtotal)
	require.Len(t, b.LineAmounts, 2)
	assert.True(t, b.LineAmounts[0].Equal(dec("100.01")))
	assert.True(t, b.LineAmounts[1].Equal(dec("100.01")))
}

func TestCompute_ZeroRate(t *testing.T) {
	b, err := Compute([]TaxLine{line("1", "99.99")}, "KA", "MH", dec("0"))
	require.NoError(t, err)

	assert.True(t, b.CGST.IsZero())
	assert.True(t, b.SGST.IsZero())
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.Total.Equal(b.Subtotal))
}

func TestCompute_OddSplitRoundsEachHalf(t *testing.T) {
	// 100.01 at 18%: half is 9.0009 -> 9.00 per bucket, so the split
	// total can differ from the single-bucket IGST by a cent.
	b, err := Compute([]TaxLine{line("1", "100.01")}, "KA", "KA", dec("18"))
	require.NoError(t, err)

	assert.True(t, b.CGST.Equal(dec("9.00")), "cgst %s", b.CGST)
	assert.True(t, b.SGST.Equal(dec("9.00")), "sgst %s", b.SGST)
	assert.True(t, b.Total.Equal(dec("118.01")), "total %s", b.Total)
}

func TestCompute_Validation(t *testing.T) {
	_, err := Compute(nil, "KA", "KA", dec("18"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = Compute([]TaxLine{line("0", "10")}, "KA", "KA", dec("18"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = Compute([]TaxLine{line("1", "-10")}, "KA", "KA", dec("18"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = Compute([]TaxLine{line("1", "10")}, "KA", "KA", dec("-1"))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestExclusivePrice(t *testing.T) {
	assert.True(t, ExclusivePrice(dec("118.00"), dec("18")).Equal(dec("100.00")))
	assert.True(t, ExclusivePrice(dec("100.00"), dec("0")).Equal(dec("100.00")))
	// 105 / 1.18 = 88.9830... -> 88.98
	assert.True(t, ExclusivePrice(dec("105.00"), dec("18")).Equal(dec("88.98")))
}

func TestExclusivePrice_RoundTripWithinOneCent(t *testing.T) {
	rate := dec("18")
	for _, inclusive := range []string{"118.00", "99.99", "1.00", "1050.55"} {
		base := ExclusivePrice(dec(inclusive), rate)
		back := base.Add(base.Mul(rate.Div(dec("100")))).Round(2)
		diff := back.Sub(dec(inclusive)).Abs()
		assert.True(t, diff.LessThanOrEqual(dec("0.01")),
			"inclusive %s round-trips to %s", inclusive, back)
	}
}
