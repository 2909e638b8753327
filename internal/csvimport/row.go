package csvimport

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"

	"gstbill/internal/gst"
	"gstbill/internal/money"
)

// Row is a validated data row. The four product lists are parallel:
// element i of each describes line item i of the invoice. TotalValues
// carry the GST-inclusive total value per line.
type Row struct {
	Number int

	ReceiverName    string
	ReceiverAddress string
	Pincode         string
	Phone           string
	Email           string
	GSTIN           string

	Descriptions []string
	HSNCodes     []string
	Quantities   []decimal.Decimal
	TotalValues  []decimal.Decimal
}

// splitList splits a comma-separated cell, trimming and dropping
// empty tokens.
func splitList(s string) []string {
	var out []string
	for _, token := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParseRow validates one raw row and parses its product lists.
func ParseRow(raw RawRow) (*Row, error) {
	row := &Row{
		Number:          raw.Number,
		ReceiverName:    raw.Fields["receiver_name"],
		ReceiverAddress: raw.Fields["receiver_address"],
		Pincode:         raw.Fields["pincode"],
		Phone:           raw.Fields["phone"],
		Email:           raw.Fields["email"],
	}

	if row.ReceiverName == "" {
		return nil, fmt.Errorf("receiver_name is required")
	}
	if row.ReceiverAddress == "" {
		return nil, fmt.Errorf("receiver_address is required")
	}
	if !gst.ValidPincode(row.Pincode) {
		return nil, fmt.Errorf("pincode must be 6 digits")
	}
	if row.Email != "" {
		if _, err := mail.ParseAddress(row.Email); err != nil {
			return nil, fmt.Errorf("invalid email %q", row.Email)
		}
	}
	if gstin := raw.Fields["gstin"]; gstin != "" {
		normalized, ok := gst.NormalizeGSTIN(gstin)
		if !ok {
			return nil, fmt.Errorf("invalid gstin format")
		}
		row.GSTIN = normalized
	}

	row.Descriptions = splitList(raw.Fields["product_descriptions"])
	row.HSNCodes = splitList(raw.Fields["hsn_sac_codes"])
	quantities := splitList(raw.Fields["quantities"])
	values := splitList(raw.Fields["total_values"])

	if len(row.Descriptions) == 0 {
		return nil, fmt.Errorf("at least one product is required")
	}
	if len(row.HSNCodes) != len(row.Descriptions) ||
		len(quantities) != len(row.Descriptions) ||
		len(values) != len(row.Descriptions) {
		return nil, fmt.Errorf(
			"product fields must have same count. Got: %d descriptions, %d HSN codes, %d quantities, %d values",
			len(row.Descriptions), len(row.HSNCodes), len(quantities), len(values))
	}

	for _, q := range quantities {
		d, err := money.ParsePositive(q)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity values: %w", err)
		}
		row.Quantities = append(row.Quantities, d)
	}
	for _, v := range values {
		d, err := money.ParsePositive(v)
		if err != nil {
			return nil, fmt.Errorf("invalid total values: %w", err)
		}
		row.TotalValues = append(row.TotalValues, d)
	}

	return row, nil
}
