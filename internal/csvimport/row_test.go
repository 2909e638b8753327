package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRow(overrides map[string]string) RawRow {
	fields := map[string]string{
		"receiver_name":        "Asha",
		"receiver_address":     "12 MG Road",
		"pincode":              "560001",
		"phone":                "+919800000000",
		"email":                "asha@example.com",
		"gstin":                "",
		"product_descriptions": "Consulting, Design",
		"hsn_sac_codes":        "9983, 9983",
		"quantities":           "1, 2",
		"total_values":         "1180.00, 590.00",
	}
	for k, v := range overrides {
		fields[k] = v
	}
	return RawRow{Number: 1, Fields: fields}
}

func TestParseRow_Valid(t *testing.T) {
	row, err := ParseRow(rawRow(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"Consulting", "Design"}, row.Descriptions)
	assert.Equal(t, []string{"9983", "9983"}, row.HSNCodes)
	require.Len(t, row.Quantities, 2)
	require.Len(t, row.TotalValues, 2)
	assert.Equal(t, "1180", row.TotalValues[0].String())
}

func TestParseRow_RequiredFields(t *testing.T) {
	_, err := ParseRow(rawRow(map[string]string{"receiver_name": ""}))
	assert.ErrorContains(t, err, "receiver_name is required")

	_, err = ParseRow(rawRow(map[string]string{"receiver_address": ""}))
	assert.ErrorContains(t, err, "receiver_address is required")

	_, err = ParseRow(rawRow(map[string]string{"pincode": "56001"}))
	assert.ErrorContains(t, err, "pincode must be 6 digits")
}

func TestParseRow_InvalidEmail(t *testing.T) {
	_, err := ParseRow(rawRow(map[string]string{"email": "not-an-email"}))
	assert.ErrorContains(t, err, "invalid email")

	// Empty email is fine; delivery is optional.
	_, err = ParseRow(rawRow(map[string]string{"email": ""}))
	assert.NoError(t, err)
}

func TestParseRow_GSTIN(t *testing.T) {
	row, err := ParseRow(rawRow(map[string]string{"gstin": "29abcde1234f1z5"}))
	require.NoError(t, err)
	assert.Equal(t, "29ABCDE1234F1Z5", row.GSTIN)

	_, err = ParseRow(rawRow(map[string]string{"gstin": "bogus"}))
	assert.ErrorContains(t, err, "invalid gstin format")
}

func TestParseRow_MismatchedListCounts(t *testing.T) {
	_, err := ParseRow(rawRow(map[string]string{"quantities": "1"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product fields must have same count")
	assert.Contains(t, err.Error(), "2 descriptions, 2 HSN codes, 1 quantities, 2 values")
}

func TestParseRow_NoProducts(t *testing.T) {
	_, err := ParseRow(rawRow(map[string]string{
		"product_descriptions": "",
		"hsn_sac_codes":        "",
		"quantities":           "",
		"total_values":         "",
	}))
	assert.ErrorContains(t, err, "at least one product is required")
}

func TestParseRow_NonPositiveValues(t *testing.T) {
	_, err := ParseRow(rawRow(map[string]string{"quantities": "0, 2"}))
	assert.ErrorContains(t, err, "invalid quantity values")

	_, err = ParseRow(rawRow(map[string]string{"total_values": "-5, 590.00"}))
	assert.ErrorContains(t, err, "invalid total values")
}
