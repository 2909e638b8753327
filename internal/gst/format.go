package gst

import (
	"regexp"
	"strings"
)

// GSTIN layout: 2-digit state code, 10-char PAN, entity code, "Z",
// check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// NormalizeGSTIN uppercases and validates a GSTIN, returning the
// normalized value and whether it is well-formed.
func NormalizeGSTIN(gstin string) (string, bool) {
	g := strings.ToUpper(strings.TrimSpace(gstin))
	return g, gstinPattern.MatchString(g)
}

// ValidPincode reports whether pincode is exactly six digits.
func ValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}
