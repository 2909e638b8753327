// Package numbering formats invoice numbers from allocated sequence
// values. Uniqueness comes from the per-key sequence, not from the
// owner hash, which only keeps user numbers readable and stable.
package numbering

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"gstbill/internal/domain"
)

const userPrefix = "INV"

// OwnerHash returns the stable 6-character uppercase tag embedded in
// user invoice numbers. Same user, same tag, always.
func OwnerHash(userID string) string {
	sum := md5.Sum([]byte(userID))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:6]
}

// Format renders the invoice number for an allocated sequence value.
// Topmate numbers are <prefix>-NNNNNN; user numbers are
// INV-<owner tag>-NNNN.
func Format(invoiceType domain.InvoiceType, userID string, number int64, topmatePrefix string) string {
	if invoiceType == domain.InvoiceTypeTopmate {
		return fmt.Sprintf("%s-%06d", topmatePrefix, number)
	}
	return fmt.Sprintf("%s-%s-%04d", userPrefix, OwnerHash(userID), number)
}
