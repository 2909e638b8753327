package port

import (
	"context"

	"gstbill/internal/domain"
)

// EmailSender delivers a committed invoice to the buyer's email
// address. Delivery is best-effort; failures are recorded, never
// escalated into the invoice write path.
type EmailSender interface {
	SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) error
}

// MessageReceipt reports the outcome of a message delivery attempt.
// When the provider is not configured, Sent is false and ShareLink
// carries a deep link the caller can hand to the user instead.
type MessageReceipt struct {
	Sent      bool
	ShareLink string
	Detail    string
}

// MessageSender delivers a committed invoice over a messaging
// transport (WhatsApp). Best-effort, independently fallible.
type MessageSender interface {
	SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) (*MessageReceipt, error)
}
