package noop

import (
	"context"
	"log"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs deliveries to
// stdout. Used in development when no SES identity is configured.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendInvoice(_ context.Context, invoice *domain.Invoice, documentURL string) error {
	log.Printf("[NOOP EMAIL] Invoice %s (Rs.%s) to %s, document: %s",
		invoice.InvoiceNumber, invoice.Total.StringFixed(2), invoice.BuyerEmail, documentURL)
	return nil
}
