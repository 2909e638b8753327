package port

import (
	"context"

	"gstbill/internal/domain"
)

// RenderedDocument is a rendered invoice artifact ready for storage.
type RenderedDocument struct {
	FileName    string
	ContentType string
	Body        []byte
}

// DocumentRenderer produces a binary document artifact for an invoice
// and its line items. Rendering never mutates the invoice; callers
// attach the stored artifact's URL afterwards.
type DocumentRenderer interface {
	Render(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (*RenderedDocument, error)
}
