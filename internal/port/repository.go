package port

import (
	"context"

	"github.com/google/uuid"

	"gstbill/internal/domain"
)

// InvoiceRepository defines the contract for invoice persistence.
// Create and ReplaceItems participate in a transaction carried on the
// context when one is open (see TxManager).
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error)
	// Update rewrites the header and replaces the full line set with
	// freshly serialized items. Draft checks are the service's job.
	Update(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error
	Finalize(ctx context.Context, id uuid.UUID) error
	AttachDocument(ctx context.Context, id uuid.UUID, url string) error
}

// SequenceRepository allocates invoice numbers. Next returns a
// strictly increasing, never-repeated value per (sequenceType,
// ownerID) key, materializing the counter at zero on first use.
// Implementations must perform the increment as one atomic unit and
// must commit it independently of any transaction on ctx, so a rolled
// back invoice write can never rewind the counter.
type SequenceRepository interface {
	Next(ctx context.Context, sequenceType domain.SequenceType, ownerID string) (int64, error)
}

// BusinessProfileRepository defines the contract for seller profile
// persistence. One profile per user.
type BusinessProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.BusinessProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.BusinessProfile, error)
}
