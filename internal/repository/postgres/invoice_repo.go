package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const insertInvoice = `INSERT INTO invoices (
	id, invoice_number, invoice_type, user_id, invoice_date, due_date,
	seller_name, seller_gstin, seller_address, seller_pincode, seller_state, seller_phone, seller_email,
	buyer_name, buyer_gstin, buyer_address, buyer_pincode, buyer_state, buyer_phone, buyer_email,
	subtotal, cgst, sgst, igst, total, gst_rate, is_interstate,
	notes, payment_terms, document_url, is_draft, created_at, updated_at
) VALUES (
	:id, :invoice_number, :invoice_type, :user_id, :invoice_date, :due_date,
	:seller_name, :seller_gstin, :seller_address, :seller_pincode, :seller_state, :seller_phone, :seller_email,
	:buyer_name, :buyer_gstin, :buyer_address, :buyer_pincode, :buyer_state, :buyer_phone, :buyer_email,
	:subtotal, :cgst, :sgst, :igst, :total, :gst_rate, :is_interstate,
	:notes, :payment_terms, :document_url, :is_draft, :created_at, :updated_at
)`

const insertItem = `INSERT INTO invoice_items (
	id, invoice_id, serial_number, description, hsn_sac, quantity, unit_price, amount, created_at
) VALUES (
	:id, :invoice_id, :serial_number, :description, :hsn_sac, :quantity, :unit_price, :amount, :created_at
)`

func (r *invoiceRepo) Create(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	run := runner(ctx, r.db)

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if _, err := sqlx.NamedExecContext(ctx, run, insertInvoice, invoice); err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	if err := r.insertItems(ctx, run, invoice.ID, items, now); err != nil {
		return fmt.Errorf("invoiceRepo.Create items: %w", err)
	}
	return nil
}

func (r *invoiceRepo) insertItems(ctx context.Context, run sqlx.ExtContext, invoiceID uuid.UUID, items []domain.InvoiceItem, now time.Time) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = invoiceID
		items[i].CreatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, run, insertItem, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := sqlx.GetContext(ctx, runner(ctx, r.db), &invoice,
		"SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	var items []domain.InvoiceItem
	err := sqlx.SelectContext(ctx, runner(ctx, r.db), &items,
		"SELECT * FROM invoice_items WHERE invoice_id = $1 ORDER BY serial_number", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetItems: %w", err)
	}
	return items, nil
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error) {
	run := runner(ctx, r.db)

	var total int
	err := sqlx.GetContext(ctx, run, &total,
		"SELECT COUNT(*) FROM invoices WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser count: %w", err)
	}

	var summaries []domain.InvoiceSummary
	err = sqlx.SelectContext(ctx, run, &summaries,
		`SELECT i.id, i.invoice_number, i.invoice_type, i.buyer_name, i.total,
			i.invoice_date, i.is_draft, i.created_at,
			(SELECT COUNT(*) FROM invoice_items it WHERE it.invoice_id = i.id) AS item_count
		FROM invoices i
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser: %w", err)
	}
	return summaries, total, nil
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) error {
	run := runner(ctx, r.db)

	now := time.Now().UTC()
	invoice.UpdatedAt = now

	const query = `UPDATE invoices SET
		invoice_date = :invoice_date, due_date = :due_date,
		buyer_name = :buyer_name, buyer_gstin = :buyer_gstin, buyer_address = :buyer_address,
		buyer_pincode = :buyer_pincode, buyer_state = :buyer_state, buyer_phone = :buyer_phone,
		buyer_email = :buyer_email,
		subtotal = :subtotal, cgst = :cgst, sgst = :sgst, igst = :igst, total = :total,
		gst_rate = :gst_rate, is_interstate = :is_interstate,
		notes = :notes, payment_terms = :payment_terms,
		is_draft = :is_draft, updated_at = :updated_at
		WHERE id = :id AND is_draft = TRUE`

	result, err := sqlx.NamedExecContext(ctx, run, query, invoice)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceFinalized
	}

	// Full line replacement: the header exclusively owns its lines.
	if _, err := run.ExecContext(ctx,
		"DELETE FROM invoice_items WHERE invoice_id = $1", invoice.ID); err != nil {
		return fmt.Errorf("invoiceRepo.Update delete items: %w", err)
	}
	if err := r.insertItems(ctx, run, invoice.ID, items, now); err != nil {
		return fmt.Errorf("invoiceRepo.Update items: %w", err)
	}
	return nil
}

func (r *invoiceRepo) Finalize(ctx context.Context, id uuid.UUID) error {
	result, err := runner(ctx, r.db).ExecContext(ctx,
		"UPDATE invoices SET is_draft = FALSE, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Finalize: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) AttachDocument(ctx context.Context, id uuid.UUID, url string) error {
	result, err := runner(ctx, r.db).ExecContext(ctx,
		"UPDATE invoices SET document_url = $1, updated_at = $2 WHERE id = $3",
		url, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.AttachDocument: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
