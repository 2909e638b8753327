package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstbill/internal/csvimport"
	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/port"
)

// BulkOptions configures one bulk ingestion run. Seller details are
// required for user invoices unless the user has a stored business
// profile.
type BulkOptions struct {
	InvoiceType   domain.InvoiceType
	UserID        string
	GSTRate       *decimal.Decimal
	CreateAsDraft bool
	SendEmail     bool
	SendWhatsApp  bool
	Seller        *SellerDetails
}

// RowSuccess reports one committed invoice. Render and notification
// outcomes are best-effort metadata; they never demote a success.
type RowSuccess struct {
	Row           int             `json:"row"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	BuyerName     string          `json:"buyer_name"`
	Total         decimal.Decimal `json:"total"`
	IsDraft       bool            `json:"is_draft"`
	DocumentURL   string          `json:"document_url,omitempty"`
	RenderError   string          `json:"render_error,omitempty"`
	EmailSent     bool            `json:"email_sent"`
	EmailError    string          `json:"email_error,omitempty"`
	WhatsAppSent  bool            `json:"whatsapp_sent"`
	WhatsAppError string          `json:"whatsapp_error,omitempty"`
	WhatsAppLink  string          `json:"whatsapp_link,omitempty"`
}

// RowFailure reports one rejected row with its raw data and reason.
type RowFailure struct {
	Row    int               `json:"row"`
	Data   map[string]string `json:"data"`
	Reason string            `json:"reason"`
}

// BatchResult aggregates a bulk run. Successes and failures preserve
// input row order.
type BatchResult struct {
	TotalRows  int          `json:"total_rows"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
	Successes  []RowSuccess `json:"successes"`
	Failures   []RowFailure `json:"failures"`
}

// BulkService ingests a CSV of prospective invoices, committing each
// valid row independently.
type BulkService interface {
	Ingest(ctx context.Context, upload io.Reader, opts BulkOptions) (*BatchResult, error)
}

type bulkService struct {
	invoices InvoiceService
	txm      port.TxManager
	email    port.EmailSender
	whatsapp port.MessageSender
}

// NewBulkService creates the BulkService implementation.
func NewBulkService(invoices InvoiceService, txm port.TxManager, email port.EmailSender, whatsapp port.MessageSender) BulkService {
	return &bulkService{invoices: invoices, txm: txm, email: email, whatsapp: whatsapp}
}

// committedRow carries what post-commit steps need about a success.
type committedRow struct {
	index   int
	invoice *domain.Invoice
	items   []domain.InvoiceItem
}

func (s *bulkService) Ingest(ctx context.Context, upload io.Reader, opts BulkOptions) (*BatchResult, error) {
	// Batch-level validation happens before any row is touched.
	if !opts.InvoiceType.Valid() {
		return nil, domain.Validationf("invoice_type must be topmate or user")
	}
	if opts.UserID == "" {
		return nil, domain.Validationf("user_id is required")
	}
	if (opts.SendEmail || opts.SendWhatsApp) && opts.CreateAsDraft {
		return nil, domain.Validationf("cannot send email or WhatsApp for draft invoices; set create_as_draft=false to send")
	}
	seller, err := s.invoices.ResolveSeller(ctx, opts.InvoiceType, opts.UserID, opts.Seller)
	if err != nil {
		return nil, err
	}

	rows, err := csvimport.ReadAll(upload)
	if err != nil {
		return nil, domain.Validationf("%v", err)
	}

	result := &BatchResult{
		TotalRows: len(rows),
		Successes: []RowSuccess{},
		Failures:  []RowFailure{},
	}

	// There is deliberately no batch-wide transaction: each row commits
	// on its own, so rows already written stay written no matter what
	// happens to the rest of the batch.
	var committed []committedRow
	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			// Aborted mid-batch: committed rows stay committed; the
			// remaining rows are reported, not silently dropped.
			for _, rest := range rows[i:] {
				result.Failures = append(result.Failures, RowFailure{
					Row: rest.Number, Data: rest.Fields,
					Reason: fmt.Sprintf("batch aborted: %v", err),
				})
			}
			break
		}

		row, parseErr := csvimport.ParseRow(raw)
		if parseErr != nil {
			result.Failures = append(result.Failures, RowFailure{
				Row: raw.Number, Data: raw.Fields, Reason: parseErr.Error(),
			})
			continue
		}

		var invoice *domain.Invoice
		var items []domain.InvoiceItem
		rowErr := s.txm.WithinSavepoint(ctx, func(rowCtx context.Context) error {
			var createErr error
			invoice, items, createErr = s.invoices.Create(rowCtx, rowInput(row, opts, seller))
			return createErr
		})
		if rowErr != nil {
			result.Failures = append(result.Failures, RowFailure{
				Row: raw.Number, Data: raw.Fields, Reason: rowErr.Error(),
			})
			continue
		}

		result.Successes = append(result.Successes, RowSuccess{
			Row:           row.Number,
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			BuyerName:     invoice.BuyerName,
			Total:         invoice.Total,
			IsDraft:       invoice.IsDraft,
		})
		committed = append(committed, committedRow{
			index:   len(result.Successes) - 1,
			invoice: invoice,
			items:   items,
		})
	}

	// Rendering and notification run strictly after the rows have
	// committed; their failures become row metadata, never row failures.
	for _, c := range committed {
		s.postCommit(ctx, c, opts, result)
	}

	result.Successful = len(result.Successes)
	result.Failed = len(result.Failures)
	return result, nil
}

// rowInput maps a validated CSV row onto the direct-create DTO. Unit
// prices stay GST-inclusive here; assembly does the extraction.
func rowInput(row *csvimport.Row, opts BulkOptions, seller *SellerDetails) CreateInvoiceInput {
	items := make([]LineItemInput, len(row.Descriptions))
	for i := range row.Descriptions {
		items[i] = LineItemInput{
			Description: row.Descriptions[i],
			HSNSAC:      row.HSNCodes[i],
			Quantity:    row.Quantities[i],
			// Per-line total value divided by quantity gives the
			// inclusive unit price.
			UnitPrice: row.TotalValues[i].Div(row.Quantities[i]),
		}
	}

	return CreateInvoiceInput{
		InvoiceType:  opts.InvoiceType,
		UserID:       opts.UserID,
		Seller:       seller,
		BuyerName:    row.ReceiverName,
		BuyerGSTIN:   row.GSTIN,
		BuyerAddress: row.ReceiverAddress,
		BuyerPincode: row.Pincode,
		BuyerState:   gst.StateFromPincode(row.Pincode),
		BuyerPhone:   row.Phone,
		BuyerEmail:   row.Email,
		Items:        items,
		GSTRate:      opts.GSTRate,
		IsDraft:      opts.CreateAsDraft,
	}
}

func (s *bulkService) postCommit(ctx context.Context, c committedRow, opts BulkOptions, result *BatchResult) {
	success := &result.Successes[c.index]

	// Drafts are not rendered or sent.
	if c.invoice.IsDraft {
		return
	}

	url, err := s.invoices.RenderAndAttach(ctx, c.invoice, c.items)
	if err != nil {
		log.Printf("bulk: document render failed for %s: %v", c.invoice.InvoiceNumber, err)
		success.RenderError = err.Error()
	} else {
		success.DocumentURL = url
	}

	if opts.SendEmail && c.invoice.BuyerEmail != "" {
		if err := s.email.SendInvoice(ctx, c.invoice, success.DocumentURL); err != nil {
			log.Printf("bulk: email failed for %s: %v", c.invoice.InvoiceNumber, err)
			success.EmailError = err.Error()
		} else {
			success.EmailSent = true
		}
	}

	if opts.SendWhatsApp && c.invoice.BuyerPhone != "" {
		receipt, err := s.whatsapp.SendInvoice(ctx, c.invoice, success.DocumentURL)
		if err != nil {
			log.Printf("bulk: whatsapp failed for %s: %v", c.invoice.InvoiceNumber, err)
			success.WhatsAppError = err.Error()
		} else {
			success.WhatsAppSent = receipt.Sent
			success.WhatsAppLink = receipt.ShareLink
			if !receipt.Sent {
				success.WhatsAppError = receipt.Detail
			}
		}
	}
}
