package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstbill/internal/config"
	"gstbill/internal/domain"
	"gstbill/internal/gst"
	"gstbill/internal/money"
	"gstbill/internal/numbering"
	"gstbill/internal/port"
)

// LineItemInput is one prospective invoice line. UnitPrice arrives
// GST-inclusive and is converted to the stored exclusive price during
// assembly.
type LineItemInput struct {
	Description string          `json:"description" binding:"required"`
	HSNSAC      string          `json:"hsn_sac" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// SellerDetails is the issuing party's identity block.
type SellerDetails struct {
	Name    string `json:"seller_name"`
	GSTIN   string `json:"seller_gstin"`
	Address string `json:"seller_address"`
	Pincode string `json:"seller_pincode"`
	State   string `json:"seller_state"`
	Phone   string `json:"seller_phone"`
	Email   string `json:"seller_email"`
}

// CreateInvoiceInput is the DTO for creating an invoice.
type CreateInvoiceInput struct {
	InvoiceType domain.InvoiceType `json:"invoice_type"`
	UserID      string             `json:"user_id"`

	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`

	Seller *SellerDetails `json:"seller"`

	BuyerName    string `json:"buyer_name"`
	BuyerGSTIN   string `json:"buyer_gstin"`
	BuyerAddress string `json:"buyer_address"`
	BuyerPincode string `json:"buyer_pincode"`
	BuyerState   string `json:"buyer_state"`
	BuyerPhone   string `json:"buyer_phone"`
	BuyerEmail   string `json:"buyer_email"`

	Items []LineItemInput `json:"items"`

	GSTRate      *decimal.Decimal `json:"gst_rate"`
	Notes        string           `json:"notes"`
	PaymentTerms string           `json:"payment_terms"`
	IsDraft      bool             `json:"is_draft"`
}

// UpdateInvoiceInput is the DTO for editing a draft. Items fully
// replace the existing line set.
type UpdateInvoiceInput struct {
	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`

	BuyerName    *string `json:"buyer_name"`
	BuyerGSTIN   *string `json:"buyer_gstin"`
	BuyerAddress *string `json:"buyer_address"`
	BuyerPincode *string `json:"buyer_pincode"`
	BuyerState   *string `json:"buyer_state"`
	BuyerPhone   *string `json:"buyer_phone"`
	BuyerEmail   *string `json:"buyer_email"`

	Items []LineItemInput `json:"items"`

	GSTRate      *decimal.Decimal `json:"gst_rate"`
	Notes        *string          `json:"notes"`
	PaymentTerms *string          `json:"payment_terms"`
}

// InvoiceService defines the invoice assembly and lifecycle contract.
type InvoiceService interface {
	Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, []domain.InvoiceItem, error)
	List(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error)
	Finalize(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	// ResolveSeller returns the complete seller identity for an
	// issuer: the platform identity for topmate invoices, otherwise
	// the supplied details falling back to the user's stored profile.
	ResolveSeller(ctx context.Context, invoiceType domain.InvoiceType, userID string, seller *SellerDetails) (*SellerDetails, error)
	// RenderAndAttach renders the document artifact, stores it and
	// attaches its URL to the invoice. Callers treat failures as
	// best-effort metadata, not as invoice failures.
	RenderAndAttach(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (string, error)
}

type invoiceService struct {
	invoices  port.InvoiceRepository
	sequences port.SequenceRepository
	profiles  port.BusinessProfileRepository
	txm       port.TxManager
	renderer  port.DocumentRenderer
	storage   port.ObjectStorage
	cfg       *config.InvoiceConfig
	s3cfg     *config.S3Config

	defaultRate decimal.Decimal
}

// NewInvoiceService creates the InvoiceService implementation.
func NewInvoiceService(
	invoices port.InvoiceRepository,
	sequences port.SequenceRepository,
	profiles port.BusinessProfileRepository,
	txm port.TxManager,
	renderer port.DocumentRenderer,
	storage port.ObjectStorage,
	cfg *config.InvoiceConfig,
	s3cfg *config.S3Config,
) InvoiceService {
	rate, err := decimal.NewFromString(cfg.DefaultGSTRate)
	if err != nil {
		rate = decimal.NewFromFloat(18.00)
	}
	return &invoiceService{
		invoices:    invoices,
		sequences:   sequences,
		profiles:    profiles,
		txm:         txm,
		renderer:    renderer,
		storage:     storage,
		cfg:         cfg,
		s3cfg:       s3cfg,
		defaultRate: rate,
	}
}

func (s *invoiceService) ResolveSeller(ctx context.Context, invoiceType domain.InvoiceType, userID string, seller *SellerDetails) (*SellerDetails, error) {
	if invoiceType == domain.InvoiceTypeTopmate {
		return &SellerDetails{
			Name:    s.cfg.CompanyName,
			GSTIN:   s.cfg.CompanyGSTIN,
			Address: s.cfg.CompanyAddress,
			Pincode: s.cfg.CompanyPincode,
			State:   s.cfg.CompanyState,
			Phone:   s.cfg.CompanyPhone,
			Email:   s.cfg.CompanyEmail,
		}, nil
	}

	resolved := seller
	if resolved == nil || resolved.Name == "" {
		profile, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			if resolved != nil {
				return nil, domain.Validationf("seller details are required for user invoices")
			}
			return nil, domain.Validationf("no seller details supplied and no business profile found for user %s", userID)
		}
		resolved = &SellerDetails{
			Name:    profile.BusinessName,
			GSTIN:   profile.GSTIN,
			Address: profile.Address,
			Pincode: profile.Pincode,
			State:   profile.State,
			Phone:   profile.Phone,
			Email:   profile.Email,
		}
	}

	if resolved.GSTIN == "" {
		return nil, domain.Validationf("seller GSTIN is mandatory for user invoices")
	}
	normalized, ok := gst.NormalizeGSTIN(resolved.GSTIN)
	if !ok {
		return nil, domain.Validationf("invalid seller GSTIN format")
	}
	resolved.GSTIN = normalized
	if resolved.Name == "" || resolved.Address == "" {
		return nil, domain.Validationf("seller name and address are required for user invoices")
	}
	if !gst.ValidPincode(resolved.Pincode) {
		return nil, domain.Validationf("seller pincode must be 6 digits")
	}
	if !gst.ValidState(resolved.State) {
		return nil, domain.Validationf("unknown seller state code %q", resolved.State)
	}
	return resolved, nil
}

// effectiveRate resolves the percent rate for an invoice, defaulting
// when the caller did not supply one.
func (s *invoiceService) effectiveRate(rate *decimal.Decimal) (decimal.Decimal, error) {
	if rate == nil {
		return s.defaultRate, nil
	}
	if rate.IsNegative() {
		return decimal.Zero, domain.Validationf("gst_rate must not be negative")
	}
	return *rate, nil
}

// buildLines converts inclusive input lines into tax-engine lines and
// serialized invoice items. Line amounts come back from the engine so
// items always carry the engine's rounded values.
func buildLines(items []LineItemInput, rate decimal.Decimal) ([]gst.TaxLine, []domain.InvoiceItem, error) {
	if len(items) == 0 {
		return nil, nil, domain.Validationf("at least one item is required")
	}

	taxLines := make([]gst.TaxLine, 0, len(items))
	rows := make([]domain.InvoiceItem, 0, len(items))
	for i, item := range items {
		if item.Description == "" {
			return nil, nil, domain.Validationf("item %d: description is required", i+1)
		}
		if !item.Quantity.IsPositive() {
			return nil, nil, domain.Validationf("item %d: quantity must be greater than 0", i+1)
		}
		if !item.UnitPrice.IsPositive() {
			return nil, nil, domain.Validationf("item %d: unit price must be greater than 0", i+1)
		}
		basePrice := gst.ExclusivePrice(item.UnitPrice, rate)
		taxLines = append(taxLines, gst.TaxLine{Quantity: item.Quantity, UnitPrice: basePrice})
		rows = append(rows, domain.InvoiceItem{
			SerialNumber: i + 1,
			Description:  item.Description,
			HSNSAC:       item.HSNSAC,
			Quantity:     item.Quantity,
			UnitPrice:    basePrice,
		})
	}
	return taxLines, rows, nil
}

func (s *invoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error) {
	if !input.InvoiceType.Valid() {
		return nil, nil, domain.Validationf("invoice_type must be topmate or user")
	}
	if input.UserID == "" {
		return nil, nil, domain.Validationf("user_id is required")
	}
	if input.BuyerName == "" || input.BuyerAddress == "" {
		return nil, nil, domain.Validationf("buyer name and address are required")
	}
	if !gst.ValidState(input.BuyerState) {
		return nil, nil, domain.Validationf("unknown buyer state code %q", input.BuyerState)
	}
	buyerGSTIN := input.BuyerGSTIN
	if buyerGSTIN != "" {
		normalized, ok := gst.NormalizeGSTIN(buyerGSTIN)
		if !ok {
			return nil, nil, domain.Validationf("invalid buyer GSTIN format")
		}
		buyerGSTIN = normalized
	}

	seller, err := s.ResolveSeller(ctx, input.InvoiceType, input.UserID, input.Seller)
	if err != nil {
		return nil, nil, err
	}
	rate, err := s.effectiveRate(input.GSTRate)
	if err != nil {
		return nil, nil, err
	}

	taxLines, items, err := buildLines(input.Items, rate)
	if err != nil {
		return nil, nil, err
	}
	breakdown, err := gst.Compute(taxLines, seller.State, input.BuyerState, rate)
	if err != nil {
		return nil, nil, err
	}
	for i := range items {
		items[i].Amount = breakdown.LineAmounts[i]
	}

	number, err := s.sequences.Next(ctx, domain.SequenceTypeFor(input.InvoiceType), sequenceOwner(input.InvoiceType, input.UserID))
	if err != nil {
		return nil, nil, err
	}

	invoiceDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	invoice := &domain.Invoice{
		InvoiceNumber: numbering.Format(input.InvoiceType, input.UserID, number, s.cfg.TopmatePrefix),
		InvoiceType:   input.InvoiceType,
		UserID:        input.UserID,
		InvoiceDate:   invoiceDate,
		DueDate:       input.DueDate,
		SellerName:    seller.Name,
		SellerGSTIN:   seller.GSTIN,
		SellerAddress: seller.Address,
		SellerPincode: seller.Pincode,
		SellerState:   seller.State,
		SellerPhone:   seller.Phone,
		SellerEmail:   seller.Email,
		BuyerName:     input.BuyerName,
		BuyerGSTIN:    buyerGSTIN,
		BuyerAddress:  input.BuyerAddress,
		BuyerPincode:  input.BuyerPincode,
		BuyerState:    input.BuyerState,
		BuyerPhone:    input.BuyerPhone,
		BuyerEmail:    input.BuyerEmail,
		Subtotal:      breakdown.Subtotal,
		CGST:          breakdown.CGST,
		SGST:          breakdown.SGST,
		IGST:          breakdown.IGST,
		Total:         breakdown.Total,
		GSTRate:       money.Round(rate),
		IsInterstate:  breakdown.IsInterstate,
		Notes:         input.Notes,
		PaymentTerms:  input.PaymentTerms,
		IsDraft:       input.IsDraft,
	}

	// Header and lines commit as one unit. The allocated number is
	// already durable; a failure here leaves a gap, never a reuse.
	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		return s.invoices.Create(ctx, invoice, items)
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func sequenceOwner(invoiceType domain.InvoiceType, userID string) string {
	if invoiceType == domain.InvoiceTypeTopmate {
		return ""
	}
	return userID
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, []domain.InvoiceItem, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.invoices.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func (s *invoiceService) List(ctx context.Context, userID string, offset, limit int) ([]domain.InvoiceSummary, int, error) {
	if userID == "" {
		return nil, 0, domain.Validationf("user_id is required")
	}
	return s.invoices.ListByUser(ctx, userID, offset, limit)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input UpdateInvoiceInput) (*domain.Invoice, []domain.InvoiceItem, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !invoice.IsDraft {
		return nil, nil, domain.ErrInvoiceFinalized
	}

	if input.InvoiceDate != nil {
		invoice.InvoiceDate = *input.InvoiceDate
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate
	}
	if input.BuyerName != nil {
		invoice.BuyerName = *input.BuyerName
	}
	if input.BuyerGSTIN != nil {
		gstin := *input.BuyerGSTIN
		if gstin != "" {
			normalized, ok := gst.NormalizeGSTIN(gstin)
			if !ok {
				return nil, nil, domain.Validationf("invalid buyer GSTIN format")
			}
			gstin = normalized
		}
		invoice.BuyerGSTIN = gstin
	}
	if input.BuyerAddress != nil {
		invoice.BuyerAddress = *input.BuyerAddress
	}
	if input.BuyerPincode != nil {
		invoice.BuyerPincode = *input.BuyerPincode
	}
	if input.BuyerState != nil {
		if !gst.ValidState(*input.BuyerState) {
			return nil, nil, domain.Validationf("unknown buyer state code %q", *input.BuyerState)
		}
		invoice.BuyerState = *input.BuyerState
	}
	if input.BuyerPhone != nil {
		invoice.BuyerPhone = *input.BuyerPhone
	}
	if input.BuyerEmail != nil {
		invoice.BuyerEmail = *input.BuyerEmail
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}
	if input.PaymentTerms != nil {
		invoice.PaymentTerms = *input.PaymentTerms
	}

	rate := invoice.GSTRate
	if input.GSTRate != nil {
		if input.GSTRate.IsNegative() {
			return nil, nil, domain.Validationf("gst_rate must not be negative")
		}
		rate = *input.GSTRate
	}

	// Edits always replace the full line set and recompute every
	// derived field from scratch.
	taxLines, items, err := buildLines(input.Items, rate)
	if err != nil {
		return nil, nil, err
	}
	breakdown, err := gst.Compute(taxLines, invoice.SellerState, invoice.BuyerState, rate)
	if err != nil {
		return nil, nil, err
	}
	for i := range items {
		items[i].Amount = breakdown.LineAmounts[i]
	}

	invoice.Subtotal = breakdown.Subtotal
	invoice.CGST = breakdown.CGST
	invoice.SGST = breakdown.SGST
	invoice.IGST = breakdown.IGST
	invoice.Total = breakdown.Total
	invoice.GSTRate = money.Round(rate)
	invoice.IsInterstate = breakdown.IsInterstate

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		return s.invoices.Update(ctx, invoice, items)
	})
	if err != nil {
		return nil, nil, err
	}
	return invoice, items, nil
}

func (s *invoiceService) Finalize(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	if err := s.invoices.Finalize(ctx, id); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, id)
}

func (s *invoiceService) RenderAndAttach(ctx context.Context, invoice *domain.Invoice, items []domain.InvoiceItem) (string, error) {
	doc, err := s.renderer.Render(ctx, invoice, items)
	if err != nil {
		return "", fmt.Errorf("rendering invoice %s: %w", invoice.InvoiceNumber, err)
	}

	key := fmt.Sprintf("invoices/%s/%s", invoice.UserID, doc.FileName)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(doc.Body),
		ContentType: doc.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("storing invoice document %s: %w", invoice.InvoiceNumber, err)
	}

	url := out.Location
	if presigned, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, key, s.s3cfg.PresignExpiry); err == nil {
		url = presigned
	}

	if err := s.invoices.AttachDocument(ctx, invoice.ID, url); err != nil {
		return "", err
	}
	invoice.DocumentURL = url
	return url, nil
}
