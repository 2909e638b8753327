package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessProfile stores the registered seller identity a user issues
// invoices under. One profile per user.
type BusinessProfile struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	BusinessName string    `db:"business_name" json:"business_name"`
	GSTIN        string    `db:"gstin" json:"gstin"`
	Address      string    `db:"address" json:"address"`
	Pincode      string    `db:"pincode" json:"pincode"`
	State        string    `db:"state" json:"state"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceSequence is the persisted counter behind invoice numbers.
// The key is (sequence_type, owner_id); owner_id is empty for the
// global topmate sequence. current_number only ever moves forward.
type InvoiceSequence struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	SequenceType  SequenceType `db:"sequence_type" json:"sequence_type"`
	OwnerID       string       `db:"owner_id" json:"owner_id"`
	CurrentNumber int64        `db:"current_number" json:"current_number"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// Invoice is the invoice header. Financial fields are derived by the
// tax engine and always satisfy total = subtotal + cgst + sgst + igst.
// A finalized invoice (is_draft = false) is immutable except for
// attaching a rendered document reference.
type Invoice struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	InvoiceNumber string      `db:"invoice_number" json:"invoice_number"`
	InvoiceType   InvoiceType `db:"invoice_type" json:"invoice_type"`
	UserID        string      `db:"user_id" json:"user_id"`

	InvoiceDate time.Time  `db:"invoice_date" json:"invoice_date"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`

	SellerName    string `db:"seller_name" json:"seller_name"`
	SellerGSTIN   string `db:"seller_gstin" json:"seller_gstin"`
	SellerAddress string `db:"seller_address" json:"seller_address"`
	SellerPincode string `db:"seller_pincode" json:"seller_pincode"`
	SellerState   string `db:"seller_state" json:"seller_state"`
	SellerPhone   string `db:"seller_phone" json:"seller_phone"`
	SellerEmail   string `db:"seller_email" json:"seller_email"`

	BuyerName    string `db:"buyer_name" json:"buyer_name"`
	BuyerGSTIN   string `db:"buyer_gstin" json:"buyer_gstin"`
	BuyerAddress string `db:"buyer_address" json:"buyer_address"`
	BuyerPincode string `db:"buyer_pincode" json:"buyer_pincode"`
	BuyerState   string `db:"buyer_state" json:"buyer_state"`
	BuyerPhone   string `db:"buyer_phone" json:"buyer_phone"`
	BuyerEmail   string `db:"buyer_email" json:"buyer_email"`

	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`
	CGST     decimal.Decimal `db:"cgst" json:"cgst"`
	SGST     decimal.Decimal `db:"sgst" json:"sgst"`
	IGST     decimal.Decimal `db:"igst" json:"igst"`
	Total    decimal.Decimal `db:"total" json:"total"`

	GSTRate      decimal.Decimal `db:"gst_rate" json:"gst_rate"`
	IsInterstate bool            `db:"is_interstate" json:"is_interstate"`

	Notes        string `db:"notes" json:"notes"`
	PaymentTerms string `db:"payment_terms" json:"payment_terms"`
	DocumentURL  string `db:"document_url" json:"document_url"`

	IsDraft   bool      `db:"is_draft" json:"is_draft"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InvoiceItem is one line of an invoice. Items are exclusively owned
// by their header; replacing a draft's line set deletes and recreates
// them with contiguous 1-based serial numbers. unit_price is stored
// GST-exclusive and amount = round(quantity * unit_price).
type InvoiceItem struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	InvoiceID    uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	SerialNumber int             `db:"serial_number" json:"serial_number"`
	Description  string          `db:"description" json:"description"`
	HSNSAC       string          `db:"hsn_sac" json:"hsn_sac"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// InvoiceSummary is the lightweight listing shape.
type InvoiceSummary struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	InvoiceType   InvoiceType     `db:"invoice_type" json:"invoice_type"`
	BuyerName     string          `db:"buyer_name" json:"buyer_name"`
	Total         decimal.Decimal `db:"total" json:"total"`
	InvoiceDate   time.Time       `db:"invoice_date" json:"invoice_date"`
	IsDraft       bool            `db:"is_draft" json:"is_draft"`
	ItemCount     int             `db:"item_count" json:"item_count"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
