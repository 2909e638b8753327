package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstbill/internal/domain"
	"gstbill/internal/port"
	"gstbill/internal/service"
	"gstbill/mocks"
)

const bulkHeader = "receiver_name,receiver_address,pincode,phone,email,gstin,product_descriptions,hsn_sac_codes,quantities,total_values"

func setupBulkService() (*mocks.MockInvoiceService, *mocks.MockEmailSender, *mocks.MockMessageSender, service.BulkService) {
	invoiceSvc := new(mocks.MockInvoiceService)
	email := new(mocks.MockEmailSender)
	whatsapp := new(mocks.MockMessageSender)
	svc := service.NewBulkService(invoiceSvc, &mocks.MockTxManager{}, email, whatsapp)
	return invoiceSvc, email, whatsapp, svc
}

func topmateSeller() *service.SellerDetails {
	return &service.SellerDetails{
		Name:    "Topmate",
		GSTIN:   "29ABCDE1234F1Z5",
		Address: "Bengaluru, Karnataka",
		Pincode: "560001",
		State:   "KA",
	}
}

func committedInvoice(number, buyer string) *domain.Invoice {
	return &domain.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: number,
		BuyerName:     buyer,
		Total:         dec("1180.00"),
	}
}

func TestIngest_PartialSuccessKeepsGoodRows(t *testing.T) {
	invoiceSvc, _, _, svc := setupBulkService()

	// Row 2 has two descriptions but one quantity.
	csv := bulkHeader + "\n" +
		"Asha,12 MG Road,560001,,,,Consulting,9983,1,1180.00\n" +
		"Ravi,4 Park St,110001,,,,\"Design, Dev\",\"9983, 9983\",1,\"590.00, 590.00\"\n" +
		"Meena,9 Lake View,400001,,,,Audit,9982,1,2360.00\n"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(committedInvoice("TM-000001", "Asha"), []domain.InvoiceItem{}, nil).Once()
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(committedInvoice("TM-000002", "Meena"), []domain.InvoiceItem{}, nil).Once()
	invoiceSvc.On("RenderAndAttach", mock.Anything, mock.Anything, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Reason, "product fields must have same count")
	assert.Equal(t, "Ravi", result.Failures[0].Data["receiver_name"])

	// Successes keep input order with 1-based data row numbers.
	require.Len(t, result.Successes, 2)
	assert.Equal(t, 1, result.Successes[0].Row)
	assert.Equal(t, 3, result.Successes[1].Row)
	assert.Equal(t, "TM-000001", result.Successes[0].InvoiceNumber)
	invoiceSvc.AssertExpectations(t)
}

func TestIngest_RowCreateFailureIsIsolated(t *testing.T) {
	invoiceSvc, _, _, svc := setupBulkService()

	csv := bulkHeader + "\n" +
		"Asha,12 MG Road,560001,,,,Consulting,9983,1,1180.00\n" +
		"Ravi,4 Park St,110001,,,,Design,9983,1,590.00\n"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("duplicate invoice number")).Once()
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(committedInvoice("TM-000002", "Ravi"), []domain.InvoiceItem{}, nil).Once()
	invoiceSvc.On("RenderAndAttach", mock.Anything, mock.Anything, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Reason, "duplicate invoice number")
}

func TestIngest_SendWithDraftRejectedBeforeAnyRow(t *testing.T) {
	invoiceSvc, _, _, svc := setupBulkService()

	csv := bulkHeader + "\nAsha,12 MG Road,560001,,,,Consulting,9983,1,1180.00\n"

	_, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType:   domain.InvoiceTypeTopmate,
		UserID:        "user-1",
		CreateAsDraft: true,
		SendEmail:     true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	invoiceSvc.AssertNotCalled(t, "ResolveSeller", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	invoiceSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngest_MissingColumnsRejectBatch(t *testing.T) {
	invoiceSvc, _, _, svc := setupBulkService()

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)

	csv := "receiver_name,pincode\nAsha,560001\n"

	_, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "missing csv columns")
	invoiceSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngest_SendsEmailAfterCommit(t *testing.T) {
	invoiceSvc, email, _, svc := setupBulkService()

	csv := bulkHeader + "\nAsha,12 MG Road,560001,,asha@example.com,,Consulting,9983,1,1180.00\n"

	invoice := committedInvoice("TM-000001", "Asha")
	invoice.BuyerEmail = "asha@example.com"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(invoice, []domain.InvoiceItem{}, nil)
	invoiceSvc.On("RenderAndAttach", mock.Anything, invoice, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)
	email.On("SendInvoice", mock.Anything, invoice, "https://docs.example/inv.xlsx").Return(nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
		SendEmail:   true,
	})
	require.NoError(t, err)

	require.Len(t, result.Successes, 1)
	assert.True(t, result.Successes[0].EmailSent)
	assert.Empty(t, result.Successes[0].EmailError)
	assert.Equal(t, "https://docs.example/inv.xlsx", result.Successes[0].DocumentURL)
	email.AssertExpectations(t)
}

func TestIngest_EmailFailureIsRowMetadata(t *testing.T) {
	invoiceSvc, email, _, svc := setupBulkService()

	csv := bulkHeader + "\nAsha,12 MG Road,560001,,asha@example.com,,Consulting,9983,1,1180.00\n"

	invoice := committedInvoice("TM-000001", "Asha")
	invoice.BuyerEmail = "asha@example.com"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(invoice, []domain.InvoiceItem{}, nil)
	invoiceSvc.On("RenderAndAttach", mock.Anything, invoice, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)
	email.On("SendInvoice", mock.Anything, invoice, mock.Anything).Return(errors.New("ses throttled"))

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
		SendEmail:   true,
	})
	require.NoError(t, err)

	// Delivery failure never demotes a committed row.
	assert.Equal(t, 1, result.Successful)
	assert.False(t, result.Successes[0].EmailSent)
	assert.Contains(t, result.Successes[0].EmailError, "ses throttled")
}

func TestIngest_WhatsAppShareLinkFallback(t *testing.T) {
	invoiceSvc, _, whatsapp, svc := setupBulkService()

	csv := bulkHeader + "\nAsha,12 MG Road,560001,+919800000000,,,Consulting,9983,1,1180.00\n"

	invoice := committedInvoice("TM-000001", "Asha")
	invoice.BuyerPhone = "+919800000000"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(invoice, []domain.InvoiceItem{}, nil)
	invoiceSvc.On("RenderAndAttach", mock.Anything, invoice, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)
	whatsapp.On("SendInvoice", mock.Anything, invoice, mock.Anything).Return(&port.MessageReceipt{
		Sent:      false,
		ShareLink: "https://wa.me/919800000000?text=hello",
		Detail:    "WhatsApp provider not configured; share link generated instead",
	}, nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType:  domain.InvoiceTypeTopmate,
		UserID:       "user-1",
		SendWhatsApp: true,
	})
	require.NoError(t, err)

	require.Len(t, result.Successes, 1)
	assert.False(t, result.Successes[0].WhatsAppSent)
	assert.Equal(t, "https://wa.me/919800000000?text=hello", result.Successes[0].WhatsAppLink)
	assert.Contains(t, result.Successes[0].WhatsAppError, "not configured")
}

// countingTxManager records how each scope kind is entered while still
// running the callbacks, so tests can observe the transaction shape.
type countingTxManager struct {
	txCalls        int
	savepointCalls int
}

func (m *countingTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.txCalls++
	return fn(ctx)
}

func (m *countingTxManager) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	m.savepointCalls++
	return fn(ctx)
}

func TestIngest_AbortMidBatchKeepsCommittedRows(t *testing.T) {
	invoiceSvc := new(mocks.MockInvoiceService)
	email := new(mocks.MockEmailSender)
	whatsapp := new(mocks.MockMessageSender)
	svc := service.NewBulkService(invoiceSvc, &mocks.MockTxManager{}, email, whatsapp)

	csv := bulkHeader + "\n" +
		"Asha,12 MG Road,560001,,,,Consulting,9983,1,1180.00\n" +
		"Ravi,4 Park St,110001,,,,Design,9983,1,590.00\n"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	// The caller gives up while row 1 is being written.
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(committedInvoice("TM-000001", "Asha"), []domain.InvoiceItem{}, nil).Once()
	invoiceSvc.On("RenderAndAttach", mock.Anything, mock.Anything, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)

	result, err := svc.Ingest(ctx, strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
	})

	// The committed row must survive and be reported, not rolled back
	// or discarded behind a bare error.
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, "TM-000001", result.Successes[0].InvoiceNumber)

	require.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Reason, "batch aborted")
	assert.Equal(t, "Ravi", result.Failures[0].Data["receiver_name"])

	invoiceSvc.AssertNumberOfCalls(t, "Create", 1)
}

func TestIngest_EachRowCommitsIndependently(t *testing.T) {
	invoiceSvc := new(mocks.MockInvoiceService)
	txm := &countingTxManager{}
	svc := service.NewBulkService(invoiceSvc, txm, new(mocks.MockEmailSender), new(mocks.MockMessageSender))

	csv := bulkHeader + "\n" +
		"Asha,12 MG Road,560001,,,,Consulting,9983,1,1180.00\n" +
		"Ravi,4 Park St,110001,,,,Design,9983,1,590.00\n" +
		"Meena,9 Lake View,400001,,,,Audit,9982,1,2360.00\n"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(committedInvoice("TM-000001", "Asha"), []domain.InvoiceItem{}, nil)
	invoiceSvc.On("RenderAndAttach", mock.Anything, mock.Anything, mock.Anything).
		Return("https://docs.example/inv.xlsx", nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType: domain.InvoiceTypeTopmate,
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Successful)

	// One independent scope per row and no batch-wide transaction.
	assert.Equal(t, 0, txm.txCalls)
	assert.Equal(t, 3, txm.savepointCalls)
}

func TestIngest_DraftsSkipRenderingAndDelivery(t *testing.T) {
	invoiceSvc, email, whatsapp, svc := setupBulkService()

	csv := bulkHeader + "\nAsha,12 MG Road,560001,,asha@example.com,,Consulting,9983,1,1180.00\n"

	invoice := committedInvoice("TM-000001", "Asha")
	invoice.IsDraft = true
	invoice.BuyerEmail = "asha@example.com"

	invoiceSvc.On("ResolveSeller", mock.Anything, domain.InvoiceTypeTopmate, "user-1", (*service.SellerDetails)(nil)).
		Return(topmateSeller(), nil)
	invoiceSvc.On("Create", mock.Anything, mock.Anything).
		Return(invoice, []domain.InvoiceItem{}, nil)

	result, err := svc.Ingest(context.Background(), strings.NewReader(csv), service.BulkOptions{
		InvoiceType:   domain.InvoiceTypeTopmate,
		UserID:        "user-1",
		CreateAsDraft: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.True(t, result.Successes[0].IsDraft)
	invoiceSvc.AssertNotCalled(t, "RenderAndAttach", mock.Anything, mock.Anything, mock.Anything)
	email.AssertNotCalled(t, "SendInvoice", mock.Anything, mock.Anything, mock.Anything)
	whatsapp.AssertNotCalled(t, "SendInvoice", mock.Anything, mock.Anything, mock.Anything)
}
