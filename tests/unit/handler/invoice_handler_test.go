package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gstbill/internal/domain"
	"gstbill/internal/handler"
	"gstbill/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestInvoiceHandler_Create_Draft(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	invoice := &domain.Invoice{ID: uuid.New(), InvoiceNumber: "TM-000001", IsDraft: true}
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateInvoiceInput")).
		Return(invoice, []domain.InvoiceItem{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_type": "topmate",
		"user_id":      "user-1",
		"buyer_name":   "Asha",
		"is_draft":     true,
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	// Drafts are never rendered on create.
	mockSvc.AssertNotCalled(t, "RenderAndAttach", mock.Anything, mock.Anything, mock.Anything)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_FinalRendersDocument(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	invoice := &domain.Invoice{ID: uuid.New(), InvoiceNumber: "TM-000002"}
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateInvoiceInput")).
		Return(invoice, []domain.InvoiceItem{}, nil)
	mockSvc.On("RenderAndAttach", mock.Anything, invoice, mock.Anything).
		Return("https://docs.example/TM-000002.xlsx", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_type": "topmate",
		"user_id":      "user-1",
		"buyer_name":   "Asha",
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_ValidationError(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateInvoiceInput")).
		Return(nil, nil, domain.Validationf("at least one item is required"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"invoice_type": "topmate",
		"user_id":      "user-1",
	})

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestInvoiceHandler_GetByID_InvalidID(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_Update_FinalizedConflict(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.AnythingOfType("service.UpdateInvoiceInput")).
		Return(nil, nil, domain.ErrInvoiceFinalized)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPut, "/api/v1/invoices/"+id.String(), map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVOICE_FINALIZED", resp.Error.Code)
}

func TestInvoiceHandler_List(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	mockSvc.On("List", mock.Anything, "user-1", 0, 20).
		Return([]domain.InvoiceSummary{{InvoiceNumber: "TM-000001"}}, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?user_id=user-1", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Meta.Total)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Finalize(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Finalize", mock.Anything, id).
		Return(&domain.Invoice{ID: id, IsDraft: false}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/finalize", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Finalize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
