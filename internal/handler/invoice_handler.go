package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstbill/internal/domain"
	"gstbill/internal/service"
)

// InvoiceHandler handles invoice lifecycle endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// invoiceResponse bundles a header with its line items.
type invoiceResponse struct {
	*domain.Invoice
	Items []domain.InvoiceItem `json:"items"`
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var input service.CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	invoice, items, err := h.invoiceService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Rendering is best-effort; the committed invoice is returned
	// either way.
	if !invoice.IsDraft {
		if _, err := h.invoiceService.RenderAndAttach(c.Request.Context(), invoice, items); err != nil {
			log.Printf("rendering invoice %s: %v", invoice.InvoiceNumber, err)
		}
	}

	RespondCreated(c, invoiceResponse{Invoice: invoice, Items: items})
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	invoice, items, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoiceResponse{Invoice: invoice, Items: items})
}

// List handles GET /api/v1/invoices?user_id=...
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	summaries, total, err := h.invoiceService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, summaries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/invoices/:id — draft-only edit with full
// line replacement.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	var input service.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	invoice, items, err := h.invoiceService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoiceResponse{Invoice: invoice, Items: items})
}

// Finalize handles POST /api/v1/invoices/:id/finalize
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	invoice, err := h.invoiceService.Finalize(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoice)
}
