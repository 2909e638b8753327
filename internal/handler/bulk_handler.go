package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gstbill/internal/domain"
	"gstbill/internal/service"
)

// BulkHandler handles bulk CSV invoice ingestion.
type BulkHandler struct {
	bulkService service.BulkService
	maxUploadMB int64
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(bulkService service.BulkService, maxUploadMB int64) *BulkHandler {
	return &BulkHandler{bulkService: bulkService, maxUploadMB: maxUploadMB}
}

// Upload handles POST /api/v1/invoices/bulk-upload. The request is a
// multipart form with the CSV under "file" and batch options as form
// fields.
func (h *BulkHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "a CSV file is required under the 'file' field")
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		HandleError(c, domain.ErrUnsupportedUpload)
		return
	}
	if fileHeader.Size > h.maxUploadMB*1024*1024 {
		HandleError(c, domain.ErrUploadTooLarge)
		return
	}

	opts, err := h.parseOptions(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer file.Close()

	result, err := h.bulkService.Ingest(c.Request.Context(), file, opts)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *BulkHandler) parseOptions(c *gin.Context) (service.BulkOptions, error) {
	opts := service.BulkOptions{
		InvoiceType:   domain.InvoiceType(c.PostForm("invoice_type")),
		UserID:        c.PostForm("user_id"),
		CreateAsDraft: formBool(c, "create_as_draft"),
		SendEmail:     formBool(c, "send_email"),
		SendWhatsApp:  formBool(c, "send_whatsapp"),
	}

	if raw := c.PostForm("gst_rate"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, domain.Validationf("gst_rate %q is not a valid number", raw)
		}
		opts.GSTRate = &rate
	}

	if name := c.PostForm("seller_name"); name != "" {
		opts.Seller = &service.SellerDetails{
			Name:    name,
			GSTIN:   c.PostForm("seller_gstin"),
			Address: c.PostForm("seller_address"),
			State:   c.PostForm("seller_state"),
			Pincode: c.PostForm("seller_pincode"),
		}
	}
	return opts, nil
}

func formBool(c *gin.Context, field string) bool {
	v, err := strconv.ParseBool(c.DefaultPostForm(field, "false"))
	return err == nil && v
}
