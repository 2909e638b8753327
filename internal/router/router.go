package router

import (
	"github.com/gin-gonic/gin"

	"gstbill/internal/handler"
	"gstbill/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	invoiceH *handler.InvoiceHandler,
	bulkH *handler.BulkHandler,
	profileH *handler.ProfileHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Invoice routes
	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.POST("/:id/finalize", invoiceH.Finalize)
	invoices.POST("/bulk-upload", bulkH.Upload)

	// Business profile routes
	profiles := v1.Group("/profiles")
	profiles.GET("/:user_id", profileH.Get)
	profiles.PUT("/:user_id", profileH.Upsert)

	return r
}
