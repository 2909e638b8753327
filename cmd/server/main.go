package main

import (
	"fmt"
	"log"

	"gstbill/internal/config"
	"gstbill/internal/email/noop"
	"gstbill/internal/email/ses"
	"gstbill/internal/handler"
	"gstbill/internal/port"
	"gstbill/internal/render/xlsx"
	"gstbill/internal/repository/postgres"
	"gstbill/internal/router"
	"gstbill/internal/service"
	s3storage "gstbill/internal/storage/s3"
	"gstbill/internal/whatsapp/twilio"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	sequenceRepo := postgres.NewSequenceRepo(db)
	profileRepo := postgres.NewBusinessProfileRepo(db)
	txManager := postgres.NewTxManager(db)

	// Initialize storage and rendering
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	renderer := xlsx.NewRenderer()

	// Initialize delivery channels
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}
	whatsappSender := twilio.NewSender(cfg.WhatsApp)

	// Initialize services
	invoiceSvc := service.NewInvoiceService(
		invoiceRepo, sequenceRepo, profileRepo, txManager,
		renderer, s3Client, &cfg.Invoice, &cfg.S3,
	)
	bulkSvc := service.NewBulkService(invoiceSvc, txManager, emailSender, whatsappSender)
	profileSvc := service.NewProfileService(profileRepo)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	bulkH := handler.NewBulkHandler(bulkSvc, cfg.Invoice.MaxUploadMB)
	profileH := handler.NewProfileHandler(profileSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(invoiceH, bulkH, profileH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
