package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"gstbill/internal/domain"
	"gstbill/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) error {
	if invoice.BuyerEmail == "" {
		return fmt.Errorf("invoice %s has no buyer email", invoice.InvoiceNumber)
	}

	subject := fmt.Sprintf("Invoice %s - Rs.%s", invoice.InvoiceNumber, invoice.Total.StringFixed(2))
	textBody := buildInvoiceText(invoice, documentURL)
	htmlBody := buildInvoiceHTML(invoice, documentURL)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{invoice.BuyerEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildInvoiceText(invoice *domain.Invoice, documentURL string) string {
	body := fmt.Sprintf(`Dear %s,

Please find your invoice %s.

Invoice Details:
- Invoice Number: %s
- Date: %s
- Total Amount: Rs.%s
`,
		invoice.BuyerName, invoice.InvoiceNumber, invoice.InvoiceNumber,
		invoice.InvoiceDate.Format("02/01/2006"), invoice.Total.StringFixed(2))
	if documentURL != "" {
		body += fmt.Sprintf("\nDownload: %s\n", documentURL)
	}
	body += fmt.Sprintf("\nThank you for your business!\n\nBest regards,\n%s", invoice.SellerName)
	return body
}

func buildInvoiceHTML(invoice *domain.Invoice, documentURL string) string {
	download := ""
	if documentURL != "" {
		download = fmt.Sprintf(`<p><a href="%s">Download invoice</a></p>`, documentURL)
	}
	return fmt.Sprintf(`<html><body>
<p>Dear %s,</p>
<p>Please find your invoice <strong>%s</strong>.</p>
<ul>
<li>Invoice Number: %s</li>
<li>Date: %s</li>
<li>Total Amount: Rs.%s</li>
</ul>
%s
<p>Thank you for your business!</p>
<p>Best regards,<br>%s</p>
</body></html>`,
		invoice.BuyerName, invoice.InvoiceNumber, invoice.InvoiceNumber,
		invoice.InvoiceDate.Format("02/01/2006"), invoice.Total.StringFixed(2),
		download, invoice.SellerName)
}
