// Package twilio sends invoice notifications over the Twilio WhatsApp
// API. Without Twilio credentials the sender degrades to producing a
// wa.me deep link carrying the message body, so callers can still
// hand the user something shareable.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"gstbill/internal/config"
	"gstbill/internal/domain"
	"gstbill/internal/port"
)

const apiBase = "https://api.twilio.com/2010-04-01"

type sender struct {
	cfg    config.WhatsAppConfig
	client *retryablehttp.Client
}

// NewSender creates a Twilio-backed MessageSender.
func NewSender(cfg config.WhatsAppConfig) port.MessageSender {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	return &sender{cfg: cfg, client: client}
}

func (s *sender) SendInvoice(ctx context.Context, invoice *domain.Invoice, documentURL string) (*port.MessageReceipt, error) {
	if invoice.BuyerPhone == "" {
		return nil, fmt.Errorf("invoice %s has no buyer phone", invoice.InvoiceNumber)
	}

	body := messageBody(invoice, documentURL)

	if s.cfg.AccountSID == "" {
		return &port.MessageReceipt{
			Sent:      false,
			ShareLink: shareLink(invoice.BuyerPhone, body),
			Detail:    "WhatsApp provider not configured; share link generated instead",
		}, nil
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+s.cfg.FromNumber)
	form.Set("To", "whatsapp:"+normalizePhone(invoice.BuyerPhone))
	form.Set("Body", body)
	if documentURL != "" {
		form.Set("MediaUrl", documentURL)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", apiBase, s.cfg.AccountSID)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("twilio send: status %d: %s", resp.StatusCode, apiErr.Message)
	}

	return &port.MessageReceipt{Sent: true}, nil
}

func messageBody(invoice *domain.Invoice, documentURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nYour invoice is ready!\n\n", invoice.BuyerName)
	fmt.Fprintf(&b, "Invoice #: %s\n", invoice.InvoiceNumber)
	fmt.Fprintf(&b, "Date: %s\n", invoice.InvoiceDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "Amount: Rs.%s\n", invoice.Total.StringFixed(2))
	if documentURL != "" {
		fmt.Fprintf(&b, "\nDownload: %s\n", documentURL)
	}
	fmt.Fprintf(&b, "\nThank you for your business!\n- %s", invoice.SellerName)
	return b.String()
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}

func shareLink(phone, body string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		strings.TrimPrefix(normalizePhone(phone), "+"), url.QueryEscape(body))
}
