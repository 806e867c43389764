// Package email provides the email client for operator alerts.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/email/templates"
)

// Service defines the interface for sending operator alerts, allowing
// for mock implementations in tests.
type Service interface {
	SendOperatorAlert(subject, detail string) error
}

// ResendClient is the concrete implementation of the email Service
// using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
}

// NewService creates the Resend-backed alert service.
func NewService(apiKey, fromEmail, toEmail string) (Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if toEmail == "" {
		return nil, fmt.Errorf("alert recipient address is required")
	}
	if fromEmail == "" {
		fromEmail = "alerts@storydesk.app"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}, nil
}

// SendOperatorAlert composes and sends one alert email.
func (c *ResendClient) SendOperatorAlert(subject, detail string) error {
	htmlContent := templates.GetAlertEmail(templates.AlertEmailProps{
		Subject: subject,
		Detail:  detail,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("StoryDesk <%s>", c.fromEmail),
		To:      []string{c.toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send operator alert via Resend: %w", err)
	}

	return nil
}
