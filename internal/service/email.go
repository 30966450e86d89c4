package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService delivers transactional mail through Resend. In development
// (or without an API key) it degrades to logging, so the recovery flow can
// be exercised locally with the code read off the server log.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appName   string
}

func NewEmailService(apiKey, fromEmail, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appName:   appName,
	}
}

func (s *EmailService) send(emailType, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", subject, "body", body)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}

func (s *EmailService) SendRecoveryCodeEmail(email, code, username string) error {
	subject, body := recoveryCodeEmailTemplate(username, code, s.appName)
	return s.send("recovery_code", email, subject, body)
}

func (s *EmailService) SendWelcomeEmail(email, username string) error {
	subject, body := welcomeEmailTemplate(username, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendPasswordChangedEmail(email, username string) error {
	subject, body := passwordChangedEmailTemplate(username, s.appName)
	return s.send("password_changed", email, subject, body)
}

func (s *EmailService) SendAccountDeletedEmail(email, username string) error {
	subject, body := accountDeletedEmailTemplate(username, s.appName)
	return s.send("account_deleted", email, subject, body)
}
