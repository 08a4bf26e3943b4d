package services

import (
	"context"
	"fmt"
	"log/slog"

	"familycheckin/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendCheckoutNotice sends the "checked out" email using the "checkout_notice" template.
func (s *emailService) SendCheckoutNotice(ctx context.Context, data *domain.CheckoutNoticeEmailData) error {
	if data == nil {
		return fmt.Errorf("checkout notice data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("checkout_notice", data)
	if err != nil {
		return fmt.Errorf("failed to render checkout_notice template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send checkout notice email: %w", err)
	}
	s.logger.InfoContext(ctx, "checkout notice sent", "to", data.Email)
	return nil
}
