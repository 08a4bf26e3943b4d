package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CheckoutNoticeEmailData holds data for the "your child was picked up" email.
type CheckoutNoticeEmailData struct {
	Email      string
	FamilyName string
	YouthName  string
	EventTitle string
	CheckedOut time.Time
	PickupCode string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCheckoutNotice(ctx context.Context, data *CheckoutNoticeEmailData) error
}
