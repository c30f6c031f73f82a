package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// StaffWelcomeEmailData holds data for the email sent when an admin creates
// a staff account.
type StaffWelcomeEmailData struct {
	Email     string
	Name      string
	Role      string
	CreatedBy string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendStaffWelcome(ctx context.Context, data *StaffWelcomeEmailData) error
}
