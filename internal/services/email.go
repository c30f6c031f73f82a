package services

import (
	"context"
	"fmt"
	"log"

	"eventcheckin/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendStaffWelcome sends the account-created email using the "staff_welcome" template.
func (s *emailService) SendStaffWelcome(ctx context.Context, data *domain.StaffWelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("staff welcome data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("staff_welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render staff_welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send staff welcome email: %w", err)
	}
	log.Printf("[EMAIL] Staff welcome email sent to %s", data.Email)
	return nil
}
