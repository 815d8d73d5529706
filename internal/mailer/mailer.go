package mailer

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Service sends transactional notifications through SendGrid. With no
// API key configured it degrades to a logged no-op so local setups
// never fail on mail.
type Service struct {
	apiKey    string
	fromEmail string
	fromName  string
	log       *logrus.Logger
}

func New(apiKey, fromEmail, fromName string, log *logrus.Logger) *Service {
	return &Service{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		log:       log,
	}
}

func (s *Service) Send(toEmail, subject, htmlContent string) error {
	if s.apiKey == "" {
		s.log.WithField("to", toEmail).Debug("sendgrid not configured, skipping email")
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, htmlContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}

	s.log.WithField("to", toEmail).Info("email sent")
	return nil
}

// SendSupplierDecision notifies a supplier owner about an admin
// decision on their storefront application.
func (s *Service) SendSupplierDecision(toEmail, businessName, status, note string) error {
	subject := fmt.Sprintf("Your Casa di Moda storefront is %s", status)
	body := fmt.Sprintf("<p>Hello,</p><p>Your storefront <strong>%s</strong> has been <strong>%s</strong>.</p>", businessName, status)
	if note != "" {
		body += fmt.Sprintf("<p>Note from our team: %s</p>", note)
	}
	return s.Send(toEmail, subject, body)
}

// SendProductDecision notifies a supplier about an approval decision
// on one of their products.
func (s *Service) SendProductDecision(toEmail, productName, status, note string) error {
	subject := fmt.Sprintf("Product %q was %s", productName, status)
	body := fmt.Sprintf("<p>Hello,</p><p>Your product <strong>%s</strong> has been <strong>%s</strong>.</p>", productName, status)
	if note != "" {
		body += fmt.Sprintf("<p>Reviewer note: %s</p>", note)
	}
	return s.Send(toEmail, subject, body)
}
