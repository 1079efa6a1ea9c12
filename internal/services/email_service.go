package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

type EmailService interface {
	SendDealWonEmail(to string, deal *models.Deal) error
	SendDealLostEmail(to string, deal *models.Deal) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendDealWonEmail(to string, deal *models.Deal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Deal won: %s", deal.Title))

	body := fmt.Sprintf(`
		<h2>Congratulations!</h2>
		<p>The deal <strong>%s</strong> closed as won.</p>
		<p>Deal value: $%s<br>Your commission: $%s</p>
	`, deal.Title, pipeline.FormatDollar(deal.DealValue), pipeline.FormatDollar(deal.AgentCommission))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send deal won email: %w", err)
	}
	return nil
}

func (s *emailService) SendDealLostEmail(to string, deal *models.Deal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Deal lost: %s", deal.Title))

	reason := ""
	if deal.LostReason != nil {
		reason = *deal.LostReason
	}
	body := fmt.Sprintf(`
		<h3>Deal closed as lost</h3>
		<p>The deal <strong>%s</strong> was marked lost.</p>
		<p>Reason: %s</p>
	`, deal.Title, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send deal lost email: %w", err)
	}
	return nil
}
