package services

import (
	"marketplace-app/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends transactional email through the configured SMTP relay.
type SMTPMailer struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:       cfg.SenderEmail,
		senderName: cfg.SenderName,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.senderName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
