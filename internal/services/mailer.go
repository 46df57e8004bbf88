package services

import (
	"fmt"
	"log"
	"net/smtp"

	"spinbazar-backend/internal/config"
)

// Mailer sends outbound notifications. Delivery is best-effort everywhere it
// is used: a failed welcome email never fails a registration.
type Mailer interface {
	SendWelcomeEmail(to, userName string) error
}

type SMTPMailer struct {
	addr     string
	from     string
	password string
	host     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr:     cfg.SMTPHost + ":" + cfg.SMTPPort,
		from:     cfg.SiteEmail,
		password: cfg.SiteEmailPassword,
		host:     cfg.SMTPHost,
	}
}

func (m *SMTPMailer) SendWelcomeEmail(to, userName string) error {
	subject := fmt.Sprintf("Welcome to SpinBazar, %s!", userName)
	body := fmt.Sprintf(
		"Welcome to SpinBazar, %s!\r\n\r\n"+
			"We're thrilled to have you on board. "+
			"Get ready for an exciting journey into the world of chance and rewards.\r\n",
		userName)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, to, subject, body))

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send welcome email: %v", err)
	}
	return nil
}

// LogMailer is used when no SMTP credentials are configured.
type LogMailer struct{}

func (LogMailer) SendWelcomeEmail(to, userName string) error {
	log.Printf("welcome email skipped (no SMTP configured): to=%s user=%s", to, userName)
	return nil
}
