// Package email delivers account emails over SMTP. Links embed the token as
// a query parameter against the configured frontend base URL.
package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/S1mon009/auth-service/internal/auth/domain"
)

type Config struct {
	Host        string
	Port        string
	User        string
	Password    string
	From        string
	FrontendURL string
}

// New returns the SMTP mailer, or the log-only mailer when no SMTP host is
// configured (local development).
func New(cfg Config) domain.Mailer {
	if cfg.Host == "" {
		return &LogMailer{FrontendURL: cfg.FrontendURL}
	}

	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg Config
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	link := VerificationLink(m.cfg.FrontendURL, token)
	body := fmt.Sprintf("Welcome! Please verify your email address:\r\n\r\n%s\r\n", link)

	return m.send(email, "Verify your email", body)
}

func (m *SMTPMailer) SendResetPasswordEmail(ctx context.Context, email, token string) error {
	link := ResetPasswordLink(m.cfg.FrontendURL, token)
	body := fmt.Sprintf("A password reset was requested for your account:\r\n\r\n%s\r\n\r\nIf this wasn't you, ignore this email.\r\n", link)

	return m.send(email, "Reset your password", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.cfg.From, to, subject, body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	return nil
}

func VerificationLink(frontendURL, token string) string {
	return frontendBase(frontendURL) + "/auth/verify-email?token=" + token
}

func ResetPasswordLink(frontendURL, token string) string {
	return frontendBase(frontendURL) + "/reset-password?token=" + token
}

func frontendBase(frontendURL string) string {
	if frontendURL == "" {
		return "http://localhost:3000"
	}
	return frontendURL
}
