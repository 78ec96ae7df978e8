package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/witslabs/wits-be/internal/config"
)

// Mailer sends transactional email to users.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// SMTPMailer delivers mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	siteURL string
}

// New creates a new SMTPMailer.
func New(cfg config.SMTPConfig, siteURL string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, siteURL: siteURL}
}

// SendPasswordReset emails a reset link embedding the token. When SMTP is
// not configured the mail is skipped with a warning so local development
// works without a relay.
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	resetURL := fmt.Sprintf("%s/resetpassword?token=%s", m.siteURL, token)

	if m.cfg.Host == "" {
		log.Warn().Str("to", to).Msg("SMTP not configured, skipping password reset email")
		return nil
	}

	subject := "Your Password Reset Request"
	body := fmt.Sprintf(
		"Hello,\n\nYou requested a password reset for your Wits account. Use the link below to set a new password:\n\n%s\n\nThis link will expire in one hour.\n\nIf you did not request this, please ignore this email.",
		resetURL,
	)

	msg := strings.Join([]string{
		"From: Wits Puzzle App <" + m.cfg.From + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
