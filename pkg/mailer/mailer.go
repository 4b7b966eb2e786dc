package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/logger"
)

// Mailer delivers the email-verification code to a user.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, fullName, code string) error
}

// New returns an SMTP mailer when delivery is configured, otherwise a mailer
// that logs the code so local flows stay testable without a mail server.
func New(cfg config.MailConfig, log *logger.Logger) Mailer {
	if cfg.Enabled() {
		return &smtpMailer{cfg: cfg}
	}
	return &logMailer{log: log}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) SendVerificationCode(ctx context.Context, email, fullName, code string) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.SenderName, m.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s <%s>\r\n", fullName, email)
	msg.WriteString("Subject: Confirmez votre email - FlowerMarket\r\n")
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&msg, "Bonjour %s,\n\nCode de vérification : %s\n\nCe code expirera dans 15 minutes.\n", fullName, code)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.SenderEmail, []string{email}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) SendVerificationCode(ctx context.Context, email, fullName, code string) error {
	ctx = m.log.WithFields(ctx, map[string]any{"email": email, "code": code})
	m.log.Info(ctx, "smtp not configured, verification code logged")
	return nil
}
