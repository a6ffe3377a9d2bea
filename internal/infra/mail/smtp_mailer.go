// Package mail implements the Mailer domain service over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"amora/config"
	"amora/internal/domain/service"

	"github.com/pkg/errors"
)

// smtpMailer sends transactional mail through a plain SMTP relay.
type smtpMailer struct {
	addr            string
	auth            smtp.Auth
	from            string
	frontendBaseURL string
}

// NewSMTPMailer builds a Mailer from the mail and frontend config sections.
func NewSMTPMailer(cfg *config.Config) (service.Mailer, error) {
	if cfg.Mail == nil || cfg.Mail.Host == "" {
		return nil, errors.New("mail config must be provided")
	}
	if cfg.Frontend == nil || cfg.Frontend.BaseURL == "" {
		return nil, errors.New("frontend base url must be provided")
	}

	var auth smtp.Auth
	if cfg.Mail.Username != "" {
		auth = smtp.PlainAuth("", cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.Host)
	}

	return &smtpMailer{
		addr:            fmt.Sprintf("%s:%d", cfg.Mail.Host, cfg.Mail.Port),
		auth:            auth,
		from:            cfg.Mail.From,
		frontendBaseURL: strings.TrimRight(cfg.Frontend.BaseURL, "/"),
	}, nil
}

// SendEmailVerificationLink mails a verification link for the address.
func (m *smtpMailer) SendEmailVerificationLink(ctx context.Context, email, token string) error {
	link := m.frontendBaseURL + "/verificate-email?token=" + url.QueryEscape(token)
	body := "<h2>Want to verify your email? If you don't, please ignore this message!</h2>" +
		`<p>Click the link to verify your email: <a href="` + link + `">Verify email</a></p>`

	return m.send(ctx, email, "Email verification message", body)
}

// SendPasswordResetLink mails a password reset link for the address.
func (m *smtpMailer) SendPasswordResetLink(ctx context.Context, email, token string) error {
	link := m.frontendBaseURL + "/reset-password?token=" + url.QueryEscape(token)
	body := "<h2>Forgot your password? If you didn't, please ignore this message!</h2>" +
		`<p>Click the link to reset your password: <a href="` + link + `">Reset password</a></p>`

	return m.send(ctx, email, "Password reset message", body)
}

func (m *smtpMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "send aborted")
	}

	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return errors.Wrapf(err, "send mail to %s failed", to)
	}

	return nil
}
