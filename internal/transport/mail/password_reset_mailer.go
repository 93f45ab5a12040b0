package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
)

var resetTemplate = template.Must(template.New("passwordReset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>Reset your password</h2>
  <p>You requested a password reset. Click the button below to choose a new password.</p>
  <p>
    <a href="{{.ResetURL}}" style="display: inline-block; background-color: #4F46E5; color: #ffffff; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Reset Password</a>
  </p>
  <p>Or copy and paste this link into your browser:</p>
  <p style="word-break: break-all;">{{.ResetURL}}</p>
  <p>This link expires in 30 minutes. If you did not request a reset, you can safely ignore this email.</p>
</body>
</html>
`))

// PasswordResetMailer delivers reset links over SMTP as HTML mail.
type PasswordResetMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewPasswordResetMailer(host, port, username, password, from string) *PasswordResetMailer {
	return &PasswordResetMailer{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: username,
		password: password,
		from:     strings.TrimSpace(from),
	}
}

func (m *PasswordResetMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	body, err := renderResetBody(resetURL)
	if err != nil {
		return err
	}

	subject := "Reset your password"
	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}

func renderResetBody(resetURL string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		ResetURL string
	}{ResetURL: resetURL}
	if err := resetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render reset email: %w", err)
	}
	return buf.String(), nil
}
