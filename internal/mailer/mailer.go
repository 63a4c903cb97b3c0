// Package mailer sends the account emails (verification, password reset).
package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP. With no host configured it logs
// and skips, so signup works in development without a mail server.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	clientURL string
}

// New creates a Mailer
func New(host string, port int, user, pass, from, clientURL string) *Mailer {
	m := &Mailer{from: from, clientURL: clientURL}
	if host != "" {
		m.dialer = gomail.NewDialer(host, port, user, pass)
	}
	return m
}

func (m *Mailer) send(to, subject, body string) error {
	if m.dialer == nil {
		log.Printf("mailer: SMTP not configured, skipping %q to %s", subject, to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return m.dialer.DialAndSend(msg)
}

// SendVerificationEmail sends the email-verification link
func (m *Mailer) SendVerificationEmail(to, token string) error {
	url := fmt.Sprintf("%s/verify-email/%s", m.clientURL, token)
	body := fmt.Sprintf(`<h1>Verify your email</h1>
<p>Click the link below to verify your email address:</p>
<a href="%s">%s</a>`, url, url)
	return m.send(to, "Verify your email - Threads Clone", body)
}

// SendPasswordResetEmail sends the password-reset link
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	url := fmt.Sprintf("%s/reset-password/%s", m.clientURL, token)
	body := fmt.Sprintf(`<h1>Reset your password</h1>
<p>Click the link below to reset your password:</p>
<a href="%s">%s</a>
<p>This link will expire in 1 hour.</p>`, url, url)
	return m.send(to, "Reset your password - Threads Clone", body)
}
