// Package mailer sends transactional mail. Delivery is best effort: failures
// are logged and never propagate into the request that triggered them.
package mailer

import (
	log "github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional messages.
type Mailer interface {
	// SendWelcome greets a freshly signed-up customer.
	SendWelcome(to, username string)
	// SendPasswordReset mails a reset link containing the token.
	SendPasswordReset(to, resetURL string)
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer backed by an SMTP server.
func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *smtpMailer) send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	go func() {
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.WithFields(log.Fields{
				"to":      to,
				"subject": subject,
			}).WithError(err).Error("Failed to send email")
		}
	}()
}

func (m *smtpMailer) SendWelcome(to, username string) {
	body := "<p>Hi " + username + ",</p>" +
		"<p>Welcome to HIFI Eats! Your account is ready, browse the menu and place your first order.</p>"
	m.send(to, "Welcome to HIFI Eats", body)
}

func (m *smtpMailer) SendPasswordReset(to, resetURL string) {
	body := "<p>We received a request to reset your password.</p>" +
		"<p><a href=\"" + resetURL + "\">Reset your password</a></p>" +
		"<p>If you did not request this, you can ignore this email.</p>"
	m.send(to, "Reset your HIFI Eats password", body)
}

type noopMailer struct{}

// NewNoopMailer returns a mailer that logs instead of sending. Used when SMTP
// is not configured, and in tests.
func NewNoopMailer() Mailer { return noopMailer{} }

func (noopMailer) SendWelcome(to, username string) {
	log.WithField("to", to).Info("Mail disabled, skipping welcome email")
}

func (noopMailer) SendPasswordReset(to, resetURL string) {
	log.WithField("to", to).Info("Mail disabled, skipping password reset email")
}
