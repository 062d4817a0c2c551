// Package mailer delivers transactional email over SMTP
package mailer

import (
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Mailer sends plain-text email through a configured SMTP server
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *zap.Logger
}

// New creates a new mailer
func New(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// Send delivers a single message. Failures are returned to the caller so the
// request that triggered the email can surface them.
func (m *Mailer) Send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := mail.NewDialer(m.host, m.port, m.username, m.password)
	dialer.TLSConfig = &tls.Config{ServerName: m.host}
	dialer.StartTLSPolicy = mail.OpportunisticStartTLS

	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
