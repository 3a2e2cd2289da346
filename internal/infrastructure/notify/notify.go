// Package notify implements outbound messaging. Email goes out through SMTP
// via gomail; SMS currently only logs, pending a provider integration.
package notify

import (
	"context"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// SMTPConfig captures the settings for the outbound mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Service sends SMS and email notifications. When no SMTP host is
// configured, emails are logged instead of sent so local development does
// not require a mail server.
type Service struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewService builds a Service from SMTP settings. An empty host yields a
// log-only mailer.
func NewService(cfg SMTPConfig, logger zerolog.Logger) *Service {
	s := &Service{
		from:   cfg.From,
		logger: logger.With().Str("component", "notify").Logger(),
	}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// SendSMS logs the message. No SMS gateway is wired up yet.
func (s *Service) SendSMS(_ context.Context, to, message string) error {
	s.logger.Info().
		Str("to", to).
		Str("message", message).
		Msg("sms (log only)")
	return nil
}

// SendEmail delivers an HTML email through the configured SMTP server.
func (s *Service) SendEmail(_ context.Context, to, subject, body string) error {
	if s.dialer == nil {
		s.logger.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("email (log only)")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}

	s.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Msg("email sent")
	return nil
}
