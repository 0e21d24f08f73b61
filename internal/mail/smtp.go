package mail

import (
	"context"
	"errors"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/supportdesk/inquiry-service/internal/config"
)

const sendTimeout = 15 * time.Second

type smtpSender struct {
	cfg config.MailConfig
}

// NewSMTPSender builds an SMTP-backed sender. A fresh dialer is created per
// send; connections are not pooled.
func NewSMTPSender(cfg config.MailConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("recipient address required")
	}
	if subject == "" {
		return errors.New("subject required")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.Account)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.Account, s.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(msg)
	}()

	wait := sendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < wait {
			wait = remaining
		}
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}
