// Package notify is the outbound notification gateway. The rest of the
// backend only sees the Gateway interface; delivery, transport and
// templating details stay here. Gateway calls never abort a persisted
// state change — callers log the returned error and move on.
package notify

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type Gateway interface {
	Notify(ctx context.Context, recipient, template string, data map[string]any) error
}

// SMTPGateway delivers templated mail over SMTP. It is constructed once
// at startup and injected into the components that send mail.
type SMTPGateway struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPGateway(host string, port int, username, password, from string) *SMTPGateway {
	return &SMTPGateway{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (g *SMTPGateway) Notify(ctx context.Context, recipient, template string, data map[string]any) error {
	subject, body, err := Render(template, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", g.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return g.dialer.DialAndSend(msg)
}

// Noop is used when SMTP is not configured (local development, tests).
// It records the attempt and succeeds.
type Noop struct {
	Log *slog.Logger
}

func (n *Noop) Notify(ctx context.Context, recipient, template string, data map[string]any) error {
	if n.Log != nil {
		n.Log.Info("notification suppressed (no smtp configured)",
			"recipient", recipient, "template", template)
	}
	return nil
}

// FromEnv builds the gateway from SMTP_* env vars, falling back to Noop
// when no host is set.
func FromEnv(log *slog.Logger) Gateway {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return &Noop{Log: log}
	}
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		port = p
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "LAND OVER <noreply@landover.example>"
	}
	return NewSMTPGateway(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), from)
}
