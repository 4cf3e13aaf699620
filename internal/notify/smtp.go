// Package notify provides delivery collaborators for low-stock alerts.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/stocksync/stocksync/internal/core"
)

// SMTPSender delivers alerts over plain SMTP. Auth is optional; unauthenticated
// relays (e.g. a local postfix) work with empty credentials.
type SMTPSender struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

var _ core.Sender = (*SMTPSender)(nil)

// Send delivers one message. The context is honored only up to the SMTP
// dial; net/smtp has no per-command deadline hooks.
func (s *SMTPSender) Send(ctx context.Context, msg core.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	if err := smtp.SendMail(s.Addr, auth, s.From, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender writes alerts to the structured log instead of delivering them.
// Used when no SMTP relay is configured.
type LogSender struct{}

var _ core.Sender = LogSender{}

func (LogSender) Send(_ context.Context, msg core.Message) error {
	slog.Info("alert (no SMTP relay configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
