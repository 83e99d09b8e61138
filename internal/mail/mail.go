// Package mail は通知メールの送信を提供する。
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Sender はメール送信を抽象化する。
type Sender interface {
	// Send は単一の宛先にプレーンテキストのメールを送信する。
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender はSMTP経由でメールを送信するSender実装。
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender はSMTPSenderを生成する。
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send はメールを送信する。
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender はメールを送信せずログに記録するSender実装。
// SMTPが未設定の環境で使用する。
type LogSender struct{}

var _ Sender = (*LogSender)(nil)

// NewLogSender はLogSenderを生成する。
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send はメールの内容をログに記録する。
func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	slog.Info("mail delivery skipped, SMTP not configured",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
