// Package mail は問い合わせリレーメールの送信を提供する。
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// 送信プロバイダー呼び出しのタイムアウト。
const sendTimeout = 10 * time.Second

// Mailer はメール送信のインターフェース。
type Mailer interface {
	// Send は指定アドレスへHTMLメールを1通送信する。リトライは行わない。
	Send(ctx context.Context, to, subject, text, html string) error
}

// MailgunMailer はMailgun APIをバックエンドとするMailer実装。
type MailgunMailer struct {
	client mailgun.Mailgun
	domain string
}

// NewMailgunMailer はMailgunMailerを生成する。
func NewMailgunMailer(domain, apiKey string) *MailgunMailer {
	return &MailgunMailer{
		client: mailgun.NewMailgun(domain, apiKey),
		domain: domain,
	}
}

// Send は指定アドレスへHTMLメールを1通送信する。
// 差出人はドメイン固定のwebsiteアドレスを使用する。
func (m *MailgunMailer) Send(ctx context.Context, to, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	from := fmt.Sprintf("Website <website@%s>", m.domain)
	msg := m.client.NewMessage(from, subject, text, to)
	msg.SetHtml(html)

	_, id, err := m.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send mail via mailgun: %w", err)
	}

	slog.Info("contact mail relayed", slog.String("message_id", id))
	return nil
}

var _ Mailer = (*MailgunMailer)(nil)
