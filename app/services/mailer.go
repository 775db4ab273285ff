package services

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/mailgun/mailgun-go/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

// ContactNotifier tells the shop owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// EmailSender is the transport underneath the contact notification.
type EmailSender interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
	}
}

func (m *Mailer) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, _ string) error {
	headers := []string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := net.JoinHostPort(m.config.Host, m.config.Port)

	// net/smtp has no context support; run it aside and give up when ctx ends
	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg))
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("send html email to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

func (s *MailgunSender) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	m := s.mg.NewMessage(s.from, subject, textBody, to)
	m.SetHtml(htmlBody)
	if _, _, err := s.mg.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}

// LogSender only logs; used when no mail transport is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendHTMLEmail(_ context.Context, to, subject, _, textBody string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Str("body", textBody).Msg("email not sent, no transport configured")
	return nil
}

type EmailContactNotifier struct {
	sender EmailSender
	to     string
	policy *bluemonday.Policy
}

func NewEmailContactNotifier(sender EmailSender, to string) *EmailContactNotifier {
	return &EmailContactNotifier{sender: sender, to: to, policy: bluemonday.StrictPolicy()}
}

func (n *EmailContactNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if n.to == "" {
		return fmt.Errorf("CONTACT_EMAIL is not configured")
	}
	subject := "New Contact Message from " + singleLine(msg.Name)
	html := BuildContactEmailBody(n.policy, msg)
	text := fmt.Sprintf("From: %s <%s>\nReceived: %s\n\n%s",
		msg.Name, msg.Email, msg.CreatedAt.Format(time.RFC1123), msg.Message)
	return n.sender.SendHTMLEmail(ctx, n.to, subject, html, text)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BuildContactEmailBody renders the notification; every user-supplied value is sanitised first.
func BuildContactEmailBody(policy *bluemonday.Policy, msg models.ContactMessage) string {
	name := policy.Sanitize(msg.Name)
	email := policy.Sanitize(msg.Email)
	body := strings.ReplaceAll(policy.Sanitize(msg.Message), "\n", "<br>")

	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>New Contact Message</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .meta { color: #555; font-size: 0.9em; }
                .message { margin-top: 16px; padding: 12px; background-color: #f8f8f8; border-radius: 5px; }
            </style>
        </head>
        <body>
            <div class="container">
                <h2>New Contact Message</h2>
                <p class="meta"><strong>From:</strong> %s &lt;%s&gt;</p>
                <p class="meta"><strong>Received:</strong> %s</p>
                <div class="message">%s</div>
            </div>
        </body>
        </html>
    `, name, email, msg.CreatedAt.Format(time.RFC1123), body)
}
