// Package mailer prepares outgoing messages: a mailto link for the
// operator's own client and, when SMTP is configured, a direct send.
package mailer

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/diewo77/lens-console/internal/config"
)

// Message is a plain-text mail.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Delivery reports how a message was handed off. Sent is true only when an
// SMTP server accepted it; nothing confirms final delivery.
type Delivery struct {
	MailtoURL string
	Sent      bool
	// Failure holds the SMTP error when sending was attempted and failed.
	Failure string
}

// Sender sends a prepared gomail message.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Composer builds mailto links and optionally sends through SMTP.
type Composer struct {
	from   string
	sender Sender
	log    *zap.Logger
}

// New returns a Composer. SMTP sending is enabled when cfg.Host is set.
func New(cfg config.MailConfig, log *zap.Logger) *Composer {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Composer{from: cfg.From, log: log}
	if cfg.Host != "" {
		c.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return c
}

// WithSender replaces the SMTP sender.
func (c *Composer) WithSender(s Sender) *Composer {
	c.sender = s
	return c
}

// MailtoURL encodes msg as a mailto link with comma-separated recipients.
func MailtoURL(msg Message) string {
	q := "subject=" + escape(msg.Subject) + "&body=" + escape(msg.Body)
	return "mailto:" + strings.Join(msg.To, ",") + "?" + q
}

// escape percent-encodes s for a mailto query; spaces become %20, not '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Deliver always returns the mailto link and sends msg when SMTP is set up.
// A failed send is reported in Delivery.Failure; there is no retry.
func (c *Composer) Deliver(ctx context.Context, msg Message) (Delivery, error) {
	d := Delivery{MailtoURL: MailtoURL(msg)}
	if c.sender == nil {
		return d, nil
	}
	if err := ctx.Err(); err != nil {
		return d, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if err := c.sender.DialAndSend(m); err != nil {
		c.log.Error("smtp send failed", zap.Strings("to", msg.To), zap.Error(err))
		d.Failure = err.Error()
		return d, nil
	}
	d.Sent = true
	return d, nil
}
