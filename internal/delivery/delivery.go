package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Providers.
const (
	ProviderNone     = ""
	ProviderSMTP     = "smtp"
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
)

// Message holds the fields needed to send a rendered email.
type Message struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	ReplyTo string   `json:"replyTo,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// Sender defines the interface each delivery provider must implement. Send
// returns the provider's identifier for the accepted message.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) (string, error)
}

// Config selects a provider. From is used when a message carries no sender.
type Config struct {
	Provider string         `yaml:"provider"`
	From     string         `yaml:"from"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Resend   ResendConfig   `yaml:"resend"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
}

var ErrNoRecipients = errors.New("delivery: at least one recipient is required")

// New returns the configured sender, or nil when delivery is disabled.
func New(cfg Config) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderNone:
		return nil, nil
	case ProviderSMTP:
		return NewSMTPSender(cfg.SMTP, cfg.From), nil
	case ProviderResend:
		if cfg.Resend.APIKey == "" {
			return nil, errors.New("delivery: resend api key is required")
		}
		return NewResendSender(cfg.Resend, cfg.From), nil
	case ProviderSendGrid:
		if cfg.SendGrid.APIKey == "" {
			return nil, errors.New("delivery: sendgrid api key is required")
		}
		return NewSendGridSender(cfg.SendGrid, cfg.From), nil
	default:
		return nil, fmt.Errorf("delivery: unknown provider %q", cfg.Provider)
	}
}

// prepare fills defaults and checks the message can be sent.
func prepare(msg Message, defaultFrom string) (Message, error) {
	if len(msg.To) == 0 {
		return msg, ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = defaultFrom
	}
	if msg.From == "" {
		return msg, errors.New("delivery: sender address is required")
	}
	return msg, nil
}
