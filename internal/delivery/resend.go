package delivery

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

type ResendConfig struct {
	APIKey string `yaml:"api_key"`
}

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(cfg ResendConfig, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(cfg.APIKey), from: from}
}

func (s *ResendSender) Name() string { return ProviderResend }

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	msg, err := prepare(msg, s.from)
	if err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
		Tags:    []resend.Tag{{Name: "category", Value: "transactional"}},
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}
