package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

type SendGridConfig struct {
	APIKey string `yaml:"api_key"`
}

// SendGridSender delivers through the SendGrid v3 Mail Send API.
type SendGridSender struct {
	cfg      SendGridConfig
	from     string
	endpoint string
	client   *http.Client
}

func NewSendGridSender(cfg SendGridConfig, from string) *SendGridSender {
	return &SendGridSender{cfg: cfg, from: from, endpoint: sendGridEndpoint, client: http.DefaultClient}
}

func (s *SendGridSender) Name() string { return ProviderSendGrid }

type sgAddress struct {
	Email string `json:"email"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgPayload struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From    sgAddress   `json:"from"`
	ReplyTo *sgAddress  `json:"reply_to,omitempty"`
	Subject string      `json:"subject"`
	Content []sgContent `json:"content"`
}

// Send returns the X-Message-Id SendGrid assigns to the accepted message.
func (s *SendGridSender) Send(ctx context.Context, msg Message) (string, error) {
	msg, err := prepare(msg, s.from)
	if err != nil {
		return "", err
	}

	var payload sgPayload
	payload.Personalizations = make([]struct {
		To []sgAddress `json:"to"`
	}, 1)
	for _, addr := range msg.To {
		payload.Personalizations[0].To = append(payload.Personalizations[0].To, sgAddress{Email: addr})
	}
	payload.From = sgAddress{Email: msg.From}
	if msg.ReplyTo != "" {
		payload.ReplyTo = &sgAddress{Email: msg.ReplyTo}
	}
	payload.Subject = msg.Subject
	// text/plain must precede text/html.
	if msg.Text != "" {
		payload.Content = append(payload.Content, sgContent{Type: "text/plain", Value: msg.Text})
	}
	payload.Content = append(payload.Content, sgContent{Type: "text/html", Value: msg.HTML})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return resp.Header.Get("X-Message-Id"), nil
}
