package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- New tests ---

func TestNew(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(Config{Provider: "SMTP", SMTP: SMTPConfig{Host: "localhost", Port: 25}})
	require.NoError(t, err)
	assert.Equal(t, ProviderSMTP, s.Name())

	_, err = New(Config{Provider: ProviderResend})
	assert.Error(t, err)

	s, err = New(Config{Provider: ProviderResend, Resend: ResendConfig{APIKey: "re_test"}})
	require.NoError(t, err)
	assert.Equal(t, ProviderResend, s.Name())

	_, err = New(Config{Provider: ProviderSendGrid})
	assert.Error(t, err)

	s, err = New(Config{Provider: ProviderSendGrid, SendGrid: SendGridConfig{APIKey: "SG.test"}})
	require.NoError(t, err)
	assert.Equal(t, ProviderSendGrid, s.Name())

	_, err = New(Config{Provider: "pigeon"})
	assert.EqualError(t, err, `delivery: unknown provider "pigeon"`)
}

// --- SMTP tests ---

type fakeDialer struct {
	sent []*mail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*mail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func newTestSMTP(d *fakeDialer) *SMTPSender {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587}, "noreply@example.com")
	s.dial = func() smtpDialer { return d }
	return s
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := newTestSMTP(d)

	id, err := s.Send(context.Background(), Message{
		To:      []string{"alice@example.com", "bob@example.com"},
		ReplyTo: "support@example.com",
		Subject: "Your code",
		HTML:    "<p>1234</p>",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	assert.True(t, strings.HasSuffix(id, "@example.com>"), id)
	m := d.sent[0]
	assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"support@example.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{id}, m.GetHeader("Message-ID"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Content-Type: text/html")
	assert.Contains(t, buf.String(), "<p>1234</p>")
}

func TestSMTPSender_Errors(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	s := newTestSMTP(d)

	_, err := s.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = s.Send(context.Background(), Message{To: []string{"a@b.com"}})
	assert.EqualError(t, err, "smtp send: connection refused")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Send(ctx, Message{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSMTPSender_MissingFrom(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com"}, "")
	s.dial = func() smtpDialer { return &fakeDialer{} }

	_, err := s.Send(context.Background(), Message{To: []string{"a@b.com"}})
	assert.EqualError(t, err, "delivery: sender address is required")
}

// --- Resend tests ---

func TestResendSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	s := NewResendSender(ResendConfig{APIKey: "re_test"}, "Mailer <noreply@example.com>")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	id, err := s.Send(context.Background(), Message{
		To:      []string{"alice@example.com"},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
	assert.Equal(t, "Mailer <noreply@example.com>", got["from"])
	assert.Equal(t, "Hello", got["subject"])
	assert.Equal(t, "<p>hi</p>", got["html"])
}

func TestResendSender_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	}))
	defer srv.Close()

	s := NewResendSender(ResendConfig{APIKey: "re_test"}, "noreply@example.com")
	s.client.BaseURL, _ = url.Parse(srv.URL + "/")

	_, err := s.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "x", HTML: "y"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to send email: "))
}

// --- SendGrid tests ---

func TestSendGridSender_Send(t *testing.T) {
	var got sgPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Message-Id", "sg-42")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendGridSender(SendGridConfig{APIKey: "SG.test"}, "noreply@example.com")
	s.endpoint = srv.URL

	id, err := s.Send(context.Background(), Message{
		To:      []string{"a@example.com", "b@example.com"},
		ReplyTo: "support@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "sg-42", id)

	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, []sgAddress{{"a@example.com"}, {"b@example.com"}}, got.Personalizations[0].To)
	assert.Equal(t, "noreply@example.com", got.From.Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "support@example.com", got.ReplyTo.Email)
	assert.Equal(t, []sgContent{{"text/plain", "hi"}, {"text/html", "<p>hi</p>"}}, got.Content)
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	s := NewSendGridSender(SendGridConfig{APIKey: "nope"}, "noreply@example.com")
	s.endpoint = srv.URL

	_, err := s.Send(context.Background(), Message{To: []string{"a@b.com"}, HTML: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sendgrid returned status 401")
	assert.Contains(t, err.Error(), "bad key")
}
