package delivery

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"
)

// SMTPConfig holds credentials for an SMTP server.
type SMTPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	TLSMode            string `yaml:"tls"` // auto | starttls | ssl | none
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender sends email via SMTP using github.com/go-mail/mail.
type SMTPSender struct {
	cfg  SMTPConfig
	from string
	dial func() smtpDialer
}

func NewSMTPSender(cfg SMTPConfig, from string) *SMTPSender {
	s := &SMTPSender{cfg: cfg, from: from}
	s.dial = s.newDialer
	return s
}

func (s *SMTPSender) Name() string { return ProviderSMTP }

func (s *SMTPSender) newDialer() smtpDialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify,
	}
	switch strings.ToLower(s.cfg.TLSMode) {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// auto/starttls: STARTTLS is negotiated when offered.
	}
	return d
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	msg, err := prepare(msg, s.from)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m, id := s.build(msg)
	if err := s.dial().DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return id, nil
}

// build prefers multipart/alternative when a text body is present.
func (s *SMTPSender) build(msg Message) (*mail.Message, string) {
	domain := s.cfg.Host
	if at := strings.LastIndex(msg.From, "@"); at >= 0 {
		domain = strings.Trim(msg.From[at+1:], "> ")
	}
	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)

	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else {
		m.SetBody("text/html", msg.HTML)
	}
	return m, id
}
