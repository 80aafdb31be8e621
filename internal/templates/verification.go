package templates

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gsarma/mailrender/internal/email"
)

type verificationBody struct {
	LockImageURL  string
	BrandName     string
	RecipientName string
	Code          string
	ExpiryMinutes string
}

type verificationRenderer struct {
	opts Options
	tmpl *template.Template
}

func newVerificationRenderer(opts Options) (*verificationRenderer, error) {
	t, err := parse("verification.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse verification-code template: %w", err)
	}
	return &verificationRenderer{opts: opts, tmpl: t}, nil
}

func (r *verificationRenderer) render(req email.Request) (string, error) {
	vc, ok := req.(*email.VerificationCodeRequest)
	if !ok {
		return "", fmt.Errorf("verification-code template cannot render %T", req)
	}

	expiry := float64(r.opts.ExpiryMinutes)
	if vc.ExpiryMinutes != nil {
		expiry = *vc.ExpiryMinutes
	}

	body := verificationBody{
		LockImageURL:  r.opts.asset("pincode-lock.png"),
		BrandName:     r.opts.BrandName,
		RecipientName: strings.TrimSpace(vc.RecipientName),
		Code:          vc.Code,
		ExpiryMinutes: formatNumber(expiry),
	}
	return execute(r.tmpl, r.opts.page(vc.Subject(), vc.Preview(), body))
}
