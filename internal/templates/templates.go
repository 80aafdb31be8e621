package templates

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/gsarma/mailrender/internal/email"
)

//go:embed tmpl/*.tmpl
var files embed.FS

// Options configures the layout shared by every template.
type Options struct {
	// AssetsBaseURL prefixes the logo and icon images, e.g.
	// "https://cdn.example.com/public/emails".
	AssetsBaseURL  string
	UnsubscribeURL string
	BrandName      string
	Lang           string

	MaxBlocks     int
	MinBlocks     int
	CodeLength    int
	ExpiryMinutes int
}

const (
	DefaultAssetsBaseURL  = "/static"
	DefaultUnsubscribeURL = "https://anora.app/app/profile/notifications"
	DefaultBrandName      = "Anora"
	DefaultLang           = "en"
	DefaultExpiryMinutes  = 15
	DefaultMinBlocks      = 1
)

func (o Options) withDefaults() Options {
	if o.AssetsBaseURL == "" {
		o.AssetsBaseURL = DefaultAssetsBaseURL
	}
	o.AssetsBaseURL = strings.TrimRight(o.AssetsBaseURL, "/")
	if o.UnsubscribeURL == "" {
		o.UnsubscribeURL = DefaultUnsubscribeURL
	}
	if o.BrandName == "" {
		o.BrandName = DefaultBrandName
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	}
	if o.MinBlocks <= 0 {
		o.MinBlocks = DefaultMinBlocks
	}
	if o.MaxBlocks <= 0 {
		o.MaxBlocks = email.DefaultMaxBlocks
	}
	if o.CodeLength <= 0 {
		o.CodeLength = email.DefaultCodeLength
	}
	if o.ExpiryMinutes <= 0 {
		o.ExpiryMinutes = DefaultExpiryMinutes
	}
	return o
}

func (o Options) asset(name string) string {
	return o.AssetsBaseURL + "/" + name
}

// page is the data handed to the "layout" template.
type page struct {
	Lang           string
	Subject        string
	Preview        string
	LogoURL        string
	BrandName      string
	UnsubscribeURL string
	Body           any
}

func (o Options) page(subject, preview string, body any) page {
	return page{
		Lang:           o.Lang,
		Subject:        subject,
		Preview:        preview,
		LogoURL:        o.asset("anora-logo.png"),
		BrandName:      o.BrandName,
		UnsubscribeURL: o.UnsubscribeURL,
		Body:           body,
	}
}

// parse builds a template set from the shared layout plus the named body file.
func parse(body string) (*template.Template, error) {
	return template.New(body).ParseFS(files, "tmpl/layout.tmpl", "tmpl/"+body)
}

func execute(t *template.Template, data page) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatNumber prints whole numbers without a fractional part.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
