package email

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxSubjectLength = 200
	MaxPreviewLength = 150

	DefaultMinBlocks  = 1
	DefaultMaxBlocks  = 20
	DefaultCodeLength = 4
)

var (
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// Text block options.
var (
	TextAlignments = []string{"left", "center", "right"}
	TextSizes      = []string{"small", "medium", "large"}
)

// ValidatorOptions configures the limits enforced by a Validator.
type ValidatorOptions struct {
	MinBlocks  int
	MaxBlocks  int
	CodeLength int
}

// Validator turns decoded JSON into a typed Request. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	minBlocks  int
	maxBlocks  int
	codeLength int
}

func NewValidator(opts ValidatorOptions) *Validator {
	if opts.MinBlocks <= 0 {
		opts.MinBlocks = DefaultMinBlocks
	}
	if opts.MaxBlocks <= 0 {
		opts.MaxBlocks = DefaultMaxBlocks
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = DefaultCodeLength
	}
	return &Validator{minBlocks: opts.MinBlocks, maxBlocks: opts.MaxBlocks, codeLength: opts.CodeLength}
}

func (v *Validator) MinBlocks() int  { return v.minBlocks }
func (v *Validator) MaxBlocks() int  { return v.maxBlocks }
func (v *Validator) CodeLength() int { return v.codeLength }

// Validate checks raw against the request shape selected by its "template"
// field. Errors are always *ValidationError. Common fields are checked first;
// when any of them fail, template-specific checks are skipped.
func (v *Validator) Validate(raw any) (Request, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: "Request must be an object"}
	}

	var errs []FieldError

	if !isNonEmptyString(obj["template"]) {
		errs = append(errs, FieldError{Field: "template", Message: "Template is required"})
	}

	if !isNonEmptyString(obj["subject"]) {
		errs = append(errs, FieldError{Field: "subject", Message: "Subject is required"})
	} else if utf8.RuneCountInString(obj["subject"].(string)) > MaxSubjectLength {
		errs = append(errs, FieldError{
			Field:   "subject",
			Message: fmt.Sprintf("Subject cannot exceed %d characters", MaxSubjectLength),
		})
	}

	if !isNonEmptyString(obj["preview"]) {
		errs = append(errs, FieldError{Field: "preview", Message: "Preview is required"})
	} else if utf8.RuneCountInString(obj["preview"].(string)) > MaxPreviewLength {
		errs = append(errs, FieldError{
			Field:   "preview",
			Message: fmt.Sprintf("Preview cannot exceed %d characters", MaxPreviewLength),
		})
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Message: "Validation failed", Details: errs}
	}

	env := Envelope{
		SubjectText: obj["subject"].(string),
		PreviewText: obj["preview"].(string),
		Meta:        metadataOf(obj["metadata"]),
	}

	switch template := obj["template"].(string); template {
	case TemplateMultiBlock:
		return v.validateMultiBlock(obj, env)
	case TemplateVerificationCode:
		return v.validateVerificationCode(obj, env)
	default:
		msg := "Unknown template: " + template
		return nil, &ValidationError{
			Message: msg,
			Details: []FieldError{{Field: "template", Message: msg, Value: template}},
		}
	}
}

func (v *Validator) validateMultiBlock(obj map[string]any, env Envelope) (Request, error) {
	rawBlocks, ok := obj["blocks"].([]any)
	if !ok {
		return nil, &ValidationError{
			Message: "Validation failed",
			Details: []FieldError{{Field: "blocks", Message: "Blocks must be an array"}},
		}
	}

	var errs []FieldError
	switch {
	case len(rawBlocks) == 0:
		errs = append(errs, FieldError{Field: "blocks", Message: "At least one block is required"})
	case len(rawBlocks) < v.minBlocks:
		errs = append(errs, FieldError{
			Field:   "blocks",
			Message: fmt.Sprintf("At least %d blocks are required", v.minBlocks),
			Value:   len(rawBlocks),
		})
	}
	if len(rawBlocks) > v.maxBlocks {
		errs = append(errs, FieldError{
			Field:   "blocks",
			Message: fmt.Sprintf("Maximum %d blocks allowed", v.maxBlocks),
			Value:   len(rawBlocks),
		})
	}

	blocks := make([]Block, 0, len(rawBlocks))
	for i, rb := range rawBlocks {
		b, blockErrs := validateBlock(rb, fmt.Sprintf("blocks.%d", i))
		errs = append(errs, blockErrs...)
		if b != nil {
			blocks = append(blocks, b)
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Message: "Multi-block validation failed", Details: errs}
	}

	return &MultiBlockRequest{Envelope: env, Blocks: blocks}, nil
}

func (v *Validator) validateVerificationCode(obj map[string]any, env Envelope) (Request, error) {
	var errs []FieldError

	code, _ := obj["code"].(string)
	if !isNonEmptyString(obj["code"]) {
		errs = append(errs, FieldError{Field: "code", Message: "Code is required"})
	} else {
		if utf8.RuneCountInString(code) != v.codeLength {
			errs = append(errs, FieldError{
				Field:   "code",
				Message: fmt.Sprintf("Code must be %d characters", v.codeLength),
				Value:   code,
			})
		}
		if !digitsPattern.MatchString(code) {
			errs = append(errs, FieldError{Field: "code", Message: "Code must contain only numbers", Value: code})
		}
	}

	req := &VerificationCodeRequest{Envelope: env, Code: code}

	if raw, present := obj["expiryMinutes"]; present && raw != nil {
		if n, ok := positiveNumber(raw); ok {
			req.ExpiryMinutes = &n
		} else {
			errs = append(errs, FieldError{
				Field:   "expiryMinutes",
				Message: "Expiry minutes must be a positive number",
				Value:   raw,
			})
		}
	}

	if raw, present := obj["recipientName"]; present && raw != nil {
		if s, ok := raw.(string); ok {
			req.RecipientName = strings.TrimSpace(s)
		} else {
			errs = append(errs, FieldError{Field: "recipientName", Message: "Recipient name must be a string"})
		}
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Message: "Verification code validation failed", Details: errs}
	}
	return req, nil
}

// validateBlock returns a typed block, or nil together with the violations
// found under prefix.
func validateBlock(raw any, prefix string) (Block, []FieldError) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, []FieldError{{Field: prefix, Message: "Block must be an object"}}
	}

	if !isNonEmptyString(obj["type"]) {
		return nil, []FieldError{{Field: prefix + ".type", Message: "Block type is required"}}
	}

	c := &checker{obj: obj, prefix: prefix}
	id := c.optionalString("id", "Block id must be a string")

	var block Block
	switch typ := obj["type"].(string); typ {
	case BlockContent:
		b := ContentBlock{ID: id}
		b.Title = c.requiredString("title", "Title is required")
		b.Text = c.requiredString("text", "Text is required")
		b.ImageURL = c.requiredURL("imageUrl", "Valid image URL is required")
		b.ImageAlt = c.requiredString("imageAlt", "Image alt text is required")
		b.ImageWidth = c.requiredPositive("imageWidth", "Valid image width is required")
		b.ImageHeight = c.requiredPositive("imageHeight", "Valid image height is required")
		b.ButtonText = c.requiredString("buttonText", "Button text is required")
		b.ButtonURL = c.requiredURL("buttonUrl", "Valid button URL is required")
		block = b
	case BlockText:
		b := TextBlock{ID: id}
		b.Content = c.requiredString("content", "Content is required")
		b.Align = c.optionalEnum("align", TextAlignments, "Align must be one of "+strings.Join(TextAlignments, ", "))
		b.Size = c.optionalEnum("size", TextSizes, "Size must be one of "+strings.Join(TextSizes, ", "))
		block = b
	case BlockImage:
		b := ImageBlock{ID: id}
		b.ImageURL = c.requiredURL("imageUrl", "Valid image URL is required")
		b.ImageAlt = c.requiredString("imageAlt", "Image alt text is required")
		b.ImageWidth = c.requiredPositive("imageWidth", "Valid image width is required")
		b.ImageHeight = c.requiredPositive("imageHeight", "Valid image height is required")
		b.Link = c.optionalURL("link", "Valid link URL is required")
		block = b
	case BlockDivider:
		// Only type is required; unknown extra fields are ignored.
		b := DividerBlock{ID: id}
		b.Color = c.optionalColor("color", "Color must be a hex value such as #e0e0e0")
		b.Thickness = c.optionalPositive("thickness", "Thickness must be a positive number")
		block = b
	default:
		return nil, []FieldError{{Field: prefix + ".type", Message: "Unknown block type: " + typ, Value: typ}}
	}

	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return block, nil
}

// checker accumulates field errors for one block.
type checker struct {
	obj    map[string]any
	prefix string
	errs   []FieldError
}

func (c *checker) fail(key, msg string, value any) {
	c.errs = append(c.errs, FieldError{Field: c.prefix + "." + key, Message: msg, Value: value})
}

func (c *checker) requiredString(key, msg string) string {
	if !isNonEmptyString(c.obj[key]) {
		c.fail(key, msg, nil)
		return ""
	}
	return c.obj[key].(string)
}

func (c *checker) requiredURL(key, msg string) string {
	raw := c.obj[key]
	if !isURL(raw) {
		c.fail(key, msg, raw)
		return ""
	}
	return raw.(string)
}

func (c *checker) requiredPositive(key, msg string) float64 {
	raw := c.obj[key]
	n, ok := positiveNumber(raw)
	if !ok {
		c.fail(key, msg, raw)
	}
	return n
}

func (c *checker) optionalString(key, msg string) string {
	raw, present := c.obj[key]
	if !present || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		c.fail(key, msg, raw)
	}
	return s
}

func (c *checker) optionalURL(key, msg string) string {
	raw, present := c.obj[key]
	if !present || raw == nil {
		return ""
	}
	if !isURL(raw) {
		c.fail(key, msg, raw)
		return ""
	}
	return raw.(string)
}

func (c *checker) optionalEnum(key string, allowed []string, msg string) string {
	raw, present := c.obj[key]
	if !present || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		for _, a := range allowed {
			if s == a {
				return s
			}
		}
	}
	c.fail(key, msg, raw)
	return ""
}

func (c *checker) optionalColor(key, msg string) string {
	raw, present := c.obj[key]
	if !present || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok && hexColorPattern.MatchString(s) {
		return s
	}
	c.fail(key, msg, raw)
	return ""
}

func (c *checker) optionalPositive(key, msg string) float64 {
	raw, present := c.obj[key]
	if !present || raw == nil {
		return 0
	}
	n, ok := positiveNumber(raw)
	if !ok {
		c.fail(key, msg, raw)
	}
	return n
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// isURL reports whether v is a string that parses as an absolute URL.
// Scheme-only forms such as mailto: are accepted. Reachability is not checked.
func isURL(v any) bool {
	s, ok := v.(string)
	if !ok || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// positiveNumber accepts JSON numbers only; numeric strings are rejected.
func positiveNumber(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	return n, n > 0
}

func metadataOf(v any) Metadata {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return Metadata(m)
}
