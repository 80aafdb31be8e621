package email_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/mailrender/internal/email"
)

func newValidator() *email.Validator {
	return email.NewValidator(email.ValidatorOptions{})
}

// decode mirrors how the HTTP layer hands requests to the validator.
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func validationErr(t *testing.T, err error) *email.ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *email.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func fields(ve *email.ValidationError) []string {
	out := make([]string, len(ve.Details))
	for i, d := range ve.Details {
		out[i] = d.Field + ": " + d.Message
	}
	return out
}

func contentBlock() map[string]any {
	return map[string]any{
		"type":        "content",
		"title":       "Title",
		"text":        "Text",
		"imageUrl":    "https://cdn.example.com/a.png",
		"imageAlt":    "alt",
		"imageWidth":  float64(600),
		"imageHeight": float64(300),
		"buttonText":  "Go",
		"buttonUrl":   "https://example.com",
	}
}

// --- Common field tests ---

func TestValidate_NotAnObject(t *testing.T) {
	for _, raw := range []any{nil, "x", []any{}, float64(1)} {
		ve := validationErr(t, func() error { _, err := newValidator().Validate(raw); return err }())
		assert.Equal(t, "Request must be an object", ve.Message)
		assert.Empty(t, ve.Details)
	}
}

func TestValidate_CommonFieldsBatched(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{})
	ve := validationErr(t, err)

	assert.Equal(t, "Validation failed", ve.Message)
	assert.Equal(t, []string{
		"template: Template is required",
		"subject: Subject is required",
		"preview: Preview is required",
	}, fields(ve))
}

func TestValidate_CommonFailureSkipsTemplateChecks(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "   ",
		"preview":  "p",
		"blocks":   "not-an-array",
	})
	ve := validationErr(t, err)

	assert.Equal(t, []string{"subject: Subject is required"}, fields(ve))
}

func TestValidate_SubjectLength(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    []string
	}{
		{"at limit", strings.Repeat("a", 200), nil},
		{"multibyte at limit", strings.Repeat("é", 200), nil},
		{"over limit", strings.Repeat("a", 201), []string{"subject: Subject cannot exceed 200 characters"}},
		{"whitespace only", " \t\n ", []string{"subject: Subject is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newValidator().Validate(map[string]any{
				"template": "verification-code",
				"subject":  tt.subject,
				"preview":  "p",
				"code":     "1234",
			})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fields(validationErr(t, err)))
		})
	}
}

func TestValidate_PreviewLength(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{
		"template": "verification-code",
		"subject":  "s",
		"preview":  strings.Repeat("p", 151),
		"code":     "1234",
	})
	assert.Equal(t, []string{"preview: Preview cannot exceed 150 characters"}, fields(validationErr(t, err)))
}

func TestValidate_UnknownTemplate(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{
		"template": "bogus",
		"subject":  "s",
		"preview":  "p",
	})
	ve := validationErr(t, err)

	assert.Equal(t, "Unknown template: bogus", ve.Message)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, email.FieldError{Field: "template", Message: "Unknown template: bogus", Value: "bogus"}, ve.Details[0])
}

func TestValidate_MetadataEchoed(t *testing.T) {
	raw := decode(t, `{
		"template": "verification-code",
		"subject": "s",
		"preview": "p",
		"code": "1234",
		"metadata": {"userId": "u1", "customData": {"nested": [1, 2, {"k": null}]}}
	}`)

	req, err := newValidator().Validate(raw)
	require.NoError(t, err)

	want := raw.(map[string]any)["metadata"].(map[string]any)
	if diff := cmp.Diff(email.Metadata(want), req.Metadata()); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_NonObjectMetadataDropped(t *testing.T) {
	req, err := newValidator().Validate(map[string]any{
		"template": "verification-code",
		"subject":  "s",
		"preview":  "p",
		"code":     "1234",
		"metadata": "nope",
	})
	require.NoError(t, err)
	assert.Nil(t, req.Metadata())
}

// --- Multi-block tests ---

func TestValidate_MultiBlockSuccess(t *testing.T) {
	raw := decode(t, `{
		"template": "multi-block",
		"subject": "Weekly",
		"preview": "News",
		"unknownKey": true,
		"blocks": [
			{"type": "text", "id": "intro", "content": "Hello", "align": "center", "extra": 1},
			{"type": "image", "imageUrl": "https://x.io/a.png", "imageAlt": "a", "imageWidth": 10, "imageHeight": 20, "link": "https://x.io"},
			{"type": "divider", "color": "#fff", "thickness": 2, "whatever": "ignored"}
		]
	}`)

	req, err := newValidator().Validate(raw)
	require.NoError(t, err)

	mb, ok := req.(*email.MultiBlockRequest)
	require.True(t, ok, "expected *MultiBlockRequest, got %T", req)

	want := []email.Block{
		email.TextBlock{ID: "intro", Content: "Hello", Align: "center"},
		email.ImageBlock{ImageURL: "https://x.io/a.png", ImageAlt: "a", ImageWidth: 10, ImageHeight: 20, Link: "https://x.io"},
		email.DividerBlock{Color: "#fff", Thickness: 2},
	}
	if diff := cmp.Diff(want, mb.Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Weekly", mb.Subject())
	assert.Equal(t, email.TemplateMultiBlock, mb.Template())
}

func TestValidate_EmptyBlocks(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks":   []any{},
	})
	ve := validationErr(t, err)

	assert.Equal(t, "Multi-block validation failed", ve.Message)
	assert.Equal(t, []email.FieldError{{Field: "blocks", Message: "At least one block is required"}}, ve.Details)
}

func TestValidate_BlocksNotArray(t *testing.T) {
	_, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
	})
	assert.Equal(t, []string{"blocks: Blocks must be an array"}, fields(validationErr(t, err)))
}

func TestValidate_TooManyBlocks(t *testing.T) {
	v := email.NewValidator(email.ValidatorOptions{MaxBlocks: 2})
	blocks := []any{contentBlock(), contentBlock(), contentBlock()}

	_, err := v.Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks":   blocks,
	})
	ve := validationErr(t, err)

	require.Len(t, ve.Details, 1)
	assert.Equal(t, "Maximum 2 blocks allowed", ve.Details[0].Message)
	assert.Equal(t, 3, ve.Details[0].Value)
}

func TestValidate_MinBlocks(t *testing.T) {
	v := email.NewValidator(email.ValidatorOptions{MinBlocks: 2})
	base := map[string]any{"template": "multi-block", "subject": "s", "preview": "p"}

	base["blocks"] = []any{map[string]any{"type": "divider"}}
	_, err := v.Validate(base)
	ve := validationErr(t, err)
	assert.Equal(t, []string{"blocks: At least 2 blocks are required"}, fields(ve))
	assert.Equal(t, 1, ve.Details[0].Value)

	base["blocks"] = []any{}
	_, err = v.Validate(base)
	assert.Equal(t, []string{"blocks: At least one block is required"}, fields(validationErr(t, err)))

	base["blocks"] = []any{map[string]any{"type": "divider"}, map[string]any{"type": "divider"}}
	_, err = v.Validate(base)
	assert.NoError(t, err)
}

func TestValidate_SchemeOnlyURLs(t *testing.T) {
	block := contentBlock()
	block["buttonUrl"] = "mailto:support@example.com"

	req, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks": []any{
			block,
			map[string]any{"type": "image", "imageUrl": "https://x.io/a.png", "imageAlt": "a", "imageWidth": 1, "imageHeight": 1, "link": "tel:+15555550100"},
		},
	})
	require.NoError(t, err)

	mb := req.(*email.MultiBlockRequest)
	assert.Equal(t, "mailto:support@example.com", mb.Blocks[0].(email.ContentBlock).ButtonURL)
	assert.Equal(t, "tel:+15555550100", mb.Blocks[1].(email.ImageBlock).Link)
}

func TestValidate_BlockErrorsInIndexOrder(t *testing.T) {
	bad := contentBlock()
	delete(bad, "title")
	bad["imageUrl"] = "not a url"
	bad["imageWidth"] = "600"

	_, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks": []any{
			"string",
			map[string]any{"content": "no type"},
			bad,
			map[string]any{"type": "code", "code": "1234"},
			map[string]any{"type": "text", "content": "ok", "align": "justify", "size": "huge"},
			map[string]any{"type": "image", "imageUrl": "https://x.io/a.png", "imageAlt": "a", "imageWidth": 1, "imageHeight": 1, "link": "/relative"},
			map[string]any{"type": "divider", "color": "red", "thickness": -1},
		},
	})
	ve := validationErr(t, err)

	assert.Equal(t, []string{
		"blocks.0: Block must be an object",
		"blocks.1.type: Block type is required",
		"blocks.2.title: Title is required",
		"blocks.2.imageUrl: Valid image URL is required",
		"blocks.2.imageWidth: Valid image width is required",
		"blocks.3.type: Unknown block type: code",
		"blocks.4.align: Align must be one of left, center, right",
		"blocks.4.size: Size must be one of small, medium, large",
		"blocks.5.link: Valid link URL is required",
		"blocks.6.color: Color must be a hex value such as #e0e0e0",
		"blocks.6.thickness: Thickness must be a positive number",
	}, fields(ve))

	// Offending values ride along for URL and number errors.
	assert.Equal(t, "not a url", ve.Details[3].Value)
	assert.Equal(t, "600", ve.Details[4].Value)
	assert.Nil(t, ve.Details[2].Value)
}

func TestValidate_Deterministic(t *testing.T) {
	raw := map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks":   []any{map[string]any{"type": "content"}, map[string]any{"type": "text"}},
	}
	v := newValidator()

	_, err1 := v.Validate(raw)
	_, err2 := v.Validate(raw)
	assert.Equal(t, validationErr(t, err1).Details, validationErr(t, err2).Details)
}

// --- Verification code tests ---

func TestValidate_VerificationCode(t *testing.T) {
	tests := []struct {
		name string
		code any
		want []string
	}{
		{"valid", "1234", nil},
		{"missing", nil, []string{"code: Code is required"}},
		{"blank", "  ", []string{"code: Code is required"}},
		{"not a string", float64(1234), []string{"code: Code is required"}},
		{"letters", "12a4", []string{"code: Code must contain only numbers"}},
		{"short", "123", []string{"code: Code must be 4 characters"}},
		{"short with letters", "1a3", []string{"code: Code must be 4 characters", "code: Code must contain only numbers"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"template": "verification-code", "subject": "s", "preview": "p"}
			if tt.code != nil {
				raw["code"] = tt.code
			}
			req, err := newValidator().Validate(raw)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, "1234", req.(*email.VerificationCodeRequest).Code)
				return
			}
			ve := validationErr(t, err)
			assert.Equal(t, "Verification code validation failed", ve.Message)
			assert.Equal(t, tt.want, fields(ve))
		})
	}
}

func TestValidate_VerificationCodeOptionalFields(t *testing.T) {
	req, err := newValidator().Validate(map[string]any{
		"template":      "verification-code",
		"subject":       "s",
		"preview":       "p",
		"code":          "9876",
		"expiryMinutes": float64(10),
		"recipientName": "Sam",
	})
	require.NoError(t, err)

	vc := req.(*email.VerificationCodeRequest)
	require.NotNil(t, vc.ExpiryMinutes)
	assert.Equal(t, float64(10), *vc.ExpiryMinutes)
	assert.Equal(t, "Sam", vc.RecipientName)

	_, err = newValidator().Validate(map[string]any{
		"template":      "verification-code",
		"subject":       "s",
		"preview":       "p",
		"code":          "9876",
		"expiryMinutes": "10",
		"recipientName": 5,
	})
	assert.Equal(t, []string{
		"expiryMinutes: Expiry minutes must be a positive number",
		"recipientName: Recipient name must be a string",
	}, fields(validationErr(t, err)))
}

func TestValidate_CustomCodeLength(t *testing.T) {
	v := email.NewValidator(email.ValidatorOptions{CodeLength: 6})

	_, err := v.Validate(map[string]any{"template": "verification-code", "subject": "s", "preview": "p", "code": "1234"})
	assert.Equal(t, []string{"code: Code must be 6 characters"}, fields(validationErr(t, err)))

	_, err = v.Validate(map[string]any{"template": "verification-code", "subject": "s", "preview": "p", "code": "123456"})
	assert.NoError(t, err)
}

func TestBlockMarshalRevalidates(t *testing.T) {
	req, err := newValidator().Validate(map[string]any{
		"template": "multi-block",
		"subject":  "s",
		"preview":  "p",
		"blocks":   []any{contentBlock()},
	})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["template"] = "multi-block"

	again, err := newValidator().Validate(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(req, again); diff != "" {
		t.Errorf("re-validated request differs (-first +second):\n%s", diff)
	}
}
