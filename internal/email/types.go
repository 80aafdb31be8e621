package email

import "encoding/json"

// TemplateName identifies one of the built-in layouts.
type TemplateName = string

const (
	TemplateMultiBlock       TemplateName = "multi-block"
	TemplateVerificationCode TemplateName = "verification-code"
)

// Block type tags.
const (
	BlockContent = "content"
	BlockText    = "text"
	BlockImage   = "image"
	BlockDivider = "divider"
)

// Metadata is echoed back to the caller untouched. Known keys are userId,
// language, timezone and customData, but any JSON object is accepted.
type Metadata map[string]any

// Request is a validated email request. The concrete type is either
// *MultiBlockRequest or *VerificationCodeRequest.
type Request interface {
	Template() TemplateName
	Subject() string
	Preview() string
	Metadata() Metadata
	isRequest()
}

// Envelope holds the fields shared by every request variant.
type Envelope struct {
	SubjectText string   `json:"subject"`
	PreviewText string   `json:"preview"`
	Meta        Metadata `json:"metadata,omitzero"`
}

func (e Envelope) Subject() string    { return e.SubjectText }
func (e Envelope) Preview() string    { return e.PreviewText }
func (e Envelope) Metadata() Metadata { return e.Meta }

// MultiBlockRequest renders an ordered list of blocks.
type MultiBlockRequest struct {
	Envelope
	Blocks []Block `json:"blocks"`
}

func (*MultiBlockRequest) Template() TemplateName { return TemplateMultiBlock }
func (*MultiBlockRequest) isRequest()             {}

// VerificationCodeRequest renders a one-time code card.
type VerificationCodeRequest struct {
	Envelope
	Code          string   `json:"code"`
	ExpiryMinutes *float64 `json:"expiryMinutes,omitempty"`
	RecipientName string   `json:"recipientName,omitempty"`
}

func (*VerificationCodeRequest) Template() TemplateName { return TemplateVerificationCode }
func (*VerificationCodeRequest) isRequest()             {}

// Block is one visual unit of a multi-block email. The concrete type is one of
// ContentBlock, TextBlock, ImageBlock or DividerBlock.
type Block interface {
	Type() string
	BlockID() string
	isBlock()
}

// ContentBlock is a card with an image, heading, text and a call to action.
type ContentBlock struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Text        string  `json:"text"`
	ImageURL    string  `json:"imageUrl"`
	ImageAlt    string  `json:"imageAlt"`
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
	ButtonText  string  `json:"buttonText"`
	ButtonURL   string  `json:"buttonUrl"`
}

// TextBlock is a paragraph of text.
type TextBlock struct {
	ID      string `json:"id,omitempty"`
	Content string `json:"content"`
	Align   string `json:"align,omitempty"`
	Size    string `json:"size,omitempty"`
}

// ImageBlock is a standalone image, optionally linked.
type ImageBlock struct {
	ID          string  `json:"id,omitempty"`
	ImageURL    string  `json:"imageUrl"`
	ImageAlt    string  `json:"imageAlt"`
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
	Link        string  `json:"link,omitempty"`
}

// DividerBlock is a horizontal rule.
type DividerBlock struct {
	ID        string  `json:"id,omitempty"`
	Color     string  `json:"color,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
}

func (ContentBlock) Type() string { return BlockContent }
func (TextBlock) Type() string    { return BlockText }
func (ImageBlock) Type() string   { return BlockImage }
func (DividerBlock) Type() string { return BlockDivider }

func (b ContentBlock) BlockID() string { return b.ID }
func (b TextBlock) BlockID() string    { return b.ID }
func (b ImageBlock) BlockID() string   { return b.ID }
func (b DividerBlock) BlockID() string { return b.ID }

// MarshalJSON implementations put the type tag back so a marshaled block can
// be validated again.

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	type alias ContentBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{BlockContent, alias(b)})
}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{BlockText, alias(b)})
}

func (b ImageBlock) MarshalJSON() ([]byte, error) {
	type alias ImageBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{BlockImage, alias(b)})
}

func (b DividerBlock) MarshalJSON() ([]byte, error) {
	type alias DividerBlock
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{BlockDivider, alias(b)})
}

func (ContentBlock) isBlock() {}
func (TextBlock) isBlock()    {}
func (ImageBlock) isBlock()   {}
func (DividerBlock) isBlock() {}

// Response is the rendered artifact returned to the caller.
type Response struct {
	HTML     string       `json:"html"`
	Subject  string       `json:"subject"`
	Preview  string       `json:"preview"`
	Template TemplateName `json:"template"`
	Metadata Metadata     `json:"metadata,omitzero"`
}
