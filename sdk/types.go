package mailrender

import (
	"encoding/json"
	"time"
)

// Template names.
const (
	TemplateMultiBlock       = "multi-block"
	TemplateVerificationCode = "verification-code"
)

// Metadata is echoed back unchanged in the render response.
type Metadata map[string]any

// --- Requests ---

// MultiBlock is a request for the multi-block template.
type MultiBlock struct {
	Subject  string   `json:"subject"`
	Preview  string   `json:"preview"`
	Blocks   []Block  `json:"blocks"`
	Metadata Metadata `json:"metadata,omitempty"`
}

func (r MultiBlock) MarshalJSON() ([]byte, error) {
	type alias MultiBlock
	return json.Marshal(struct {
		Template string `json:"template"`
		alias
	}{TemplateMultiBlock, alias(r)})
}

// VerificationCode is a request for the verification-code template.
type VerificationCode struct {
	Subject       string   `json:"subject"`
	Preview       string   `json:"preview"`
	Code          string   `json:"code"`
	ExpiryMinutes int      `json:"expiryMinutes,omitempty"`
	RecipientName string   `json:"recipientName,omitempty"`
	Metadata      Metadata `json:"metadata,omitempty"`
}

func (r VerificationCode) MarshalJSON() ([]byte, error) {
	type alias VerificationCode
	return json.Marshal(struct {
		Template string `json:"template"`
		alias
	}{TemplateVerificationCode, alias(r)})
}

// Block is one block of a multi-block email. Set Type and the fields that
// type uses; the constructors below do this for you.
type Block struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	Title       string `json:"title,omitempty"`
	Text        string `json:"text,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImageAlt    string `json:"imageAlt,omitempty"`
	ImageWidth  int    `json:"imageWidth,omitempty"`
	ImageHeight int    `json:"imageHeight,omitempty"`
	ButtonText  string `json:"buttonText,omitempty"`
	ButtonURL   string `json:"buttonUrl,omitempty"`
	Link        string `json:"link,omitempty"`

	Content string `json:"content,omitempty"`
	Align   string `json:"align,omitempty"`
	Size    string `json:"size,omitempty"`

	Color     string `json:"color,omitempty"`
	Thickness int    `json:"thickness,omitempty"`
}

// ContentBlock is a card with image, heading, text and button.
func ContentBlock(title, text, imageURL, imageAlt string, width, height int, buttonText, buttonURL string) Block {
	return Block{
		Type: "content", Title: title, Text: text,
		ImageURL: imageURL, ImageAlt: imageAlt, ImageWidth: width, ImageHeight: height,
		ButtonText: buttonText, ButtonURL: buttonURL,
	}
}

func TextBlock(content string) Block {
	return Block{Type: "text", Content: content}
}

func ImageBlock(imageURL, imageAlt string, width, height int) Block {
	return Block{Type: "image", ImageURL: imageURL, ImageAlt: imageAlt, ImageWidth: width, ImageHeight: height}
}

func DividerBlock() Block {
	return Block{Type: "divider"}
}

// SendRequest renders Email and delivers it to To.
type SendRequest struct {
	To      []string `json:"to"`
	From    string   `json:"from,omitempty"`
	ReplyTo string   `json:"replyTo,omitempty"`
	Async   bool     `json:"async,omitempty"`
	Email   any      `json:"email"`
}

// --- Responses ---

type RenderResponse struct {
	HTML     string   `json:"html"`
	Subject  string   `json:"subject"`
	Preview  string   `json:"preview"`
	Template string   `json:"template"`
	Metadata Metadata `json:"metadata,omitempty"`
}

type TemplateInfo struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Config         map[string]any `json:"config"`
	ExampleRequest map[string]any `json:"exampleRequest,omitempty"`
}

// SendResponse carries ID for synchronous sends and JobID for queued ones.
type SendResponse struct {
	ID       string `json:"id,omitempty"`
	JobID    string `json:"jobId,omitempty"`
	Status   string `json:"status,omitempty"`
	Template string `json:"template"`
	Subject  string `json:"subject,omitempty"`
	Provider string `json:"provider"`
}

type DeliveryJob struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	Attempt     int        `json:"attempt"`
	MaxAttempts int        `json:"maxAttempts"`
	MessageID   string     `json:"messageId,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}
