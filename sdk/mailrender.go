// Package mailrender provides a Go client for the mailrender API.
//
// Usage:
//
//	client := mailrender.New("http://localhost:3001/api/v1/email-templates")
//
//	// Render a verification code email
//	resp, err := client.Render(ctx, mailrender.VerificationCode{
//	    Subject: "Your sign-in code",
//	    Preview: "Use this code to sign in",
//	    Code:    "4821",
//	})
//
//	// Render and deliver it
//	sent, err := client.Send(ctx, mailrender.SendRequest{
//	    To:    []string{"user@example.com"},
//	    Email: mailrender.VerificationCode{...},
//	})
package mailrender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// CorrelationIDHeader is sent with every request when a correlation ID is
// present on the context.
const CorrelationIDHeader = "X-Correlation-ID"

// Client talks to one mailrender deployment. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client. baseURL includes the API base path, e.g.
// "http://localhost:3001/api/v1/email-templates".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type correlationKey struct{}

// WithCorrelationID returns a context whose requests carry id in the
// X-Correlation-ID header.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// Render renders req. req is usually MultiBlock or VerificationCode, but any
// value that marshals to a request object is accepted.
func (c *Client) Render(ctx context.Context, req any) (*RenderResponse, error) {
	return doRequest[RenderResponse](ctx, c, http.MethodPost, "/render", req, http.StatusOK)
}

// RenderTemplate renders req with the named template, ignoring any template
// field in req.
func (c *Client) RenderTemplate(ctx context.Context, template string, req any) (*RenderResponse, error) {
	return doRequest[RenderResponse](ctx, c, http.MethodPost, "/render/"+url.PathEscape(template), req, http.StatusOK)
}

// Templates lists the available templates.
func (c *Client) Templates(ctx context.Context) ([]TemplateInfo, error) {
	out, err := doRequest[struct {
		Templates []TemplateInfo `json:"templates"`
	}](ctx, c, http.MethodGet, "/templates", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Template describes one template, including an example request.
func (c *Client) Template(ctx context.Context, name string) (*TemplateInfo, error) {
	return doRequest[TemplateInfo](ctx, c, http.MethodGet, "/templates/"+url.PathEscape(name), nil, http.StatusOK)
}

// Send renders and delivers an email. When req.Async is set the server
// queues the message and the response carries a job ID instead of a
// provider message ID.
func (c *Client) Send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	return doRequest[SendResponse](ctx, c, http.MethodPost, "/send", req, http.StatusOK, http.StatusAccepted)
}

// Delivery fetches the state of an asynchronous send.
func (c *Client) Delivery(ctx context.Context, jobID string) (*DeliveryJob, error) {
	return doRequest[DeliveryJob](ctx, c, http.MethodGet, "/send/"+url.PathEscape(jobID), nil, http.StatusOK)
}

// Health checks that the server is reachable and healthy.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, http.MethodGet, "/health", nil, http.StatusOK)
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("mailrender: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		req.Header.Set(CorrelationIDHeader, id)
	}
	return req, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any, expectedStatuses ...int) (*T, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	for _, s := range expectedStatuses {
		if resp.StatusCode == s {
			var out T
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return nil, fmt.Errorf("mailrender: decode response: %w", err)
			}
			return &out, nil
		}
	}
	return nil, parseError(resp)
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error struct {
			Code    string       `json:"code"`
			Message string       `json:"message"`
			Details []FieldError `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Message != "" {
		e.Code = body.Error.Code
		e.Message = body.Error.Message
		e.Details = body.Error.Details
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
