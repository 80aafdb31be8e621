package templates

import (
	"context"

	"github.com/pkg/errors"

	"github.com/gsarma/mailrender/internal/email"
)

// RenderFunc produces a full HTML document for a validated request.
type RenderFunc func(req email.Request) (string, error)

// Info is the catalog entry served by the template listing endpoints.
type Info struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Config         map[string]any `json:"config"`
	ExampleRequest map[string]any `json:"exampleRequest,omitempty"`
}

type entry struct {
	render RenderFunc
	info   func() Info
}

// Registry maps template names to renderers. It is built once by NewRegistry
// and never mutated, so it is safe for concurrent use without locking.
type Registry struct {
	order   []string
	entries map[string]entry
}

// NewRegistry parses the embedded templates and registers the built-in
// renderers in listing order.
func NewRegistry(opts Options) (*Registry, error) {
	opts = opts.withDefaults()

	mb, err := newMultiBlockRenderer(opts)
	if err != nil {
		return nil, err
	}
	vc, err := newVerificationRenderer(opts)
	if err != nil {
		return nil, err
	}

	r := &Registry{entries: make(map[string]entry, 2)}
	r.register(email.TemplateMultiBlock, mb.render, func() Info { return multiBlockInfo(opts) })
	r.register(email.TemplateVerificationCode, vc.render, func() Info { return verificationInfo(opts) })
	return r, nil
}

func (r *Registry) register(name string, fn RenderFunc, info func() Info) {
	r.order = append(r.order, name)
	r.entries[name] = entry{render: fn, info: info}
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// List returns template names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Describe returns a freshly built catalog entry for name.
func (r *Registry) Describe(name string) (Info, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Info{}, false
	}
	return e.info(), true
}

// Render runs the renderer registered under name. Unknown names yield
// *email.TemplateNotFoundError; renderer failures, including panics, yield
// *email.RenderingError.
func (r *Registry) Render(_ context.Context, name string, req email.Request) (html string, err error) {
	e, ok := r.entries[name]
	if !ok {
		return "", &email.TemplateNotFoundError{Name: name}
	}

	defer func() {
		if p := recover(); p != nil {
			html = ""
			err = &email.RenderingError{Template: name, Err: errors.Errorf("panic: %v", p)}
		}
	}()

	html, err = e.render(req)
	if err != nil {
		return "", &email.RenderingError{Template: name, Err: errors.WithStack(err)}
	}
	return html, nil
}
