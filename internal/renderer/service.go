// Package renderer turns raw email requests into rendered responses:
// validate, resolve the template, render, assemble.
package renderer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/cache"
	"github.com/gsarma/mailrender/internal/email"
	"github.com/gsarma/mailrender/internal/logger"
	"github.com/gsarma/mailrender/internal/metrics"
	"github.com/gsarma/mailrender/internal/templates"
)

// Options wires a Service. Validator and Registry are required; the rest may
// be left nil.
type Options struct {
	Validator *email.Validator
	Registry  *templates.Registry
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Cache     cache.Cache
	CacheTTL  time.Duration
}

// Service is safe for concurrent use. It holds no per-request state.
type Service struct {
	validator *email.Validator
	registry  *templates.Registry
	log       *zap.Logger
	metrics   *metrics.Metrics
	cache     cache.Cache
	cacheTTL  time.Duration
}

func New(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		validator: opts.Validator,
		registry:  opts.Registry,
		log:       log,
		metrics:   opts.Metrics,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
	}
}

// RenderEmail validates raw, renders it with the selected template and
// assembles the response. Errors are *email.ValidationError,
// *email.TemplateNotFoundError or *email.RenderingError, returned unchanged.
//
// Cancellation of ctx does not abort a render; ctx carries the correlation ID
// and bounds cache I/O.
func (s *Service) RenderEmail(ctx context.Context, raw any) (*email.Response, error) {
	start := time.Now()
	log := logger.WithContext(ctx, s.log)

	template := templateOf(raw)
	log.Debug("Rendering email", zap.String("template", template))

	req, err := s.validator.Validate(raw)
	if err != nil {
		var ve *email.ValidationError
		if errors.As(err, &ve) {
			log.Warn("Email validation failed",
				zap.String("template", template),
				zap.String("reason", ve.Message),
				zap.Any("details", ve.Details),
			)
		}
		s.metrics.ObserveRender(s.metricLabel(template), metrics.OutcomeInvalid, time.Since(start))
		return nil, err
	}
	log.Debug("Email validation succeeded", zap.String("template", req.Template()))

	html, err := s.render(ctx, req)
	if err != nil {
		s.metrics.ObserveRender(s.metricLabel(req.Template()), outcomeOf(err), time.Since(start))
		log.Error("Email rendering failed",
			zap.String("template", req.Template()),
			zap.Error(err),
			zap.String("stack", stackOf(err)),
		)
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveRender(s.metricLabel(req.Template()), metrics.OutcomeSuccess, elapsed)
	log.Info("Email rendered",
		zap.String("template", req.Template()),
		zap.Int("html_bytes", len(html)),
		zap.Duration("duration", elapsed),
	)

	return &email.Response{
		HTML:     html,
		Subject:  req.Subject(),
		Preview:  req.Preview(),
		Template: req.Template(),
		Metadata: req.Metadata(),
	}, nil
}

// render consults the cache before the registry. Metadata is excluded from
// the key because it never reaches the markup.
func (s *Service) render(ctx context.Context, req email.Request) (string, error) {
	if s.cache == nil {
		return s.registry.Render(ctx, req.Template(), req)
	}

	key, err := cache.Key(req.Template(), withoutMetadata(req))
	if err != nil {
		return s.registry.Render(ctx, req.Template(), req)
	}

	if b, ok := s.cache.Get(ctx, key); ok {
		s.metrics.ObserveCache(true)
		return string(b), nil
	}
	s.metrics.ObserveCache(false)

	html, err := s.registry.Render(ctx, req.Template(), req)
	if err != nil {
		return "", err
	}
	s.cache.Set(ctx, key, []byte(html), s.cacheTTL)
	return html, nil
}

// Templates lists registered template names in registration order.
func (s *Service) Templates() []string { return s.registry.List() }

func (s *Service) HasTemplate(name string) bool { return s.registry.Has(name) }

func (s *Service) DescribeTemplate(name string) (templates.Info, bool) {
	return s.registry.Describe(name)
}

func withoutMetadata(req email.Request) email.Request {
	switch r := req.(type) {
	case *email.MultiBlockRequest:
		cp := *r
		cp.Meta = nil
		return &cp
	case *email.VerificationCodeRequest:
		cp := *r
		cp.Meta = nil
		return &cp
	default:
		return req
	}
}

// metricLabel keeps caller-supplied names out of metric labels; anything not
// registered is reported as "unknown".
func (s *Service) metricLabel(template string) string {
	if s.registry.Has(template) {
		return template
	}
	return ""
}

func templateOf(raw any) string {
	if m, ok := raw.(map[string]any); ok {
		if s, ok := m["template"].(string); ok {
			return s
		}
	}
	return ""
}

func outcomeOf(err error) string {
	var nf *email.TemplateNotFoundError
	var re *email.RenderingError
	switch {
	case errors.As(err, &nf):
		return metrics.OutcomeNotFound
	case errors.As(err, &re):
		return metrics.OutcomeRendering
	default:
		return metrics.OutcomeError
	}
}
