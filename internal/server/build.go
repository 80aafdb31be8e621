package server

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/cache"
	"github.com/gsarma/mailrender/internal/config"
	"github.com/gsarma/mailrender/internal/email"
	"github.com/gsarma/mailrender/internal/metrics"
	"github.com/gsarma/mailrender/internal/renderer"
	"github.com/gsarma/mailrender/internal/templates"
)

// NewRenderer builds the render pipeline described by cfg. The returned
// cache is nil when caching is disabled; callers own closing it.
func NewRenderer(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*renderer.Service, cache.Cache, error) {
	reg, err := templates.NewRegistry(templates.Options{
		AssetsBaseURL:  cfg.AssetsBaseURL(),
		UnsubscribeURL: cfg.Templates.UnsubscribeURL,
		BrandName:      cfg.Templates.BrandName,
		Lang:           cfg.Templates.Lang,
		MaxBlocks:      cfg.Templates.MaxBlocks,
		MinBlocks:      cfg.Templates.MinBlocks,
		CodeLength:     cfg.Templates.CodeLength,
		ExpiryMinutes:  cfg.Templates.ExpiryMinutes,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "build template registry")
	}

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open render cache")
	}

	svc := renderer.New(renderer.Options{
		Validator: email.NewValidator(email.ValidatorOptions{
			MinBlocks:  cfg.Templates.MinBlocks,
			MaxBlocks:  cfg.Templates.MaxBlocks,
			CodeLength: cfg.Templates.CodeLength,
		}),
		Registry: reg,
		Logger:   log,
		Metrics:  m,
		Cache:    c,
		CacheTTL: cfg.Cache.TTL,
	})
	return svc, c, nil
}
