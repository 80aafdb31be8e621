package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/delivery"
	"github.com/gsarma/mailrender/internal/email"
	"github.com/gsarma/mailrender/internal/metrics"
	"github.com/gsarma/mailrender/internal/templates"
	"github.com/gsarma/mailrender/internal/worker"
)

//go:generate mockgen -destination=mocks/mock_api.go -package=mocks github.com/gsarma/mailrender/internal/api Renderer,Queue
//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks github.com/gsarma/mailrender/internal/delivery Sender

// Renderer is the subset of renderer.Service the handlers depend on.
type Renderer interface {
	RenderEmail(ctx context.Context, raw any) (*email.Response, error)
	Templates() []string
	DescribeTemplate(name string) (templates.Info, bool)
}

// Queue accepts messages for background delivery.
type Queue interface {
	Enqueue(msg delivery.Message) (worker.Job, error)
	Status(id string) (worker.Job, bool)
}

type Options struct {
	Renderer Renderer
	// Sender and Queue are nil when delivery is not configured.
	Sender     delivery.Sender
	Queue      Queue
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Production bool
	Service    string
	Version    string
}

type Handler struct {
	renderer   Renderer
	sender     delivery.Sender
	queue      Queue
	metrics    *metrics.Metrics
	log        *zap.Logger
	production bool
	service    string
	version    string
	now        func() time.Time
}

func NewHandler(opts Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		renderer:   opts.Renderer,
		sender:     opts.Sender,
		queue:      opts.Queue,
		metrics:    opts.Metrics,
		log:        log,
		production: opts.Production,
		service:    opts.Service,
		version:    opts.Version,
		now:        time.Now,
	}
}
