// Package server assembles the HTTP engine and runs it alongside the
// background loops it depends on.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gsarma/mailrender/docs"
	"github.com/gsarma/mailrender/internal/api"
	"github.com/gsarma/mailrender/internal/cache"
	"github.com/gsarma/mailrender/internal/config"
	"github.com/gsarma/mailrender/internal/delivery"
	"github.com/gsarma/mailrender/internal/logger"
	"github.com/gsarma/mailrender/internal/metrics"
	"github.com/gsarma/mailrender/internal/middleware"
	"github.com/gsarma/mailrender/internal/renderer"
	"github.com/gsarma/mailrender/internal/worker"
)

type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	engine   *gin.Engine
	renderer *renderer.Service
	cache    cache.Cache
	limiter  *middleware.RateLimiter
	pool     *worker.Pool
}

// New wires every component described by cfg.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	svc, c, err := NewRenderer(cfg, log, m)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, log: log, renderer: svc, cache: c}

	sender, err := delivery.New(cfg.Delivery)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	var queue api.Queue
	if sender != nil {
		s.pool = worker.New(sender, worker.Options{
			Concurrency: cfg.Queue.Workers,
			QueueSize:   cfg.Queue.Size,
			MaxAttempts: cfg.Queue.MaxAttempts,
			BackoffBase: cfg.Queue.RetryBackoff,
			Logger:      log,
			Metrics:     m,
		})
		queue = s.pool
	}

	var limit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, log)
		limit = s.limiter.Middleware()
	}

	h := api.NewHandler(api.Options{
		Renderer:   svc,
		Sender:     sender,
		Queue:      queue,
		Metrics:    m,
		Logger:     log,
		Production: cfg.IsProduction(),
		Service:    logger.ServiceName,
		Version:    config.Version,
	})

	s.engine = newEngine(cfg, log, m)
	api.RegisterRoutes(s.engine, h, cfg.Server.BasePath, limit)
	return s, nil
}

func newEngine(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(log))
	r.Use(m.Middleware())
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.NoRoute(middleware.NotFound())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	docs.SwaggerInfo.BasePath = cfg.Server.BasePath
	docs.SwaggerInfo.Version = config.Version
	// Empty host and schemes make the UI call whichever origin served it.
	docs.SwaggerInfo.Host = ""
	docs.SwaggerInfo.Schemes = []string{}
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(docs.SwaggerInfo.ReadDoc()))
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.CorrelationIDHeader},
		ExposeHeaders: []string{middleware.CorrelationIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler exposes the engine, e.g. for the Lambda adapter or tests.
func (s *Server) Handler() *gin.Engine { return s.engine }

// Run serves HTTP and the background loops until ctx is cancelled, then
// drains in-flight requests for at most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.String("base_path", s.cfg.Server.BasePath),
			zap.String("stage", s.cfg.Stage),
			zap.Strings("templates", s.renderer.Templates()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return s.RunBackground(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("Shutting down", zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if cerr := s.Close(); cerr != nil {
		s.log.Warn("Closing render cache failed", zap.Error(cerr))
	}
	return err
}

// RunBackground runs rate limiter eviction and the delivery workers until
// ctx is cancelled.
func (s *Server) RunBackground(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if s.limiter != nil {
		g.Go(func() error { return s.limiter.Run(ctx) })
	}
	if s.pool != nil {
		g.Go(func() error { return s.pool.Run(ctx) })
	}
	return g.Wait()
}

// Close releases the render cache.
func (s *Server) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
