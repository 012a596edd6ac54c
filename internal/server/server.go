package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logingest/internal/config"
	"github.com/akave-ai/logingest/internal/handler"
	"github.com/akave-ai/logingest/internal/infrastructure/sources"
)

// Deps are the collaborators the HTTP surface dispatches to.
type Deps struct {
	Ingester handler.Ingester
	Runs     handler.RunStore // optional ingestion ledger
	Sources  *sources.Registry
	NewRelic *newrelic.Application // optional
	Logger   zerolog.Logger
}

// Server holds the Echo app and dependencies.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	logger zerolog.Logger
}

// New builds the Echo server and registers routes.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger.With().Str("component", "http").Logger()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	e.Use(middleware.Recover(), middleware.RequestID(), requestLogger(logger))
	if deps.NewRelic != nil {
		e.Use(newRelicTransactions(deps.NewRelic))
	}

	ingestHandler := &handler.IngestHandler{
		Ingester: deps.Ingester,
		Runs:     deps.Runs,
		Validate: validator.New(),
		Logger:   logger,
	}
	ledgerHandler := &handler.LedgerHandler{Runs: deps.Runs, Logger: logger}
	sourceHandler := &handler.SourceHandler{Registry: deps.Sources, Active: cfg.Source.Backend}

	e.GET("/health", ingestHandler.Health)
	e.POST("/ingest", ingestHandler.Ingest)

	// Side-channel telemetry
	e.GET("/ingestions", ledgerHandler.List)
	e.GET("/ingestions/:id", ledgerHandler.Get)
	e.GET("/sources", sourceHandler.Info)
	e.GET("/sources/:type", sourceHandler.TypeInfo)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return &Server{Echo: e, Config: cfg, logger: logger}
}

// Start serves HTTP. Blocks until the context is cancelled or the server fails.
// On context cancel it stops accepting requests and returns only after the
// in-flight ones have finished, or Server.ShutdownTimeout has passed.
func (s *Server) Start(ctx context.Context) error {
	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx := context.Background()
		if t := s.Config.Server.ShutdownTimeout; t > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(shutdownCtx, t)
			defer cancel()
		}
		s.logger.Info().Msg("draining in-flight requests")
		drained <- s.Shutdown(shutdownCtx)
	}()

	addr := s.Config.Server.Addr()
	s.logger.Info().Str("addr", addr).Msg("starting server")
	if err := s.Echo.Start(addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = logger.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
