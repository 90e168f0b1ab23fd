package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/adapter/metrics"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/ingest"
	"github.com/pscheid92/fxpulse/internal/platform/config"
)

type appService interface {
	ListScorecards() []domain.CurrencyScorecard
	GetScorecard(currency domain.Currency) (domain.CurrencyScorecard, error)
	UpdatePillars(ctx context.Context, currency domain.Currency, input map[string]any) (domain.CurrencyScorecard, error)
	UpdateAll(ctx context.Context, input map[string]any) []domain.CurrencyScorecard
	AnalyzeEvent(ctx context.Context, obs domain.EventObservation) (domain.SentimentResult, error)
	AnalyzeRawEvent(ctx context.Context, raw ingest.RawEvent) (domain.EventObservation, domain.SentimentResult, error)
	RecentEvents(ctx context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config
	clock  clockwork.Clock

	app appService

	websocketHandler http.Handler
	metricsHandler   http.Handler
	httpMetrics      *metrics.HTTPMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

// NewServer builds the echo server and registers all routes. metricsHandler and
// httpMetrics may be nil.
func NewServer(cfg *config.Config, app appService, websocketHandler http.Handler, metricsHandler http.Handler, httpMetrics *metrics.HTTPMetrics, clock clockwork.Clock, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:             e,
		config:           cfg,
		clock:            clock,
		app:              app,
		websocketHandler: websocketHandler,
		metricsHandler:   metricsHandler,
		httpMetrics:      httpMetrics,
		healthChecks:     healthChecks,
		startTime:        clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the router, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
