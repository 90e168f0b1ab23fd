package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/ingest"
	"github.com/pscheid92/fxpulse/internal/platform/config"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// --- Mock implementations ---

type mockAppService struct {
	getScorecardFn    func(currency domain.Currency) (domain.CurrencyScorecard, error)
	updatePillarsFn   func(ctx context.Context, currency domain.Currency, input map[string]any) (domain.CurrencyScorecard, error)
	updateAllFn       func(ctx context.Context, input map[string]any) []domain.CurrencyScorecard
	analyzeEventFn    func(ctx context.Context, obs domain.EventObservation) (domain.SentimentResult, error)
	analyzeRawEventFn func(ctx context.Context, raw ingest.RawEvent) (domain.EventObservation, domain.SentimentResult, error)
	recentEventsFn    func(ctx context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error)
}

func (m *mockAppService) ListScorecards() []domain.CurrencyScorecard {
	out := make([]domain.CurrencyScorecard, 0, 4)
	for _, c := range domain.SupportedCurrencies() {
		out = append(out, domain.NewScorecard(c, testNow))
	}
	return out
}

func (m *mockAppService) GetScorecard(currency domain.Currency) (domain.CurrencyScorecard, error) {
	if m.getScorecardFn != nil {
		return m.getScorecardFn(currency)
	}
	return domain.NewScorecard(currency, testNow), nil
}

func (m *mockAppService) UpdatePillars(ctx context.Context, currency domain.Currency, input map[string]any) (domain.CurrencyScorecard, error) {
	if m.updatePillarsFn != nil {
		return m.updatePillarsFn(ctx, currency, input)
	}
	return domain.NewScorecard(currency, testNow), nil
}

func (m *mockAppService) UpdateAll(ctx context.Context, input map[string]any) []domain.CurrencyScorecard {
	if m.updateAllFn != nil {
		return m.updateAllFn(ctx, input)
	}
	return m.ListScorecards()
}

func (m *mockAppService) AnalyzeEvent(ctx context.Context, obs domain.EventObservation) (domain.SentimentResult, error) {
	if m.analyzeEventFn != nil {
		return m.analyzeEventFn(ctx, obs)
	}
	return domain.SentimentResult{Sentiment: domain.Neutral, Confidence: 60}, nil
}

func (m *mockAppService) AnalyzeRawEvent(ctx context.Context, raw ingest.RawEvent) (domain.EventObservation, domain.SentimentResult, error) {
	if m.analyzeRawEventFn != nil {
		return m.analyzeRawEventFn(ctx, raw)
	}
	return domain.EventObservation{}, domain.SentimentResult{}, nil
}

func (m *mockAppService) RecentEvents(ctx context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error) {
	if m.recentEventsFn != nil {
		return m.recentEventsFn(ctx, currency, limit)
	}
	return nil, nil
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:         "0",
			APIRateLimit: 100,
			APIRateBurst: 100,
		},
		clock:     clockwork.NewFakeClockAt(testNow),
		app:       app,
		startTime: testNow,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withRateLimit(ratePerSecond float64, burst int) func(*Server) {
	return func(s *Server) {
		s.config.APIRateLimit = ratePerSecond
		s.config.APIRateBurst = burst
	}
}

func withClock(clock clockwork.Clock) func(*Server) {
	return func(s *Server) {
		s.clock = clock
	}
}

func withWebsocketHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.websocketHandler = h
	}
}

func newRequest(method, target string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.10:4321"
	return req, httptest.NewRecorder()
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.RemoteAddr = "192.0.2.10:4321"

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
