package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/ingest"
)

// Analyzer turns one observation into a sentiment judgement.
type Analyzer interface {
	Analyze(obs domain.EventObservation) (domain.SentimentResult, error)
}

// Recorder receives engine measurements. The metrics adapter implements it.
type Recorder interface {
	ScorecardUpdated(currency domain.Currency, bias domain.Direction)
	EventAnalyzed(currency domain.Currency, sentiment domain.Direction)
	RecomputeCompleted(duration time.Duration, changed int)
}

type noopRecorder struct{}

func (noopRecorder) ScorecardUpdated(domain.Currency, domain.Direction) {}
func (noopRecorder) EventAnalyzed(domain.Currency, domain.Direction)    {}
func (noopRecorder) RecomputeCompleted(time.Duration, int)              {}

// Service is the application layer: the only component that references both the
// scorecard store and the analyzer. Publishing is best-effort; a failed publish is
// logged and never fails the use case.
type Service struct {
	store     domain.ScorecardStore
	analyzer  Analyzer
	events    domain.EventLog
	publisher domain.EventPublisher
	recorder  Recorder
	clock     clockwork.Clock
}

// NewService creates the application layer service. recorder may be nil.
func NewService(store domain.ScorecardStore, analyzer Analyzer, events domain.EventLog, publisher domain.EventPublisher, recorder Recorder, clock clockwork.Clock) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		store:     store,
		analyzer:  analyzer,
		events:    events,
		publisher: publisher,
		recorder:  recorder,
		clock:     clock,
	}
}

// ListScorecards returns every supported currency's scorecard in enumeration order.
func (s *Service) ListScorecards() []domain.CurrencyScorecard {
	return s.store.List()
}

// GetScorecard returns the latest scorecard for currency.
func (s *Service) GetScorecard(currency domain.Currency) (domain.CurrencyScorecard, error) {
	return s.store.Get(currency)
}

// UpdatePillars applies pillar scores to one currency and publishes the result.
func (s *Service) UpdatePillars(ctx context.Context, currency domain.Currency, input map[string]any) (domain.CurrencyScorecard, error) {
	sc, err := s.store.UpdatePillars(currency, input)
	if err != nil {
		return domain.CurrencyScorecard{}, err
	}

	s.recorder.ScorecardUpdated(sc.Currency, sc.Bias)
	s.publishScorecard(ctx, sc)

	slog.DebugContext(ctx, "Scorecard updated", "currency", sc.Currency, "weighted_bias_score", sc.WeightedBiasScore, "bias", sc.Bias)
	return sc, nil
}

// UpdateAll applies the same pillar scores to every supported currency.
func (s *Service) UpdateAll(ctx context.Context, input map[string]any) []domain.CurrencyScorecard {
	scorecards := s.store.UpdateAll(input)
	for _, sc := range scorecards {
		s.recorder.ScorecardUpdated(sc.Currency, sc.Bias)
		s.publishScorecard(ctx, sc)
	}
	return scorecards
}

// ApplySeed writes starting pillar scores in currency enumeration order and returns
// the resulting scorecards.
func (s *Service) ApplySeed(ctx context.Context, seed ingest.Seed) ([]domain.CurrencyScorecard, error) {
	var applied []domain.CurrencyScorecard
	for _, c := range domain.SupportedCurrencies() {
		input, ok := seed[c]
		if !ok {
			continue
		}
		sc, err := s.UpdatePillars(ctx, c, input)
		if err != nil {
			return applied, fmt.Errorf("seed %s: %w", c, err)
		}
		applied = append(applied, sc)
	}
	return applied, nil
}

// AnalyzeEvent scores one observation, records it in the event log and publishes the
// judgement on the currency's channel.
func (s *Service) AnalyzeEvent(ctx context.Context, obs domain.EventObservation) (domain.SentimentResult, error) {
	res, err := s.analyzer.Analyze(obs)
	if err != nil {
		return domain.SentimentResult{}, err
	}

	s.recorder.EventAnalyzed(obs.Currency, res.Sentiment)

	event := domain.AnalyzedEvent{
		ID:          uuid.NewString(),
		Observation: obs,
		Result:      res,
		AnalyzedAt:  s.clock.Now().UTC(),
	}
	if err := s.events.Append(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to record analyzed event", "currency", obs.Currency, "error", err)
	}
	if err := s.publisher.PublishEventAnalyzed(ctx, obs, res); err != nil {
		slog.WarnContext(ctx, "Failed to publish event analysis", "currency", obs.Currency, "title", obs.Title, "error", err)
	}

	slog.DebugContext(ctx, "Event analyzed", "currency", obs.Currency, "category", obs.Category, "score", res.Score, "sentiment", res.Sentiment, "confidence", res.Confidence)
	return res, nil
}

// AnalyzeRawEvent normalizes a scraped calendar row, then analyzes it.
func (s *Service) AnalyzeRawEvent(ctx context.Context, raw ingest.RawEvent) (domain.EventObservation, domain.SentimentResult, error) {
	obs, err := ingest.Normalize(raw)
	if err != nil {
		return domain.EventObservation{}, domain.SentimentResult{}, err
	}

	res, err := s.AnalyzeEvent(ctx, obs)
	if err != nil {
		return domain.EventObservation{}, domain.SentimentResult{}, err
	}
	return obs, res, nil
}

// RecentEvents returns up to limit analyzed events for currency, newest first.
func (s *Service) RecentEvents(ctx context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}
	if limit <= 0 || limit > domain.MaxRecentEvents {
		limit = domain.MaxRecentEvents
	}
	return s.events.Recent(ctx, currency, limit)
}

// Recompute re-derives every scorecard and publishes those whose derived fields moved.
// It returns the number of changed scorecards.
func (s *Service) Recompute(ctx context.Context) int {
	start := s.clock.Now()

	updated := s.store.RecomputeChanged()
	for _, sc := range updated {
		s.publishScorecard(ctx, sc)
	}
	changed := len(updated)

	s.recorder.RecomputeCompleted(s.clock.Since(start), changed)
	return changed
}

func (s *Service) publishScorecard(ctx context.Context, sc domain.CurrencyScorecard) {
	if err := s.publisher.PublishScorecardUpdated(ctx, sc); err != nil {
		slog.WarnContext(ctx, "Failed to publish scorecard update", "currency", sc.Currency, "error", err)
	}
}
