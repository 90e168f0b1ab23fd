package domain

import (
	"context"
)

// EventPublisher publishes engine output to the delivery layer.
type EventPublisher interface {
	PublishScorecardUpdated(ctx context.Context, scorecard CurrencyScorecard) error
	PublishEventAnalyzed(ctx context.Context, observation EventObservation, result SentimentResult) error
}
