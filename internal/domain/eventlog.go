package domain

import (
	"context"
	"time"
)

// MaxRecentEvents bounds how many analyzed events are kept per currency.
const MaxRecentEvents = 50

// AnalyzedEvent is one observation together with the judgement it produced.
type AnalyzedEvent struct {
	ID          string           `json:"id"`
	Observation EventObservation `json:"observation"`
	Result      SentimentResult  `json:"result"`
	AnalyzedAt  time.Time        `json:"analyzedAt"`
}

// EventLog keeps the most recent analyzed events per currency, newest first.
type EventLog interface {
	Append(ctx context.Context, event AnalyzedEvent) error
	Recent(ctx context.Context, currency Currency, limit int) ([]AnalyzedEvent, error)
}
