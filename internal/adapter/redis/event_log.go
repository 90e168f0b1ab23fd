package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pscheid92/fxpulse/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

const eventLogKeyPrefix = "events:recent:"

// EventLog keeps the latest analyzed events per currency in capped Redis lists, so every
// instance behind the load balancer serves the same history.
type EventLog struct {
	rdb      *goredis.Client
	capacity int64
}

var _ domain.EventLog = (*EventLog)(nil)

// NewEventLog creates a log holding up to capacity events per currency.
// A non-positive capacity selects domain.MaxRecentEvents.
func NewEventLog(rdb *goredis.Client, capacity int) *EventLog {
	if capacity <= 0 {
		capacity = domain.MaxRecentEvents
	}
	return &EventLog{rdb: rdb, capacity: int64(capacity)}
}

func eventLogKey(c domain.Currency) string {
	return eventLogKeyPrefix + string(c)
}

// Append pushes the event onto the head of the currency's list and trims the tail in one
// MULTI/EXEC.
func (l *EventLog) Append(ctx context.Context, event domain.AnalyzedEvent) error {
	currency := event.Observation.Currency
	if !currency.IsSupported() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode analyzed event: %w", err)
	}

	key := eventLogKey(currency)
	_, err = l.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, l.capacity-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append analyzed event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit returns the whole list.
func (l *EventLog) Recent(ctx context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}

	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	raw, err := l.rdb.LRange(ctx, eventLogKey(currency), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read analyzed events: %w", err)
	}

	events := make([]domain.AnalyzedEvent, 0, len(raw))
	for _, r := range raw {
		var e domain.AnalyzedEvent
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("failed to decode analyzed event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}
