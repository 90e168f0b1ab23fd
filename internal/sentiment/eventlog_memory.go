package sentiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/pscheid92/fxpulse/internal/domain"
)

// InMemoryEventLog keeps the latest analyzed events per currency in process memory.
// It backs single-instance deployments without Redis.
type InMemoryEventLog struct {
	mu       sync.RWMutex
	capacity int
	events   map[domain.Currency][]domain.AnalyzedEvent // newest first
}

var _ domain.EventLog = (*InMemoryEventLog)(nil)

// NewInMemoryEventLog creates a log holding up to capacity events per currency.
// A non-positive capacity selects domain.MaxRecentEvents.
func NewInMemoryEventLog(capacity int) *InMemoryEventLog {
	if capacity <= 0 {
		capacity = domain.MaxRecentEvents
	}
	return &InMemoryEventLog{
		capacity: capacity,
		events:   make(map[domain.Currency][]domain.AnalyzedEvent),
	}
}

func (l *InMemoryEventLog) Append(_ context.Context, event domain.AnalyzedEvent) error {
	currency := event.Observation.Currency
	if !currency.IsSupported() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := append([]domain.AnalyzedEvent{event}, l.events[currency]...)
	if len(list) > l.capacity {
		list = list[:l.capacity]
	}
	l.events[currency] = list
	return nil
}

func (l *InMemoryEventLog) Recent(_ context.Context, currency domain.Currency, limit int) ([]domain.AnalyzedEvent, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	list := l.events[currency]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	out := make([]domain.AnalyzedEvent, len(list))
	copy(out, list)
	return out, nil
}
