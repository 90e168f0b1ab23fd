package app

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecomputeTicker_DefaultInterval(t *testing.T) {
	ticker := NewRecomputeTicker(nil, clockwork.NewFakeClock(), 0)
	assert.Equal(t, DefaultRecomputeInterval, ticker.interval)
	assert.Equal(t, 5*time.Minute, ticker.interval)
}

func TestRecomputeTicker_PublishesAfterInterval(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	store := &driftingStore{InMemoryStore: sentiment.NewInMemoryStore(clock)}
	pub := &mockPublisher{}
	rec := &mockRecorder{}
	svc := NewService(store, sentiment.Analyzer{}, sentiment.NewInMemoryEventLog(0), pub, rec, clock)
	ticker := NewRecomputeTicker(svc, clock, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ticker.Run(ctx)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, pub.getScorecards(), "no recompute before the first tick")

	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool {
		updates := pub.getScorecards()
		return len(updates) == 1 && updates[0].Currency == domain.CurrencyUSD
	}, time.Second, 10*time.Millisecond)
}

func TestRecomputeTicker_NoPublishWithoutChange(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	pub := &mockPublisher{}
	rec := &mockRecorder{}
	svc := NewService(sentiment.NewInMemoryStore(clock), sentiment.Analyzer{}, sentiment.NewInMemoryEventLog(0), pub, rec, clock)
	ticker := NewRecomputeTicker(svc, clock, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ticker.Run(ctx)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)

	assert.Eventually(t, func() bool {
		return len(rec.getRecomputes()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, pub.getScorecards())
}

func TestRecomputeTicker_StopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testNow)
	svc := NewService(sentiment.NewInMemoryStore(clock), sentiment.Analyzer{}, sentiment.NewInMemoryEventLog(0), &mockPublisher{}, nil, clock)
	ticker := NewRecomputeTicker(svc, clock, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ticker.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancel")
	}
}
