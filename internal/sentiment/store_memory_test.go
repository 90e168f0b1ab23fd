package sentiment

import (
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*InMemoryStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	return NewInMemoryStore(clock), clock
}

func pillarScore(t *testing.T, sc domain.CurrencyScorecard, p domain.Pillar) domain.PillarScore {
	t.Helper()
	for _, ps := range sc.Pillars {
		if ps.Pillar == p {
			return ps
		}
	}
	t.Fatalf("pillar %s not found", p)
	return domain.PillarScore{}
}

func TestInMemoryStore_StartsNeutral(t *testing.T) {
	store, _ := newTestStore(t)

	for _, c := range domain.SupportedCurrencies() {
		sc, err := store.Get(c)
		require.NoError(t, err)
		assert.Equal(t, c, sc.Currency)
		require.Len(t, sc.Pillars, 10)
		for _, ps := range sc.Pillars {
			assert.Zero(t, ps.Score)
		}
		assert.Equal(t, domain.Neutral, sc.Bias)
		assert.Zero(t, sc.WeightedBiasScore)
	}
}

func TestInMemoryStore_GetUnsupportedCurrency(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get("XYZ")
	require.ErrorIs(t, err, domain.ErrUnsupportedCurrency)

	_, err = store.UpdatePillars("XYZ", map[string]any{"policy": 1.0})
	require.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
}

func TestInMemoryStore_UpdatePillars(t *testing.T) {
	store, clock := newTestStore(t)
	clock.Advance(time.Minute)

	sc, err := store.UpdatePillars(domain.CurrencyUSD, map[string]any{
		"policy":    2.0,
		"inflation": 1,
		"valuation": json.Number("-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, pillarScore(t, sc, domain.PillarPolicy).Score)
	assert.Equal(t, domain.RationaleUpdated, pillarScore(t, sc, domain.PillarPolicy).Rationale)
	assert.Equal(t, 1.0, pillarScore(t, sc, domain.PillarInflation).Score)
	assert.Equal(t, -1.0, pillarScore(t, sc, domain.PillarValuation).Score)
	assert.Equal(t, domain.RationaleNeutral, pillarScore(t, sc, domain.PillarGrowth).Rationale)

	// 2*0.20 + 1*0.15 - 1*0.07 = 0.48, below the bullish threshold
	assert.Equal(t, 0.48, sc.WeightedBiasScore)
	assert.Equal(t, domain.Neutral, sc.Bias)
	assert.Equal(t, clock.Now(), sc.UpdatedAt)

	stored, err := store.Get(domain.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, sc, stored)

	other, err := store.Get(domain.CurrencyEUR)
	require.NoError(t, err)
	assert.Zero(t, other.WeightedBiasScore)
}

func TestInMemoryStore_PartialUpdateKeepsOtherPillars(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"policy": 1.0, "growth": -1.0})
	require.NoError(t, err)
	sc, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"growth": 2.0})
	require.NoError(t, err)

	assert.Equal(t, 1.0, pillarScore(t, sc, domain.PillarPolicy).Score)
	assert.Equal(t, 2.0, pillarScore(t, sc, domain.PillarGrowth).Score)
}

func TestInMemoryStore_WeightedScoreMatchesFormula(t *testing.T) {
	store, _ := newTestStore(t)

	updates := []map[string]any{
		{"policy": 1.5, "labor": -2.0},
		{"inflation": 0.5, "termsOfTrade": 2.0, "fiscal": -0.25},
		{"politics": -1.0, "financialConditions": 1.75, "external": 0.8},
	}
	var sc domain.CurrencyScorecard
	var err error
	for _, u := range updates {
		sc, err = store.UpdatePillars(domain.CurrencyJPY, u)
		require.NoError(t, err)
	}

	var sum float64
	for _, ps := range sc.Pillars {
		sum += ps.Score * ps.Pillar.Weight()
	}
	assert.Equal(t, math.Round(sum*100)/100, sc.WeightedBiasScore)
}

func TestInMemoryStore_BullishAndBearishBoundaries(t *testing.T) {
	store, _ := newTestStore(t)

	sc, err := store.UpdatePillars(domain.CurrencyGBP, map[string]any{"policy": 2.0, "labor": 2.0})
	require.NoError(t, err)
	assert.Equal(t, 0.6, sc.WeightedBiasScore)
	assert.Equal(t, domain.Bullish, sc.Bias)

	sc, err = store.UpdatePillars(domain.CurrencyGBP, map[string]any{"policy": -2.0, "labor": -2.0})
	require.NoError(t, err)
	assert.Equal(t, -0.6, sc.WeightedBiasScore)
	assert.Equal(t, domain.Bearish, sc.Bias)
}

func TestInMemoryStore_InvalidValuesAreSkipped(t *testing.T) {
	store, _ := newTestStore(t)

	before, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"policy": 1.0})
	require.NoError(t, err)

	invalid := []any{5.0, -2.01, "abc", "1.5", nil, true, math.NaN(), math.Inf(1), json.Number("x")}
	for _, v := range invalid {
		after, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"policy": v})
		require.NoError(t, err)
		assert.Equal(t, 1.0, pillarScore(t, after, domain.PillarPolicy).Score, "value %v", v)
		assert.Equal(t, domain.RationaleUpdated, pillarScore(t, after, domain.PillarPolicy).Rationale)
	}

	untouched, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"growth": "abc"})
	require.NoError(t, err)
	assert.Equal(t, domain.RationaleNeutral, pillarScore(t, untouched, domain.PillarGrowth).Rationale)
	assert.Equal(t, before.WeightedBiasScore, untouched.WeightedBiasScore)
}

func TestInMemoryStore_UnknownPillarIgnored(t *testing.T) {
	store, _ := newTestStore(t)

	sc, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"sentiment": 2.0, "Policy": 2.0})
	require.NoError(t, err)
	assert.Zero(t, sc.WeightedBiasScore)

	sc, err = store.UpdatePillars(domain.CurrencyEUR, map[string]any{"sentiment": 2.0, "labor": 1.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.10, sc.WeightedBiasScore, 1e-9)
	for _, ps := range sc.Pillars {
		if ps.Pillar != domain.PillarLabor {
			assert.Equal(t, domain.RationaleNeutral, ps.Rationale, ps.Pillar)
		}
	}
}

func TestInMemoryStore_BoundaryValuesAccepted(t *testing.T) {
	store, _ := newTestStore(t)

	sc, err := store.UpdatePillars(domain.CurrencyEUR, map[string]any{"policy": -2, "growth": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, -2.0, pillarScore(t, sc, domain.PillarPolicy).Score)
	assert.Equal(t, 2.0, pillarScore(t, sc, domain.PillarGrowth).Score)
}

func TestInMemoryStore_UpdateAll(t *testing.T) {
	store, _ := newTestStore(t)

	all := store.UpdateAll(map[string]any{"policy": 2.0, "financialConditions": 2.0})
	require.Len(t, all, 4)
	for i, c := range domain.SupportedCurrencies() {
		assert.Equal(t, c, all[i].Currency)
		assert.Equal(t, 0.6, all[i].WeightedBiasScore)
		assert.Equal(t, domain.Bullish, all[i].Bias)
	}
}

func TestInMemoryStore_RecomputeAllIsIdempotent(t *testing.T) {
	store, clock := newTestStore(t)

	_, err := store.UpdatePillars(domain.CurrencyUSD, map[string]any{"policy": -1.0})
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	first := store.RecomputeAll()
	clock.Advance(5 * time.Minute)
	second := store.RecomputeAll()

	assert.Equal(t, first, second)
	assert.Equal(t, store.List(), second)
}

func TestInMemoryStore_RecomputeChangedSkipsCommittedUpdates(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.RecomputeChanged())

	_, err := store.UpdatePillars(domain.CurrencyJPY, map[string]any{"policy": 2.0, "growth": -1.0})
	require.NoError(t, err)
	assert.Empty(t, store.RecomputeChanged())
}

func TestInMemoryStore_ReturnedScorecardsAreCopies(t *testing.T) {
	store, _ := newTestStore(t)

	sc, err := store.Get(domain.CurrencyEUR)
	require.NoError(t, err)
	sc.Pillars[0].Score = 2
	sc.Pillars[0].Weight = 1

	fresh, err := store.Get(domain.CurrencyEUR)
	require.NoError(t, err)
	assert.Zero(t, fresh.Pillars[0].Score)
	assert.Equal(t, domain.PillarPolicy.Weight(), fresh.Pillars[0].Weight)
}

func TestInMemoryStore_ConcurrentUpdates(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = store.UpdatePillars(domain.CurrencyEUR, map[string]any{"policy": float64(i%5) - 2})
		}()
		go func() {
			defer wg.Done()
			store.RecomputeAll()
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(domain.CurrencyEUR)
		}()
	}
	wg.Wait()

	sc, err := store.Get(domain.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, domain.WeightedScore(sc.Pillars), sc.WeightedBiasScore)
	assert.Equal(t, domain.ClassifyBias(sc.WeightedBiasScore), sc.Bias)
}
