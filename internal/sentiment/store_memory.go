package sentiment

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/fxpulse/internal/domain"
)

type scorecardEntry struct {
	mu      sync.Mutex // serializes mutators of this currency
	current atomic.Pointer[domain.CurrencyScorecard]
}

// InMemoryStore keeps one scorecard per supported currency for the lifetime of the process.
//
// Committed scorecards are immutable: mutators clone, modify and swap the pointer while
// holding the currency's mutex, so readers load a consistent snapshot without locking.
type InMemoryStore struct {
	clock   clockwork.Clock
	entries map[domain.Currency]*scorecardEntry
}

var _ domain.ScorecardStore = (*InMemoryStore)(nil)

func NewInMemoryStore(clock clockwork.Clock) *InMemoryStore {
	now := clock.Now()
	entries := make(map[domain.Currency]*scorecardEntry)
	for _, c := range domain.SupportedCurrencies() {
		sc := domain.NewScorecard(c, now)
		e := &scorecardEntry{}
		e.current.Store(&sc)
		entries[c] = e
	}
	return &InMemoryStore{clock: clock, entries: entries}
}

func (s *InMemoryStore) Get(currency domain.Currency) (domain.CurrencyScorecard, error) {
	e, err := s.entry(currency)
	if err != nil {
		return domain.CurrencyScorecard{}, err
	}
	return e.current.Load().Clone(), nil
}

func (s *InMemoryStore) List() []domain.CurrencyScorecard {
	out := make([]domain.CurrencyScorecard, 0, len(s.entries))
	for _, c := range domain.SupportedCurrencies() {
		out = append(out, s.entries[c].current.Load().Clone())
	}
	return out
}

// UpdatePillars overwrites the pillars named in input whose values are finite numbers
// in [-2,2]. Anything else is skipped without error.
func (s *InMemoryStore) UpdatePillars(currency domain.Currency, input map[string]any) (domain.CurrencyScorecard, error) {
	e, err := s.entry(currency)
	if err != nil {
		return domain.CurrencyScorecard{}, err
	}
	return s.apply(e, input), nil
}

// UpdateAll applies the same partial update to every supported currency in enumeration order.
func (s *InMemoryStore) UpdateAll(input map[string]any) []domain.CurrencyScorecard {
	out := make([]domain.CurrencyScorecard, 0, len(s.entries))
	for _, c := range domain.SupportedCurrencies() {
		out = append(out, s.apply(s.entries[c], input))
	}
	return out
}

// RecomputeAll re-derives weighted score and bias from the raw pillar scores.
// UpdatedAt only moves when a derived value actually changed, so back-to-back calls
// return identical scorecards.
func (s *InMemoryStore) RecomputeAll() []domain.CurrencyScorecard {
	all, _ := s.recomputeEntries()
	return all
}

// RecomputeChanged is RecomputeAll reporting only the scorecards whose derived fields
// moved. The comparison happens under each currency's lock, so concurrent pillar
// updates are never mistaken for recompute changes.
func (s *InMemoryStore) RecomputeChanged() []domain.CurrencyScorecard {
	_, changed := s.recomputeEntries()
	return changed
}

func (s *InMemoryStore) recomputeEntries() (all, changed []domain.CurrencyScorecard) {
	all = make([]domain.CurrencyScorecard, 0, len(s.entries))
	for _, c := range domain.SupportedCurrencies() {
		e := s.entries[c]

		e.mu.Lock()
		cur := e.current.Load()
		next := cur.Clone()
		recompute(&next)
		moved := next.WeightedBiasScore != cur.WeightedBiasScore || next.Bias != cur.Bias
		if moved {
			next.UpdatedAt = s.clock.Now()
			e.current.Store(&next)
		}
		result := e.current.Load().Clone()
		e.mu.Unlock()

		all = append(all, result)
		if moved {
			changed = append(changed, result)
		}
	}
	return all, changed
}

func (s *InMemoryStore) apply(e *scorecardEntry, input map[string]any) domain.CurrencyScorecard {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.current.Load().Clone()
	for name, raw := range input {
		p := domain.Pillar(name)
		if !p.IsValid() {
			continue
		}
		score, ok := pillarValue(raw)
		if !ok {
			continue
		}
		i := slices.IndexFunc(next.Pillars, func(ps domain.PillarScore) bool { return ps.Pillar == p })
		next.Pillars[i].Score = score
		next.Pillars[i].Rationale = domain.RationaleUpdated
	}
	recompute(&next)
	next.UpdatedAt = s.clock.Now()
	e.current.Store(&next)

	return next.Clone()
}

func (s *InMemoryStore) entry(currency domain.Currency) (*scorecardEntry, error) {
	e, ok := s.entries[currency]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, currency)
	}
	return e, nil
}

func recompute(sc *domain.CurrencyScorecard) {
	sc.WeightedBiasScore = domain.WeightedScore(sc.Pillars)
	sc.Bias = domain.ClassifyBias(sc.WeightedBiasScore)
}

// pillarValue accepts Go numeric types and json.Number. Strings, NaN, infinities and
// values outside [-2,2] are rejected.
func pillarValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < domain.MinPillarScore || f > domain.MaxPillarScore {
		return 0, false
	}
	return f, true
}
