package domain

import (
	"math"
	"time"
)

const (
	RationaleNeutral = "neutral baseline"
	RationaleUpdated = "updated"
)

// PillarScore is a single pillar's raw score. Weight is copied from the fixed
// weight table at construction and never changes afterwards.
type PillarScore struct {
	Pillar    Pillar  `json:"pillar"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Rationale string  `json:"rationale"`
}

// CurrencyScorecard holds one score per pillar (in Pillars() order) and the
// fields derived from them.
type CurrencyScorecard struct {
	Currency          Currency      `json:"currency"`
	Pillars           []PillarScore `json:"pillars"`
	WeightedBiasScore float64       `json:"weightedBiasScore"`
	Bias              Direction     `json:"bias"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// NewScorecard returns a scorecard with every pillar at neutral.
func NewScorecard(c Currency, now time.Time) CurrencyScorecard {
	pillars := make([]PillarScore, 0, len(pillarOrder))
	for _, p := range pillarOrder {
		pillars = append(pillars, PillarScore{
			Pillar:    p,
			Score:     0,
			Weight:    p.Weight(),
			Rationale: RationaleNeutral,
		})
	}
	sc := CurrencyScorecard{Currency: c, Pillars: pillars, UpdatedAt: now}
	sc.WeightedBiasScore = WeightedScore(sc.Pillars)
	sc.Bias = ClassifyBias(sc.WeightedBiasScore)
	return sc
}

// Clone returns a deep copy; the pillar slice is not shared.
func (sc CurrencyScorecard) Clone() CurrencyScorecard {
	cp := sc
	cp.Pillars = make([]PillarScore, len(sc.Pillars))
	copy(cp.Pillars, sc.Pillars)
	return cp
}

// WeightedScore sums score × weight over pillars, rounded to two decimals.
func WeightedScore(pillars []PillarScore) float64 {
	var sum float64
	for _, ps := range pillars {
		sum += ps.Score * ps.Weight
	}
	return round2(sum)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScorecardStore owns one scorecard per supported currency. Returned scorecards
// are copies; callers cannot mutate committed state.
type ScorecardStore interface {
	Get(currency Currency) (CurrencyScorecard, error)
	List() []CurrencyScorecard
	UpdatePillars(currency Currency, input map[string]any) (CurrencyScorecard, error)
	UpdateAll(input map[string]any) []CurrencyScorecard
	RecomputeAll() []CurrencyScorecard
	RecomputeChanged() []CurrencyScorecard
}
