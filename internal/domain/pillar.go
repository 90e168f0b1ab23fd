package domain

import (
	"fmt"
	"math"
)

// Pillar is one of the ten macro dimensions a currency's bias is scored on.
type Pillar string

const (
	PillarPolicy              Pillar = "policy"
	PillarInflation           Pillar = "inflation"
	PillarGrowth              Pillar = "growth"
	PillarLabor               Pillar = "labor"
	PillarExternal            Pillar = "external"
	PillarTermsOfTrade        Pillar = "termsOfTrade"
	PillarFiscal              Pillar = "fiscal"
	PillarPolitics            Pillar = "politics"
	PillarFinancialConditions Pillar = "financialConditions"
	PillarValuation           Pillar = "valuation"
)

const (
	MinPillarScore = -2.0
	MaxPillarScore = 2.0

	weightSumTolerance = 0.001
)

var pillarOrder = []Pillar{
	PillarPolicy,
	PillarInflation,
	PillarGrowth,
	PillarLabor,
	PillarExternal,
	PillarTermsOfTrade,
	PillarFiscal,
	PillarPolitics,
	PillarFinancialConditions,
	PillarValuation,
}

var pillarWeights = map[Pillar]float64{
	PillarPolicy:              0.20,
	PillarInflation:           0.15,
	PillarGrowth:              0.12,
	PillarLabor:               0.10,
	PillarExternal:            0.08,
	PillarTermsOfTrade:        0.07,
	PillarFiscal:              0.06,
	PillarPolitics:            0.05,
	PillarFinancialConditions: 0.10,
	PillarValuation:           0.07,
}

func init() {
	if err := ValidateWeights(pillarWeights); err != nil {
		panic(err)
	}
}

// Pillars returns all pillars in scorecard order.
func Pillars() []Pillar {
	out := make([]Pillar, len(pillarOrder))
	copy(out, pillarOrder)
	return out
}

// Weight returns the fixed weight of p, or 0 for an unknown pillar.
func (p Pillar) Weight() float64 {
	return pillarWeights[p]
}

func (p Pillar) IsValid() bool {
	_, ok := pillarWeights[p]
	return ok
}

// ValidateWeights checks that weights covers exactly the ten pillars, that each weight
// lies in [0,1], and that they sum to 1.0. Weights are never renormalized.
func ValidateWeights(weights map[Pillar]float64) error {
	if len(weights) != len(pillarOrder) {
		return fmt.Errorf("expected %d pillar weights, got %d", len(pillarOrder), len(weights))
	}

	var sum float64
	for _, p := range pillarOrder {
		w, ok := weights[p]
		if !ok {
			return fmt.Errorf("missing weight for pillar %q", p)
		}
		if w < 0 || w > 1 || math.IsNaN(w) {
			return fmt.Errorf("weight for pillar %q out of range: %v", p, w)
		}
		sum += w
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("pillar weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}
