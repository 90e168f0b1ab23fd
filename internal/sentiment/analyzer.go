package sentiment

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pscheid92/fxpulse/internal/domain"
)

const (
	confidenceFloor   = 60
	confidenceCeiling = 95

	surpriseThreshold = 0.1
	payrollsThreshold = 50_000

	claimsSignificantMissPct = 5.0
	dovishLeanShare          = 0.4
)

// Analyzer adapts Analyze to an injectable value. It holds no state.
type Analyzer struct{}

func (Analyzer) Analyze(obs domain.EventObservation) (domain.SentimentResult, error) {
	return Analyze(obs)
}

// Analyze scores a single economic-event observation.
//
// Steps run in a fixed order (policy decision, vote split, policy trajectory, labor
// data); a step whose inputs are absent is skipped. The score is an unbounded sum;
// confidence is a running maximum clamped to [60,95] at the end. Reasoning and factor
// strings keep the order in which the steps produced them.
func Analyze(obs domain.EventObservation) (domain.SentimentResult, error) {
	if err := obs.Validate(); err != nil {
		return domain.SentimentResult{}, err
	}

	a := &analysis{
		confidence: confidenceFloor,
		reasoning:  []string{},
		factors:    []string{},
	}

	a.policyDecision(obs)
	a.voteSplit(obs)
	a.policyTrajectory(obs)
	a.laborMarket(obs)

	return domain.SentimentResult{
		Sentiment:       domain.ClassifySentiment(a.score),
		Confidence:      clampInt(a.confidence, confidenceFloor, confidenceCeiling),
		Score:           a.score,
		Reasoning:       a.reasoning,
		EconomicFactors: a.factors,
	}, nil
}

type analysis struct {
	score      int
	confidence int
	reasoning  []string
	factors    []string
}

func (a *analysis) note(format string, args ...any) {
	a.reasoning = append(a.reasoning, fmt.Sprintf(format, args...))
}

func (a *analysis) factor(name string) {
	a.factors = append(a.factors, name)
}

func (a *analysis) atLeast(confidence int) {
	a.confidence = max(a.confidence, confidence)
}

func (a *analysis) policyDecision(obs domain.EventObservation) {
	if obs.Category != domain.CategoryInterestRate || obs.Actual == nil || obs.Previous == nil {
		return
	}
	actual, previous := *obs.Actual, *obs.Previous

	switch {
	case actual > previous:
		a.score += 25
		a.note("Hawkish: rate increase from %s%% to %s%%", formatValue(previous), formatValue(actual))
		a.factor("monetary tightening")
	case actual < previous:
		a.score -= 30
		a.note("Dovish shift: rate cut from %s%% to %s%%", formatValue(previous), formatValue(actual))
		a.factor("monetary easing")
		a.atLeast(85)
	}

	if obs.Expected == nil || math.Abs(actual-*obs.Expected) <= surpriseThreshold {
		return
	}
	if actual > *obs.Expected {
		a.score += 15
		a.note("Decision more hawkish than expected (%s%% vs %s%% forecast)", formatValue(actual), formatValue(*obs.Expected))
	} else {
		a.score -= 15
		a.note("Decision more dovish than expected (%s%% vs %s%% forecast)", formatValue(actual), formatValue(*obs.Expected))
	}
	a.confidence += 10
}

func (a *analysis) voteSplit(obs domain.EventObservation) {
	if obs.VotingSplit == nil {
		return
	}
	v := *obs.VotingSplit
	total := v.Total()
	if total == 0 {
		return
	}

	switch {
	case v.Cut > v.Hike && v.Cut > v.Hold:
		a.score -= 35
		a.note("Committee cut majority: %d of %d members voted to cut", v.Cut, total)
		a.atLeast(90)
	case v.Hike > v.Cut && v.Hike > v.Hold:
		a.score += 30
		a.note("Committee hike majority: %d of %d members voted to hike", v.Hike, total)
		a.atLeast(90)
	case absInt(v.Cut-v.Hike) <= 1:
		a.score -= 10
		a.note("Split committee (%s hike-cut-hold): policy direction uncertain", v)
		a.atLeast(70)
	}

	if share := float64(v.Cut) / float64(total); share > dovishLeanShare {
		a.note("Dovish lean: %.0f%% of members favoured a cut", share*100)
	}
}

func (a *analysis) policyTrajectory(obs domain.EventObservation) {
	if obs.Category != domain.CategoryInterestRate || obs.Actual == nil || obs.Previous == nil {
		return
	}
	actual, previous := *obs.Actual, *obs.Previous

	switch {
	case actual < previous:
		a.score -= 25
		a.note("Policy easing trajectory")
	case actual > previous:
		a.score += 20
		a.note("Policy tightening trajectory")
	}

	// Overlaps with the surprise adjustment in policyDecision; both apply.
	if obs.Expected == nil || math.Abs(actual-*obs.Expected) <= surpriseThreshold {
		return
	}
	if actual > *obs.Expected {
		a.score += 10
		a.note("Rate above expectations: hawkish surprise")
	} else {
		a.score -= 10
		a.note("Rate below expectations: dovish surprise")
	}
}

func (a *analysis) laborMarket(obs domain.EventObservation) {
	if obs.Actual == nil || obs.Expected == nil {
		return
	}
	actual, expected := *obs.Actual, *obs.Expected

	switch obs.Category {
	case domain.CategoryUnemploymentClaims:
		switch {
		case actual > expected:
			a.score -= 15
			a.note("Unemployment claims above forecast: %s vs %s expected", formatValue(actual), formatValue(expected))
			if expected > 0 && (actual-expected)/expected*100 > claimsSignificantMissPct {
				a.score -= 10
				a.factor("significant deterioration")
			}
		case actual < expected:
			a.score += 10
			a.note("Unemployment claims below forecast: %s vs %s expected", formatValue(actual), formatValue(expected))
			a.factor("improving labor market")
		}

	case domain.CategoryNonFarmPayrolls:
		diff := actual - expected
		switch {
		case diff < -payrollsThreshold:
			a.score -= 25
			a.note("Major miss: payrolls %s vs %s expected", formatValue(actual), formatValue(expected))
			a.factor("job creation slowdown")
		case diff > payrollsThreshold:
			a.score += 20
			a.note("Strong beat: payrolls %s vs %s expected", formatValue(actual), formatValue(expected))
			a.factor("robust job creation")
		}
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
