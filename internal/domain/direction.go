package domain

// Direction is the shared bullish/bearish/neutral vocabulary used for both the
// currency-level bias and the event-level sentiment.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
	Neutral Direction = "NEUTRAL"
)

const (
	biasThreshold      = 0.6
	sentimentThreshold = 20
)

// ClassifyBias maps a weighted bias score to a Direction.
func ClassifyBias(weightedScore float64) Direction {
	switch {
	case weightedScore >= biasThreshold:
		return Bullish
	case weightedScore <= -biasThreshold:
		return Bearish
	default:
		return Neutral
	}
}

// ClassifySentiment maps an additive event score to a Direction.
func ClassifySentiment(score int) Direction {
	switch {
	case score >= sentimentThreshold:
		return Bullish
	case score <= -sentimentThreshold:
		return Bearish
	default:
		return Neutral
	}
}
