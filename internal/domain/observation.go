package domain

import (
	"fmt"
	"math"
	"strings"
)

// EventCategory tags an economic event with the kind of release it is.
type EventCategory string

const (
	CategoryInterestRate       EventCategory = "interest_rate"
	CategoryUnemploymentClaims EventCategory = "unemployment_claims"
	CategoryNonFarmPayrolls    EventCategory = "non_farm_payrolls"
	CategoryInflation          EventCategory = "inflation"
	CategoryGDP                EventCategory = "gdp"
	CategoryPMI                EventCategory = "pmi"
	CategoryRetailSales        EventCategory = "retail_sales"
	CategoryOther              EventCategory = "other"
)

// PolicyTone is the qualitative stance attached to a central-bank communication.
type PolicyTone string

const (
	ToneHawkish PolicyTone = "hawkish"
	ToneDovish  PolicyTone = "dovish"
	ToneNeutral PolicyTone = "neutral"
)

// SurpriseMagnitude grades how far a release landed from consensus.
type SurpriseMagnitude string

const (
	SurpriseNone  SurpriseMagnitude = "none"
	SurpriseMinor SurpriseMagnitude = "minor"
	SurpriseMajor SurpriseMagnitude = "major"
	SurpriseShock SurpriseMagnitude = "shock"
)

// VoteSplit counts committee members voting to hike, cut and hold.
type VoteSplit struct {
	Hike int `json:"hike"`
	Cut  int `json:"cut"`
	Hold int `json:"hold"`
}

func (v VoteSplit) Total() int {
	return v.Hike + v.Cut + v.Hold
}

func (v VoteSplit) String() string {
	return fmt.Sprintf("%d-%d-%d", v.Hike, v.Cut, v.Hold)
}

// EventObservation is one economic-event data point fed to the analyzer.
type EventObservation struct {
	Title          string            `json:"title"`
	Currency       Currency          `json:"currency"`
	Category       EventCategory     `json:"category"`
	Actual         *float64          `json:"actual,omitempty"`
	Expected       *float64          `json:"expected,omitempty"`
	Previous       *float64          `json:"previous,omitempty"`
	VotingSplit    *VoteSplit        `json:"votingSplit,omitempty"`
	PolicyTone     PolicyTone        `json:"policyTone,omitempty"`
	PolicyChange   string            `json:"policyChange,omitempty"`
	MarketSurprise SurpriseMagnitude `json:"marketSurprise,omitempty"`
}

// Validate checks the identifying fields. Optional data is never an error.
func (o EventObservation) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidObservation)
	}
	if o.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidObservation)
	}
	if !o.Currency.IsSupported() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidObservation, ErrUnsupportedCurrency, o.Currency)
	}
	for name, v := range map[string]*float64{"actual": o.Actual, "expected": o.Expected, "previous": o.Previous} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidObservation, name)
		}
	}
	if v := o.VotingSplit; v != nil && (v.Hike < 0 || v.Cut < 0 || v.Hold < 0) {
		return fmt.Errorf("%w: voting split counts must be non-negative, got %s", ErrInvalidObservation, v)
	}
	return nil
}

// SentimentResult is the analyzer's verdict for one observation.
type SentimentResult struct {
	Sentiment       Direction `json:"sentiment"`
	Confidence      int       `json:"confidence"`
	Score           int       `json:"score"`
	Reasoning       []string  `json:"reasoning"`
	EconomicFactors []string  `json:"economicFactors"`
}
