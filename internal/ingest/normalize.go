package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pscheid92/fxpulse/internal/domain"
)

var (
	ErrInvalidValue     = errors.New("invalid calendar value")
	ErrInvalidVoteSplit = errors.New("invalid vote split")
)

// RawEvent is a calendar row as scraped: every field is free text.
type RawEvent struct {
	Title          string `json:"title"`
	Currency       string `json:"currency"`
	Category       string `json:"category,omitempty"`
	Actual         string `json:"actual,omitempty"`
	Forecast       string `json:"forecast,omitempty"`
	Previous       string `json:"previous,omitempty"`
	VotingSplit    string `json:"votingSplit,omitempty"`
	PolicyTone     string `json:"policyTone,omitempty"`
	PolicyChange   string `json:"policyChange,omitempty"`
	MarketSurprise string `json:"marketSurprise,omitempty"`
}

// Normalize turns a raw row into an engine observation. The category tag wins when it
// is recognized; otherwise the title decides.
func Normalize(raw RawEvent) (domain.EventObservation, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return domain.EventObservation{}, fmt.Errorf("%w: title is required", domain.ErrInvalidObservation)
	}

	currency, err := domain.ParseCurrency(raw.Currency)
	if err != nil {
		return domain.EventObservation{}, fmt.Errorf("%w: %w", domain.ErrInvalidObservation, err)
	}

	category, ok := ParseCategory(raw.Category)
	if !ok {
		category = ClassifyTitle(title)
	}

	obs := domain.EventObservation{
		Title:          title,
		Currency:       currency,
		Category:       category,
		PolicyTone:     parseTone(raw.PolicyTone),
		PolicyChange:   strings.TrimSpace(raw.PolicyChange),
		MarketSurprise: parseSurprise(raw.MarketSurprise),
	}

	fields := []struct {
		name string
		in   string
		out  **float64
	}{
		{"actual", raw.Actual, &obs.Actual},
		{"forecast", raw.Forecast, &obs.Expected},
		{"previous", raw.Previous, &obs.Previous},
	}
	for _, f := range fields {
		v, err := ParseValue(f.in)
		if err != nil {
			return domain.EventObservation{}, fmt.Errorf("%w: %s: %w", domain.ErrInvalidObservation, f.name, err)
		}
		*f.out = v
	}

	split, err := ParseVoteSplit(raw.VotingSplit)
	if err != nil {
		return domain.EventObservation{}, fmt.Errorf("%w: %w", domain.ErrInvalidObservation, err)
	}
	obs.VotingSplit = split

	return obs, nil
}

// ParseValue reads calendar figures such as "5.25%", "226K", "-0.3%", "1.2M" or "1,250".
// Empty input and placeholder dashes return nil.
func ParseValue(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "—" || strings.EqualFold(s, "n/a") {
		return nil, nil
	}

	multiplier := 1.0
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return nil, fmt.Errorf("%w: no digits", ErrInvalidValue)
	}
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		multiplier = 1e3
		s = s[:len(s)-1]
	case "M":
		multiplier = 1e6
		s = s[:len(s)-1]
	case "B":
		multiplier = 1e9
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	v *= multiplier
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %q is not finite", ErrInvalidValue, s)
	}
	return &v, nil
}

// ParseVoteSplit reads a "hike-cut-hold" split such as "0-5-4". Empty input returns nil.
func ParseVoteSplit(s string) (*domain.VoteSplit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q: want hike-cut-hold", ErrInvalidVoteSplit, s)
	}

	counts := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q: counts must be non-negative integers", ErrInvalidVoteSplit, s)
		}
		counts[i] = n
	}

	return &domain.VoteSplit{Hike: counts[0], Cut: counts[1], Hold: counts[2]}, nil
}

func parseTone(s string) domain.PolicyTone {
	switch t := domain.PolicyTone(strings.ToLower(strings.TrimSpace(s))); t {
	case domain.ToneHawkish, domain.ToneDovish, domain.ToneNeutral:
		return t
	default:
		return ""
	}
}

func parseSurprise(s string) domain.SurpriseMagnitude {
	switch m := domain.SurpriseMagnitude(strings.ToLower(strings.TrimSpace(s))); m {
	case domain.SurpriseNone, domain.SurpriseMinor, domain.SurpriseMajor, domain.SurpriseShock:
		return m
	default:
		return ""
	}
}
