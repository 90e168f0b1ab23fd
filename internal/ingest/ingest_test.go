package ingest

import (
	"testing"

	"github.com/pscheid92/fxpulse/internal/domain"
	"github.com/pscheid92/fxpulse/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title string
		want  domain.EventCategory
	}{
		{"Official Bank Rate", domain.CategoryInterestRate},
		{"Federal Funds Rate", domain.CategoryInterestRate},
		{"BOJ Policy Rate", domain.CategoryInterestRate},
		{"Main Refinancing Rate", domain.CategoryInterestRate},
		{"Unemployment Claims", domain.CategoryUnemploymentClaims},
		{"Claimant Count Change", domain.CategoryUnemploymentClaims},
		{"Non-Farm Employment Change", domain.CategoryNonFarmPayrolls},
		{"NFP", domain.CategoryNonFarmPayrolls},
		{"Core CPI m/m", domain.CategoryInflation},
		{"Prelim GDP q/q", domain.CategoryGDP},
		{"Flash Manufacturing PMI", domain.CategoryPMI},
		{"Core Retail Sales m/m", domain.CategoryRetailSales},
		{"Bank Holiday", domain.CategoryOther},
		{"", domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTitle(tt.title))
		})
	}
}

func TestClassifyTitle_RequiresWordBoundary(t *testing.T) {
	assert.Equal(t, domain.CategoryOther, ClassifyTitle("Snfpx Index"))
	assert.Equal(t, domain.CategoryOther, ClassifyTitle("Spmis Survey"))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Interest-Rate")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryInterestRate, c)

	c, ok = ParseCategory(" non farm payrolls ")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryNonFarmPayrolls, c)

	_, ok = ParseCategory("")
	assert.False(t, ok)

	_, ok = ParseCategory("weather")
	assert.False(t, ok)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5.25%", 5.25},
		{"226K", 226_000},
		{"-0.3%", -0.3},
		{"1.2M", 1_200_000},
		{"0.5B", 500_000_000},
		{"1,250", 1250},
		{" 42 ", 42},
		{"+0.1%", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestParseValue_Empty(t *testing.T) {
	for _, in := range []string{"", "  ", "-", "N/A"} {
		got, err := ParseValue(in)
		require.NoError(t, err, in)
		assert.Nil(t, got, in)
	}
}

func TestParseValue_Invalid(t *testing.T) {
	for _, in := range []string{"abc", "%", "1.2.3K", "K", "NaN", "Inf", "-infinity", "+Inf%", "1e400", "1e308B"} {
		_, err := ParseValue(in)
		assert.ErrorIs(t, err, ErrInvalidValue, in)
	}
}

func TestParseVoteSplit(t *testing.T) {
	got, err := ParseVoteSplit("0-5-4")
	require.NoError(t, err)
	assert.Equal(t, &domain.VoteSplit{Hike: 0, Cut: 5, Hold: 4}, got)

	got, err = ParseVoteSplit(" 2 - 0 - 7 ")
	require.NoError(t, err)
	assert.Equal(t, &domain.VoteSplit{Hike: 2, Cut: 0, Hold: 7}, got)

	got, err = ParseVoteSplit("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseVoteSplit_Invalid(t *testing.T) {
	for _, in := range []string{"5-4", "a-b-c", "1--2", "0-5-4-1", "-1-5-4"} {
		_, err := ParseVoteSplit(in)
		assert.ErrorIs(t, err, ErrInvalidVoteSplit, in)
	}
}

func TestNormalize(t *testing.T) {
	obs, err := Normalize(RawEvent{
		Title:          "Official Bank Rate",
		Currency:       "gbp",
		Actual:         "5.25%",
		Forecast:       "5.25%",
		Previous:       "5.25%",
		VotingSplit:    "0-5-4",
		PolicyTone:     "Dovish",
		MarketSurprise: "minor",
	})
	require.NoError(t, err)

	assert.Equal(t, "Official Bank Rate", obs.Title)
	assert.Equal(t, domain.CurrencyGBP, obs.Currency)
	assert.Equal(t, domain.CategoryInterestRate, obs.Category)
	require.NotNil(t, obs.Actual)
	assert.InDelta(t, 5.25, *obs.Actual, 1e-9)
	assert.Equal(t, &domain.VoteSplit{Hike: 0, Cut: 5, Hold: 4}, obs.VotingSplit)
	assert.Equal(t, domain.ToneDovish, obs.PolicyTone)
	assert.Equal(t, domain.SurpriseMinor, obs.MarketSurprise)
}

func TestNormalize_CategoryTagWins(t *testing.T) {
	obs, err := Normalize(RawEvent{Title: "Something Vague", Currency: "USD", Category: "pmi"})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryPMI, obs.Category)
}

func TestNormalize_UnknownToneAndSurpriseDropped(t *testing.T) {
	obs, err := Normalize(RawEvent{Title: "GDP", Currency: "EUR", PolicyTone: "grumpy", MarketSurprise: "huge"})
	require.NoError(t, err)
	assert.Empty(t, obs.PolicyTone)
	assert.Empty(t, obs.MarketSurprise)
	assert.Nil(t, obs.Actual)
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  RawEvent
	}{
		{"missing title", RawEvent{Currency: "USD"}},
		{"unsupported currency", RawEvent{Title: "CPI", Currency: "XYZ"}},
		{"bad actual", RawEvent{Title: "CPI", Currency: "USD", Actual: "lots"}},
		{"NaN actual", RawEvent{Title: "ECB Rate Decision", Currency: "EUR", Actual: "NaN", Previous: "4.5%"}},
		{"infinite forecast", RawEvent{Title: "ECB Rate Decision", Currency: "EUR", Actual: "4.5%", Forecast: "Inf"}},
		{"overflowing previous", RawEvent{Title: "ECB Rate Decision", Currency: "EUR", Actual: "4.5%", Previous: "1e400"}},
		{"bad split", RawEvent{Title: "Bank Rate", Currency: "GBP", VotingSplit: "5/4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			assert.ErrorIs(t, err, domain.ErrInvalidObservation)
		})
	}
}

func TestNormalize_UnsupportedCurrencyKeepsCause(t *testing.T) {
	_, err := Normalize(RawEvent{Title: "CPI", Currency: "XYZ"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
}

func TestNormalize_FeedsAnalyzer(t *testing.T) {
	obs, err := Normalize(RawEvent{
		Title:       "Official Bank Rate",
		Currency:    "GBP",
		Actual:      "5.25%",
		Forecast:    "5.25%",
		Previous:    "5.25%",
		VotingSplit: "0-5-4",
	})
	require.NoError(t, err)

	res, err := sentiment.Analyze(obs)
	require.NoError(t, err)
	assert.Equal(t, -35, res.Score)
	assert.Equal(t, domain.Bearish, res.Sentiment)
	assert.GreaterOrEqual(t, res.Confidence, 90)
}
