package ingest

import (
	"strings"

	"github.com/pscheid92/fxpulse/internal/domain"
)

type titleRule struct {
	category domain.EventCategory
	needles  []string
}

// Checked in order; the first rule with a matching needle wins.
var titleRules = []titleRule{
	{domain.CategoryUnemploymentClaims, []string{"unemployment claims", "jobless claims", "claimant count"}},
	{domain.CategoryNonFarmPayrolls, []string{"non-farm", "nonfarm", "non farm", "nfp"}},
	{domain.CategoryInterestRate, []string{"rate decision", "interest rate", "cash rate", "bank rate", "refinancing rate", "policy rate", "funds rate", "rate statement"}},
	{domain.CategoryInflation, []string{"cpi", "inflation", "consumer price", "pce price"}},
	{domain.CategoryGDP, []string{"gdp", "gross domestic"}},
	{domain.CategoryPMI, []string{"pmi", "purchasing managers"}},
	{domain.CategoryRetailSales, []string{"retail sales"}},
}

// ClassifyTitle guesses an event category from its calendar title.
func ClassifyTitle(title string) domain.EventCategory {
	lower := strings.ToLower(title)
	for _, rule := range titleRules {
		for _, needle := range rule.needles {
			if containsWord(lower, needle) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}

// ParseCategory accepts a category tag in any case, with dashes or spaces for underscores.
// Unknown or empty tags return ("", false).
func ParseCategory(tag string) (domain.EventCategory, bool) {
	norm := strings.ToLower(strings.TrimSpace(tag))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch c := domain.EventCategory(norm); c {
	case domain.CategoryInterestRate,
		domain.CategoryUnemploymentClaims,
		domain.CategoryNonFarmPayrolls,
		domain.CategoryInflation,
		domain.CategoryGDP,
		domain.CategoryPMI,
		domain.CategoryRetailSales,
		domain.CategoryOther:
		return c, true
	default:
		return "", false
	}
}

// containsWord reports whether needle occurs in s without being glued to a letter on
// either side, so "nfp" does not match inside an unrelated word.
func containsWord(s, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(s[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(needle)
		if (idx == 0 || !isLetter(s[idx-1])) && (end == len(s) || !isLetter(s[end])) {
			return true
		}
		start = idx + 1
	}
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
