package portfolio

import (
	"sort"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// Filter returns the items governed by j, preserving order. JurisdictionAll
// returns a copy of every item.
func Filter(items []deal.PortfolioItem, j deal.Jurisdiction) []deal.PortfolioItem {
	out := make([]deal.PortfolioItem, 0, len(items))
	for _, item := range items {
		if j == deal.JurisdictionAll || item.Jurisdiction == j {
			out = append(out, item)
		}
	}
	return out
}

// FilterOptions lists the values a jurisdiction selector offers.
func FilterOptions() []deal.Jurisdiction {
	return append([]deal.Jurisdiction{deal.JurisdictionAll}, deal.Jurisdictions()...)
}

// NextFilter cycles through FilterOptions.
func NextFilter(current deal.Jurisdiction) deal.Jurisdiction {
	opts := FilterOptions()
	for i, j := range opts {
		if j == current {
			return opts[(i+1)%len(opts)]
		}
	}
	return deal.JurisdictionAll
}

// Band is the coloring bucket of a numeric score.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// ScoreBand buckets a score for the score bar. It does not replace the
// backend risk label.
func ScoreBand(score float64) Band {
	switch {
	case score >= 7:
		return BandHigh
	case score >= 4:
		return BandMedium
	default:
		return BandLow
	}
}

// BarPercent is the width of the score bar, clamped to [0,100].
func BarPercent(score float64) int {
	pct := int(score * 10)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func sortJurisdictions(js []deal.Jurisdiction) {
	sort.Slice(js, func(a, b int) bool { return js[a] < js[b] })
}
