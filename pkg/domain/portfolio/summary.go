// Package portfolio aggregates portfolio rows on the client side.
package portfolio

import (
	"fmt"
	"math"
	"strconv"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// LegacyVintageCutoff is the first vintage on current documentation
// standards. Older deals are counted as legacy.
const LegacyVintageCutoff = 2020

// NoDataLabel is shown in place of an average when there are no deals.
const NoDataLabel = "No data"

// Summary holds the statistics shown above the portfolio table.
type Summary struct {
	TotalDeals         int
	HighRiskDeals      int
	RedFlags           int
	LegacyDocuments    int
	AverageScore       float64 // rounded to one decimal; meaningless when !HasData
	HighRiskPercentage float64
	HasData            bool
	Breakdown          []JurisdictionCount
}

// JurisdictionCount is one entry of the jurisdiction breakdown.
type JurisdictionCount struct {
	Jurisdiction deal.Jurisdiction
	Count        int
}

// Summarize computes the summary over all fetched items, ignoring any
// active filter.
func Summarize(items []deal.PortfolioItem) Summary {
	s := Summary{TotalDeals: len(items)}
	if len(items) == 0 {
		return s
	}
	s.HasData = true

	counts := make(map[deal.Jurisdiction]int)
	var total float64
	for _, item := range items {
		total += item.RiskScore
		if item.RiskLabel == deal.RiskHigh {
			s.HighRiskDeals++
		}
		if item.IsRedFlag {
			s.RedFlags++
		}
		if year, err := strconv.Atoi(item.Vintage); err == nil && year < LegacyVintageCutoff {
			s.LegacyDocuments++
		}
		counts[item.Jurisdiction]++
	}

	s.AverageScore = roundTo(total/float64(len(items)), 1)
	s.HighRiskPercentage = roundTo(float64(s.HighRiskDeals)/float64(len(items))*100, 1)
	s.Breakdown = breakdown(counts)
	return s
}

// AverageLabel renders the average score for display.
func (s Summary) AverageLabel() string {
	if !s.HasData {
		return NoDataLabel
	}
	return strconv.FormatFloat(s.AverageScore, 'f', 1, 64)
}

// HighRiskLabel renders the high risk share, e.g. "2 (40.0%)".
func (s Summary) HighRiskLabel() string {
	if !s.HasData {
		return "0"
	}
	return fmt.Sprintf("%d (%.1f%%)", s.HighRiskDeals, s.HighRiskPercentage)
}

// breakdown lists known jurisdictions first in display order, then any
// others (including unset) sorted by name.
func breakdown(counts map[deal.Jurisdiction]int) []JurisdictionCount {
	out := make([]JurisdictionCount, 0, len(counts))
	known := make(map[deal.Jurisdiction]bool)
	for _, j := range deal.Jurisdictions() {
		known[j] = true
		if n := counts[j]; n > 0 {
			out = append(out, JurisdictionCount{Jurisdiction: j, Count: n})
		}
	}
	var others []deal.Jurisdiction
	for j := range counts {
		if !known[j] {
			others = append(others, j)
		}
	}
	sortJurisdictions(others)
	for _, j := range others {
		out = append(out, JurisdictionCount{Jurisdiction: j, Count: counts[j]})
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
