// Package deal holds the values the dashboard receives from the analysis
// backend. All of them are immutable once decoded.
package deal

import (
	"errors"
	"fmt"
	"sort"
)

// MaxScore is the upper bound of an overall risk score.
const MaxScore = 10.0

// Deviation is a single clause-level difference between a deal and the
// reference template.
type Deviation struct {
	Clause         string         `json:"clause"`
	Type           string         `json:"type"`
	RiskLevel      RiskLevel      `json:"risk_level"`
	Description    string         `json:"description"`
	Recommendation string         `json:"recommendation"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// RiskCounts maps each risk level to the number of deviations at that level.
type RiskCounts struct {
	High   int `json:"High"`
	Medium int `json:"Medium"`
	Low    int `json:"Low"`
}

// Total returns the sum of all counts.
func (c RiskCounts) Total() int {
	return c.High + c.Medium + c.Low
}

// For returns the count for a single level.
func (c RiskCounts) For(level RiskLevel) int {
	switch level {
	case RiskHigh:
		return c.High
	case RiskMedium:
		return c.Medium
	case RiskLow:
		return c.Low
	default:
		return 0
	}
}

// AnalysisResult is one completed comparison of a deal against a template.
type AnalysisResult struct {
	DealName     string      `json:"deal_name"`
	TemplateName string      `json:"template_name"`
	OverallScore float64     `json:"overall_score"`
	RiskLabel    RiskLevel   `json:"risk_label"`
	Deviations   []Deviation `json:"deviations"`
	Counts       RiskCounts  `json:"counts"`
}

var (
	ErrScoreOutOfRange = errors.New("overall score out of range")
	ErrNegativeCount   = errors.New("negative risk count")
	ErrCountMismatch   = errors.New("risk counts do not match deviations")
)

// Validate checks the invariants the dashboard relies on.
func (r *AnalysisResult) Validate() error {
	if r.OverallScore < 0 || r.OverallScore > MaxScore {
		return fmt.Errorf("%w: %.2f", ErrScoreOutOfRange, r.OverallScore)
	}
	if r.Counts.High < 0 || r.Counts.Medium < 0 || r.Counts.Low < 0 {
		return fmt.Errorf("%w: %+v", ErrNegativeCount, r.Counts)
	}
	if r.Counts.Total() != len(r.Deviations) {
		return fmt.Errorf("%w: counts sum to %d, got %d deviations",
			ErrCountMismatch, r.Counts.Total(), len(r.Deviations))
	}
	return nil
}

// SortedDeviations returns a copy ordered High to Low. Deviations at the same
// level keep the order the backend returned them in.
func (r *AnalysisResult) SortedDeviations() []Deviation {
	out := make([]Deviation, len(r.Deviations))
	copy(out, r.Deviations)
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].RiskLevel) < severityRank(out[j].RiskLevel)
	})
	return out
}

func severityRank(level RiskLevel) int {
	switch level {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	default:
		return 3
	}
}
