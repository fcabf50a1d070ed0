package deal

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is the severity the backend assigns to a deviation or a deal.
// The view layer never derives it from a score.
type RiskLevel uint8

const (
	RiskUnset RiskLevel = iota
	RiskHigh
	RiskMedium
	RiskLow
	numRiskLevels
)

// Display holds the presentation attributes of a risk level.
type Display struct {
	Label    string
	Badge    string
	Color    string // ANSI 256 color used by the terminal dashboard
	CSSClass string
}

var riskDisplays = [...]Display{
	RiskUnset:  {Label: "Unknown", Badge: "UNKNOWN", Color: "245", CSSClass: "risk-unknown"},
	RiskHigh:   {Label: "High", Badge: "HIGH", Color: "196", CSSClass: "risk-high"},
	RiskMedium: {Label: "Medium", Badge: "MEDIUM", Color: "214", CSSClass: "risk-medium"},
	RiskLow:    {Label: "Low", Badge: "LOW", Color: "42", CSSClass: "risk-low"},
}

// Every level needs a display entry; a mismatch fails to compile.
var _ = [1]struct{}{}[len(riskDisplays)-int(numRiskLevels)]

// AllRiskLevels returns the levels in descending severity.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{RiskHigh, RiskMedium, RiskLow}
}

// IsValid reports whether r is one of High, Medium or Low.
func (r RiskLevel) IsValid() bool {
	return r >= RiskHigh && r < numRiskLevels
}

// Display returns the presentation attributes for r.
func (r RiskLevel) Display() Display {
	if r >= numRiskLevels {
		return riskDisplays[RiskUnset]
	}
	return riskDisplays[r]
}

func (r RiskLevel) String() string {
	return r.Display().Label
}

// ParseRiskLevel parses the backend label of a risk level.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, level := range AllRiskLevels() {
		if riskDisplays[level].Label == s {
			return level, nil
		}
	}
	return RiskUnset, fmt.Errorf("invalid risk level: %q", s)
}

// MarshalJSON implements json.Marshaler.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid risk level: %d", r)
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	level, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}
