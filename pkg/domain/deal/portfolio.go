package deal

// Jurisdiction is the governing law of a portfolio deal.
type Jurisdiction string

const (
	JurisdictionUnset      Jurisdiction = ""
	JurisdictionEnglishLaw Jurisdiction = "English Law"
	JurisdictionIrishLaw   Jurisdiction = "Irish Law"
	JurisdictionLuxembourg Jurisdiction = "Luxembourg"
	JurisdictionUAE        Jurisdiction = "UAE"

	// JurisdictionAll is the filter value that matches every deal.
	JurisdictionAll Jurisdiction = "All"
)

// Jurisdictions returns the known jurisdictions in display order.
func Jurisdictions() []Jurisdiction {
	return []Jurisdiction{
		JurisdictionEnglishLaw,
		JurisdictionIrishLaw,
		JurisdictionLuxembourg,
		JurisdictionUAE,
	}
}

// ParseJurisdictionFilter maps a filter value to a Jurisdiction. Empty and
// unknown values select everything.
func ParseJurisdictionFilter(s string) Jurisdiction {
	for _, j := range Jurisdictions() {
		if string(j) == s {
			return j
		}
	}
	return JurisdictionAll
}

// DisplayName returns a label for filter controls.
func (j Jurisdiction) DisplayName() string {
	switch j {
	case JurisdictionAll:
		return "All Jurisdictions"
	case JurisdictionUnset:
		return "Unspecified"
	default:
		return string(j)
	}
}

// PortfolioItem is one previously analyzed deal.
type PortfolioItem struct {
	ID              string       `json:"id"`
	DealName        string       `json:"deal_name"`
	Jurisdiction    Jurisdiction `json:"jurisdiction"`
	Vintage         string       `json:"vintage"`
	RiskScore       float64      `json:"risk_score"`
	RiskLabel       RiskLevel    `json:"risk_label"`
	HighRiskCount   int          `json:"high_risk_count"`
	MediumRiskCount int          `json:"medium_risk_count"`
	LowRiskCount    int          `json:"low_risk_count"`
	IsRedFlag       bool         `json:"is_red_flag"`
	AnalyzedAt      string       `json:"analyzed_at,omitempty"`
}

// PortfolioStats is the aggregate the backend computes over the whole
// portfolio.
type PortfolioStats struct {
	TotalDeals            int            `json:"total_deals"`
	HighRiskCount         int            `json:"high_risk_count"`
	HighRiskPercentage    float64        `json:"high_risk_percentage"`
	AverageRiskScore      float64        `json:"average_risk_score"`
	JurisdictionBreakdown map[string]int `json:"jurisdiction_breakdown"`
	Pre2020Documentation  int            `json:"pre_2020_documentation"`
	RedFlags              int            `json:"red_flags"`
}

// Registration is the backend's answer to adding a deal to the portfolio.
type Registration struct {
	Analysis        *AnalysisResult `json:"analysis,omitempty"`
	PortfolioStatus struct {
		Message string         `json:"message"`
		Item    *PortfolioItem `json:"item,omitempty"`
	} `json:"portfolio_status"`
}
