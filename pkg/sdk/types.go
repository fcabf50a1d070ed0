package sdk

import "github.com/felixgeelhaar/doccompare/pkg/domain/deal"

// AnalyzeRequest is the body of POST /analyze/. Exactly one of SampleDealID
// and DealText should be set.
type AnalyzeRequest struct {
	SampleDealID string `json:"sample_deal_id,omitempty"`
	DealText     string `json:"deal_text,omitempty"`
	TemplateID   string `json:"template_id"`
}

type samplesResponse struct {
	Samples []string `json:"samples"`
}

type versionsResponse struct {
	Versions []string `json:"versions"`
}

type statsResponse struct {
	deal.PortfolioStats
	Error string `json:"error,omitempty"`
}

type errorBody struct {
	Detail any `json:"detail"`
}
