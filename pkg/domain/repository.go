package domain

import (
	"context"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// SampleAnalyzer lists sample deals and runs analyses against the template.
type SampleAnalyzer interface {
	ListSamples(ctx context.Context) ([]string, error)
	AnalyzeSample(ctx context.Context, sampleID string) (*deal.AnalysisResult, error)
	AnalyzeText(ctx context.Context, text string) (*deal.AnalysisResult, error)
	AddToPortfolio(ctx context.Context, sampleID string) (*deal.Registration, error)
	ReportURL(dealName string) string
}

// PortfolioSource serves the analyzed-deal portfolio.
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) ([]deal.PortfolioItem, error)
	GetPortfolioStats(ctx context.Context) (*deal.PortfolioStats, error)
}

// AmendmentSource serves deal versions and redlines.
type AmendmentSource interface {
	ListVersions(ctx context.Context, baseName string) ([]string, error)
	CompareVersions(ctx context.Context, v1, v2 string) (*deal.VersionDiff, error)
}

// Backend is everything the dashboard needs from the analysis service.
// *sdk.Client implements it; tests substitute fakes.
type Backend interface {
	SampleAnalyzer
	PortfolioSource
	AmendmentSource
}
