package application

import (
	"context"
	"errors"
	"sync"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// fakeBackend implements domain.Backend for testing.
type fakeBackend struct {
	mu sync.Mutex

	samples    []string
	samplesErr error
	result     *deal.AnalysisResult
	analyzeErr error
	addErr     error
	items      []deal.PortfolioItem
	itemsErr   error
	stats      *deal.PortfolioStats
	statsErr   error
	versions   map[string][]string
	diffs      map[string]*deal.VersionDiff
	diffErr    error

	// gates holds per-pair channels; CompareVersions blocks until the gate
	// for its pair is closed.
	gates map[string]chan struct{}

	analyzeCalls []string
	addCalls     []string
	compareCalls []string
}

func pairKey(v1, v2 string) string { return v1 + "|" + v2 }

func (f *fakeBackend) ListSamples(ctx context.Context) ([]string, error) {
	return f.samples, f.samplesErr
}

func (f *fakeBackend) AnalyzeSample(ctx context.Context, sampleID string) (*deal.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls = append(f.analyzeCalls, sampleID)
	f.mu.Unlock()
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.result, nil
}

func (f *fakeBackend) AnalyzeText(ctx context.Context, text string) (*deal.AnalysisResult, error) {
	return f.AnalyzeSample(ctx, "text")
}

func (f *fakeBackend) AddToPortfolio(ctx context.Context, sampleID string) (*deal.Registration, error) {
	f.mu.Lock()
	f.addCalls = append(f.addCalls, sampleID)
	f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &deal.Registration{}, nil
}

func (f *fakeBackend) ReportURL(dealName string) string {
	return "http://backend/api/report/" + dealName
}

func (f *fakeBackend) GetPortfolio(ctx context.Context) ([]deal.PortfolioItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeBackend) GetPortfolioStats(ctx context.Context) (*deal.PortfolioStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeBackend) ListVersions(ctx context.Context, baseName string) ([]string, error) {
	v, ok := f.versions[baseName]
	if !ok {
		return nil, errors.New("unknown family")
	}
	return v, nil
}

func (f *fakeBackend) CompareVersions(ctx context.Context, v1, v2 string) (*deal.VersionDiff, error) {
	key := pairKey(v1, v2)
	f.mu.Lock()
	f.compareCalls = append(f.compareCalls, key)
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.diffErr != nil {
		return nil, f.diffErr
	}
	return f.diffs[key], nil
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.compareCalls...)
}
