package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/doccompare/pkg/domain"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/portfolio"
)

// PortfolioView is a render-ready copy of the portfolio state.
type PortfolioView struct {
	Loaded  bool
	Loading bool
	Filter  deal.Jurisdiction
	Items   []deal.PortfolioItem // after filtering
	Total   int                  // before filtering
	Summary portfolio.Summary    // over every fetched item
	Backend *deal.PortfolioStats // nil when the backend had none
	Err     error
}

// Empty reports whether a successful load returned zero deals.
func (v PortfolioView) Empty() bool {
	return v.Loaded && v.Err == nil && v.Total == 0
}

// PortfolioService fetches the portfolio and filters it client-side.
type PortfolioService struct {
	source domain.PortfolioSource
	logger *slog.Logger

	mu      sync.Mutex
	items   []deal.PortfolioItem
	stats   *deal.PortfolioStats
	filter  deal.Jurisdiction
	loaded  bool
	loading bool
	err     error
}

// NewPortfolioService creates a service with the "All" filter.
func NewPortfolioService(source domain.PortfolioSource, logger *slog.Logger) *PortfolioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioService{source: source, logger: logger, filter: deal.JurisdictionAll}
}

// Load fetches the rows and, best effort, the backend aggregate in parallel.
// A failure to fetch rows is surfaced; a failure to fetch the aggregate is
// only logged since the summary is computed locally anyway.
func (s *PortfolioService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var (
		items []deal.PortfolioItem
		stats *deal.PortfolioStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.source.GetPortfolio(gctx)
		return err
	})
	g.Go(func() error {
		st, err := s.source.GetPortfolioStats(gctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.logger.Debug("portfolio stats unavailable", "error", err)
			}
			return nil
		}
		stats = st
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("failed to load portfolio", "error", err)
		s.err = err
		return err
	}
	s.items = items
	s.stats = stats
	s.loaded = true
	s.err = nil
	return nil
}

// SetFilter selects a jurisdiction. It never refetches.
func (s *PortfolioService) SetFilter(j deal.Jurisdiction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = j
}

// CycleFilter advances to the next jurisdiction and returns it.
func (s *PortfolioService) CycleFilter() deal.Jurisdiction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = portfolio.NextFilter(s.filter)
	return s.filter
}

// View returns a snapshot for rendering.
func (s *PortfolioService) View() PortfolioView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PortfolioView{
		Loaded:  s.loaded,
		Loading: s.loading,
		Filter:  s.filter,
		Items:   portfolio.Filter(s.items, s.filter),
		Total:   len(s.items),
		Summary: portfolio.Summarize(s.items),
		Backend: s.stats,
		Err:     s.err,
	}
}
