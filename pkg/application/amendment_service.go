package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/doccompare/pkg/domain"
	"github.com/felixgeelhaar/doccompare/pkg/domain/amendment"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// AmendmentView is a render-ready copy of the comparison state.
type AmendmentView struct {
	Family   string
	Versions []string
	V1, V2   string
	Timeline []amendment.Marker
	State    amendment.State
	Lines    []deal.DiffLine
	Added    int
	Removed  int
	Err      error
}

// AmendmentService compares versions of a deal family. Every diff request
// is tagged with the selection generation it was issued for, and issuing a
// newer one cancels the older fetch, so only the latest selection is ever
// displayed.
type AmendmentService struct {
	source domain.AmendmentSource
	logger *slog.Logger

	mu         sync.Mutex
	comparison *amendment.Comparison
	versionErr error
	cancel     context.CancelFunc
}

// NewAmendmentService creates a service for the given family.
func NewAmendmentService(source domain.AmendmentSource, family string, logger *slog.Logger) *AmendmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AmendmentService{
		source:     source,
		logger:     logger,
		comparison: amendment.NewComparison(family),
	}
}

// LoadVersions switches to family, fetches its versions and initialises the
// pair. The returned request, if any, should be passed to FetchDiff.
func (s *AmendmentService) LoadVersions(ctx context.Context, family string) (amendment.DiffRequest, bool, error) {
	s.mu.Lock()
	s.cancelInFlight()
	s.comparison.SelectFamily(family)
	s.versionErr = nil
	s.mu.Unlock()

	versions, err := s.source.ListVersions(ctx, family)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.comparison.AcceptsVersions(family) {
		return amendment.DiffRequest{}, false, nil
	}
	if err != nil {
		s.logger.Error("failed to load versions", "family", family, "error", err)
		s.versionErr = err
		return amendment.DiffRequest{}, false, err
	}
	req, ok := s.comparison.SetVersions(family, versions)
	return req, ok, nil
}

// SelectV1 changes the base version.
func (s *AmendmentService) SelectV1(v string) (amendment.DiffRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.comparison.SelectV1(v)
	if ok {
		s.cancelInFlight()
	}
	return req, ok
}

// SelectV2 changes the target version.
func (s *AmendmentService) SelectV2(v string) (amendment.DiffRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.comparison.SelectV2(v)
	if ok {
		s.cancelInFlight()
	}
	return req, ok
}

// Retry reissues the current pair after a failure.
func (s *AmendmentService) Retry() (amendment.DiffRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.comparison.Retry()
	if ok {
		s.cancelInFlight()
	}
	return req, ok
}

// FetchDiff performs req and applies the result if req is still the latest.
// It reports whether the result was applied; a superseded request returns
// false and a nil error.
func (s *AmendmentService) FetchDiff(ctx context.Context, req amendment.DiffRequest) (bool, error) {
	s.mu.Lock()
	if !s.comparison.IsCurrent(req.Generation) {
		s.mu.Unlock()
		return false, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	diff, err := s.source.CompareVersions(ctx, req.V1, req.V2)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if !s.comparison.ApplyError(req.Generation, err) {
			s.logger.Debug("discarding superseded diff failure", "v1", req.V1, "v2", req.V2)
			return false, nil
		}
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("failed to compare versions", "v1", req.V1, "v2", req.V2, "error", err)
		}
		return true, err
	}
	if !s.comparison.ApplyDiff(req.Generation, diff) {
		s.logger.Debug("discarding superseded diff", "v1", req.V1, "v2", req.V2)
		return false, nil
	}
	return true, nil
}

// Compare selects both versions and fetches the diff in one step.
func (s *AmendmentService) Compare(ctx context.Context, v1, v2 string) error {
	s.SelectV1(v1)
	req, ok := s.SelectV2(v2)
	if !ok {
		return nil
	}
	_, err := s.FetchDiff(ctx, req)
	return err
}

func (s *AmendmentService) cancelInFlight() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// View returns a snapshot for rendering.
func (s *AmendmentService) View() AmendmentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.comparison
	v1, v2 := c.Selection()
	v := AmendmentView{
		Family:   c.Family(),
		Versions: c.Versions(),
		V1:       v1,
		V2:       v2,
		Timeline: c.Timeline(),
		State:    c.State(),
		Err:      c.Err(),
	}
	if s.versionErr != nil {
		v.State = amendment.StateFailed
		v.Err = s.versionErr
	}
	if d := c.Diff(); d != nil {
		v.Lines = d.Lines()
		v.Added, v.Removed = d.Stats()
	}
	return v
}
