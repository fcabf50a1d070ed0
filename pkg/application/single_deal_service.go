package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/doccompare/pkg/domain"
	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
	"github.com/felixgeelhaar/doccompare/pkg/domain/singledeal"
)

// SingleDealView is a render-ready copy of the single-deal session.
type SingleDealView struct {
	State           string
	Samples         []string
	Sample          string
	CanAnalyze      bool
	Result          *deal.AnalysisResult
	Detail          *deal.Deviation
	DetailIndex     int
	Err             error
	Warning         error // result arrived but failed validation
	Registration    singledeal.RegistrationStatus
	RegistrationErr error
	ReportURL       string
}

// SingleDealService drives one single-deal session against the backend.
// It is safe for use from concurrent goroutines; network calls run without
// holding the lock.
type SingleDealService struct {
	backend domain.SampleAnalyzer
	logger  *slog.Logger

	mu      sync.Mutex
	session *singledeal.Session
	warning error
}

// NewSingleDealService creates a service with a fresh idle session.
func NewSingleDealService(backend domain.SampleAnalyzer, logger *slog.Logger) (*SingleDealService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	session, err := singledeal.NewSession()
	if err != nil {
		return nil, err
	}
	return &SingleDealService{backend: backend, logger: logger, session: session}, nil
}

// LoadSamples fetches the sample list. A failure is kept on the session so
// the view can show it and offer a retry.
func (s *SingleDealService) LoadSamples(ctx context.Context) error {
	samples, err := s.backend.ListSamples(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error("failed to load samples", "error", err)
		s.session.SetLoadError(err)
		return err
	}
	s.session.SetSamples(samples)
	s.session.SetLoadError(nil)
	return nil
}

// Select chooses a sample deal.
func (s *SingleDealService) Select(sample string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Select(sample)
}

// Analyze runs the analysis for the selected sample. When the session
// cannot analyze, no request is issued.
func (s *SingleDealService) Analyze(ctx context.Context) (*deal.AnalysisResult, error) {
	s.mu.Lock()
	sample, err := s.session.BeginAnalyze()
	if err == nil {
		s.warning = nil
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result, err := s.backend.AnalyzeSample(ctx, sample)
	var verr error
	if err == nil && result != nil {
		if verr = result.Validate(); verr != nil {
			s.logger.Warn("analysis result failed validation", "sample", sample, "error", verr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error("analysis failed", "sample", sample, "error", err)
		if ferr := s.session.Fail(err); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	if result == nil {
		_ = s.session.Fail(singledeal.ErrNoResult)
		return nil, singledeal.ErrNoResult
	}
	if serr := s.session.Succeed(result); serr != nil {
		return nil, serr
	}
	s.warning = verr
	s.logger.Info("analysis complete",
		"sample", sample,
		"score", result.OverallScore,
		"risk", result.RiskLabel.String(),
		"deviations", len(result.Deviations))
	return result, nil
}

// SelectDeviation opens the detail pane.
func (s *SingleDealService) SelectDeviation(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SelectDeviation(i)
}

// CloseDetail closes the detail pane.
func (s *SingleDealService) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.CloseDetail()
}

// Reset is "Analyze Another".
func (s *SingleDealService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Reset(); err != nil {
		return err
	}
	s.warning = nil
	return nil
}

// AddToPortfolio registers the analyzed sample. The outcome is reported to
// the caller and recorded, but the analysis state is left untouched.
func (s *SingleDealService) AddToPortfolio(ctx context.Context) (*deal.Registration, error) {
	s.mu.Lock()
	sample, err := s.session.BeginRegistration()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	reg, err := s.backend.AddToPortfolio(ctx, sample)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.CompleteRegistration(err)
	if err != nil {
		s.logger.Error("add to portfolio failed", "sample", sample, "error", err)
		return nil, err
	}
	s.logger.Info("added to portfolio", "sample", sample)
	return reg, nil
}

// View returns a snapshot for rendering.
func (s *SingleDealService) View() SingleDealView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := SingleDealView{
		State:       s.session.State(),
		Samples:     s.session.Samples(),
		Sample:      s.session.Sample(),
		CanAnalyze:  s.session.CanAnalyze(),
		Result:      s.session.Result(),
		Err:         s.session.Err(),
		Warning:     s.warning,
		DetailIndex: -1,
	}
	if d, i, ok := s.session.SelectedDeviation(); ok {
		v.Detail = &d
		v.DetailIndex = i
	}
	v.Registration, v.RegistrationErr = s.session.Registration()
	if v.Result != nil {
		v.ReportURL = s.backend.ReportURL(v.Result.DealName)
	}
	return v
}
