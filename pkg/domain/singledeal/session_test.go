package singledeal

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

func newSession(t *testing.T, samples ...string) *Session {
	t.Helper()
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.SetSamples(samples)
	return s
}

func result() *deal.AnalysisResult {
	return &deal.AnalysisResult{
		DealName:     "Deal Alpha",
		OverallScore: 7.5,
		RiskLabel:    deal.RiskHigh,
		Deviations: []deal.Deviation{
			{Clause: "22.1", RiskLevel: deal.RiskHigh},
			{Clause: "23.4", RiskLevel: deal.RiskLow},
		},
		Counts: deal.RiskCounts{High: 1, Low: 1},
	}
}

func TestSession_HappyPath(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt", "Deal_Beta.txt")
	if s.State() != StateIdle {
		t.Fatalf("initial state = %s, want idle", s.State())
	}
	if s.CanAnalyze() {
		t.Error("analyze must be disabled before a selection")
	}

	if err := s.Select("Deal_Alpha.txt"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if s.State() != StateSelected || !s.CanAnalyze() {
		t.Fatalf("state = %s, CanAnalyze = %v", s.State(), s.CanAnalyze())
	}

	sample, err := s.BeginAnalyze()
	if err != nil {
		t.Fatalf("BeginAnalyze: %v", err)
	}
	if sample != "Deal_Alpha.txt" || s.State() != StateAnalyzing {
		t.Fatalf("sample = %s, state = %s", sample, s.State())
	}
	if s.CanAnalyze() {
		t.Error("analyze must be disabled while in flight")
	}

	if err := s.Succeed(result()); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	if s.State() != StateResult || s.Result().DealName != "Deal Alpha" {
		t.Fatalf("state = %s, result = %+v", s.State(), s.Result())
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.State() != StateIdle || s.Result() != nil || s.Sample() != "" {
		t.Errorf("after reset: state = %s, result = %v, sample = %q", s.State(), s.Result(), s.Sample())
	}
}

func TestSession_NoSamplesNeverAnalyzes(t *testing.T) {
	s := newSession(t)
	if s.CanAnalyze() {
		t.Error("analyze must be disabled with zero samples")
	}
	if err := s.Select("Deal_Alpha.txt"); !errors.Is(err, ErrUnknownSample) {
		t.Errorf("Select error = %v, want ErrUnknownSample", err)
	}
	if _, err := s.BeginAnalyze(); !errors.Is(err, ErrNoSamples) {
		t.Errorf("BeginAnalyze error = %v, want ErrNoSamples", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %s, want idle", s.State())
	}
}

func TestSession_AnalyzeOnlyFromSelected(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt")
	if _, err := s.BeginAnalyze(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("BeginAnalyze from idle error = %v, want ErrNoSelection", err)
	}

	_ = s.Select("Deal_Alpha.txt")
	_, _ = s.BeginAnalyze()

	_, err := s.BeginAnalyze()
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("second BeginAnalyze error = %v, want TransitionError", err)
	}
	if te.From != StateAnalyzing {
		t.Errorf("From = %s, want analyzing", te.From)
	}
	if err := s.Select("Deal_Alpha.txt"); !errors.As(err, &te) {
		t.Errorf("Select while analyzing error = %v, want TransitionError", err)
	}
}

func TestSession_FailureIsSurfacedAndRetryable(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt")
	_ = s.Select("Deal_Alpha.txt")
	_, _ = s.BeginAnalyze()

	boom := errors.New("backend unavailable")
	if err := s.Fail(boom); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if s.State() != StateSelected {
		t.Errorf("state = %s, want selected", s.State())
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() = %v, want %v", s.Err(), boom)
	}
	if !s.CanAnalyze() {
		t.Error("retry must be possible after failure")
	}

	if _, err := s.BeginAnalyze(); err != nil {
		t.Fatalf("retry BeginAnalyze: %v", err)
	}
	if s.Err() != nil {
		t.Error("error should clear on retry")
	}
}

func TestSession_DeviationDetail(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt")
	if err := s.SelectDeviation(0); !errors.Is(err, ErrNoResult) {
		t.Errorf("SelectDeviation before result error = %v", err)
	}

	_ = s.Select("Deal_Alpha.txt")
	_, _ = s.BeginAnalyze()
	_ = s.Succeed(result())

	if _, _, ok := s.SelectedDeviation(); ok {
		t.Error("no deviation should be selected initially")
	}
	if err := s.SelectDeviation(1); err != nil {
		t.Fatalf("SelectDeviation: %v", err)
	}
	if err := s.SelectDeviation(1); err != nil {
		t.Fatalf("SelectDeviation again: %v", err)
	}
	d, idx, ok := s.SelectedDeviation()
	if !ok || idx != 1 || d.Clause != "23.4" {
		t.Errorf("selecting twice must keep the detail open, got %+v %d %v", d, idx, ok)
	}
	if err := s.SelectDeviation(5); err == nil {
		t.Error("expected out of range error")
	}

	s.CloseDetail()
	if _, _, ok := s.SelectedDeviation(); ok {
		t.Error("CloseDetail should clear the selection")
	}
}

func TestSession_RegistrationIndependentOfState(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt")
	if _, err := s.BeginRegistration(); !errors.Is(err, ErrNoResult) {
		t.Errorf("BeginRegistration before result error = %v", err)
	}

	_ = s.Select("Deal_Alpha.txt")
	_, _ = s.BeginAnalyze()
	_ = s.Succeed(result())

	sample, err := s.BeginRegistration()
	if err != nil || sample != "Deal_Alpha.txt" {
		t.Fatalf("BeginRegistration = %q, %v", sample, err)
	}
	if _, err := s.BeginRegistration(); !errors.Is(err, ErrRegistrationPending) {
		t.Errorf("duplicate registration error = %v", err)
	}

	s.CompleteRegistration(errors.New("conflict"))
	status, regErr := s.Registration()
	if status != RegistrationFailed || regErr == nil {
		t.Errorf("Registration() = %v, %v", status, regErr)
	}
	if s.State() != StateResult {
		t.Errorf("registration must not change state, got %s", s.State())
	}

	_, _ = s.BeginRegistration()
	s.CompleteRegistration(nil)
	if status, _ := s.Registration(); status != RegistrationAdded {
		t.Errorf("status = %v, want added", status)
	}
}

func TestSession_SetSamplesDropsVanishedSelection(t *testing.T) {
	s := newSession(t, "Deal_Alpha.txt")
	_ = s.Select("Deal_Alpha.txt")

	s.SetSamples([]string{"Deal_Beta.txt"})
	if s.Sample() != "" || s.State() != StateIdle {
		t.Errorf("sample = %q, state = %s", s.Sample(), s.State())
	}
}

func TestMachine_RejectsInvalidEvent(t *testing.T) {
	m, err := NewMachine(nil)
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	if err := m.Send(EventSucceed); err == nil {
		t.Error("succeed from idle should be rejected")
	}
	if err := m.Send(EventSelect); err != nil {
		t.Fatalf("select: %v", err)
	}
	if m.Current() != StateSelected {
		t.Errorf("Current() = %s", m.Current())
	}
}

func TestMachine_GuardBlocksAnalyze(t *testing.T) {
	m, err := NewMachine(func() bool { return false })
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	_ = m.Send(EventSelect)
	if err := m.Send(EventAnalyze); err == nil {
		t.Error("guard should block analyze")
	}
	if m.Current() != StateSelected {
		t.Errorf("Current() = %s, want selected", m.Current())
	}
}
