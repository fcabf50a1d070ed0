// Package singledeal models the single-deal analysis view: pick a sample,
// analyze it, inspect deviations, optionally register it in the portfolio.
package singledeal

import (
	"fmt"
	"slices"

	"github.com/felixgeelhaar/doccompare/pkg/domain/deal"
)

// RegistrationStatus tracks the "Add to Portfolio" action. It is independent
// of the analysis state.
type RegistrationStatus int

const (
	RegistrationNone RegistrationStatus = iota
	RegistrationPending
	RegistrationAdded
	RegistrationFailed
)

func (s RegistrationStatus) String() string {
	switch s {
	case RegistrationPending:
		return "pending"
	case RegistrationAdded:
		return "added"
	case RegistrationFailed:
		return "failed"
	default:
		return "none"
	}
}

// Session is the state of one single-deal view instance.
type Session struct {
	machine *Machine

	samples []string
	sample  string
	result  *deal.AnalysisResult
	detail  int
	err     error

	registration    RegistrationStatus
	registrationErr error
}

// NewSession returns a session in the idle state.
func NewSession() (*Session, error) {
	s := &Session{detail: -1}
	m, err := NewMachine(s.hasSelection)
	if err != nil {
		return nil, err
	}
	s.machine = m
	return s, nil
}

func (s *Session) hasSelection() bool {
	return len(s.samples) > 0 && s.sample != ""
}

// State returns the current machine state.
func (s *Session) State() string { return s.machine.Current() }

// Samples returns the sample identifiers offered by the backend.
func (s *Session) Samples() []string { return slices.Clone(s.samples) }

// Sample returns the selected sample, empty when none.
func (s *Session) Sample() string { return s.sample }

// Result returns the analysis result while in the result state.
func (s *Session) Result() *deal.AnalysisResult { return s.result }

// Err returns the last user-visible error.
func (s *Session) Err() error { return s.err }

// SetSamples installs the sample list. A selected sample that is no longer
// offered is cleared.
func (s *Session) SetSamples(samples []string) {
	s.samples = slices.Clone(samples)
	if s.sample != "" && !slices.Contains(s.samples, s.sample) && s.State() == StateSelected {
		s.sample = ""
		_ = s.machine.Send(EventClear)
	}
}

// SetLoadError records a failure to fetch the sample list.
func (s *Session) SetLoadError(err error) {
	s.err = err
}

// CanAnalyze reports whether the analyze control is enabled.
func (s *Session) CanAnalyze() bool {
	return s.State() == StateSelected && s.hasSelection()
}

// Select chooses a sample. Choosing again while selected replaces it.
func (s *Session) Select(sample string) error {
	if sample == "" {
		return ErrNoSelection
	}
	if !slices.Contains(s.samples, sample) {
		return fmt.Errorf("%w: %s", ErrUnknownSample, sample)
	}

	switch s.State() {
	case StateIdle:
		if err := s.machine.Send(EventSelect); err != nil {
			return err
		}
	case StateSelected:
	default:
		return &TransitionError{Event: EventSelect, From: s.State()}
	}
	s.sample = sample
	s.err = nil
	return nil
}

// BeginAnalyze moves to analyzing and returns the sample to submit. No
// request may be issued when it returns an error.
func (s *Session) BeginAnalyze() (string, error) {
	if len(s.samples) == 0 {
		return "", ErrNoSamples
	}
	if s.sample == "" {
		return "", ErrNoSelection
	}
	if err := s.machine.Send(EventAnalyze); err != nil {
		return "", err
	}
	s.err = nil
	s.result = nil
	s.detail = -1
	s.registration, s.registrationErr = RegistrationNone, nil
	return s.sample, nil
}

// Succeed installs the analysis result.
func (s *Session) Succeed(result *deal.AnalysisResult) error {
	if result == nil {
		return s.Fail(ErrNoResult)
	}
	if err := s.machine.Send(EventSucceed); err != nil {
		return err
	}
	s.result = result
	return nil
}

// Fail records err and returns to selected so the user can retry.
func (s *Session) Fail(err error) error {
	if sendErr := s.machine.Send(EventFail); sendErr != nil {
		return sendErr
	}
	s.err = err
	return nil
}

// Reset is "Analyze Another": it drops the result and returns to idle.
func (s *Session) Reset() error {
	if err := s.machine.Send(EventReset); err != nil {
		return err
	}
	s.result = nil
	s.sample = ""
	s.detail = -1
	s.err = nil
	s.registration, s.registrationErr = RegistrationNone, nil
	return nil
}

// SelectDeviation opens the detail pane for the deviation at index i.
// Selecting the open deviation again keeps it open.
func (s *Session) SelectDeviation(i int) error {
	if s.result == nil {
		return ErrNoResult
	}
	if i < 0 || i >= len(s.result.Deviations) {
		return fmt.Errorf("deviation index %d out of range [0,%d)", i, len(s.result.Deviations))
	}
	s.detail = i
	return nil
}

// CloseDetail closes the detail pane.
func (s *Session) CloseDetail() {
	s.detail = -1
}

// SelectedDeviation returns the deviation shown in the detail pane.
func (s *Session) SelectedDeviation() (deal.Deviation, int, bool) {
	if s.result == nil || s.detail < 0 || s.detail >= len(s.result.Deviations) {
		return deal.Deviation{}, -1, false
	}
	return s.result.Deviations[s.detail], s.detail, true
}

// BeginRegistration starts "Add to Portfolio" for the analyzed sample.
func (s *Session) BeginRegistration() (string, error) {
	if s.State() != StateResult {
		return "", ErrNoResult
	}
	if s.registration == RegistrationPending {
		return "", ErrRegistrationPending
	}
	s.registration, s.registrationErr = RegistrationPending, nil
	return s.sample, nil
}

// CompleteRegistration records the outcome of the registration call.
func (s *Session) CompleteRegistration(err error) {
	if err != nil {
		s.registration, s.registrationErr = RegistrationFailed, err
		return
	}
	s.registration, s.registrationErr = RegistrationAdded, nil
}

// Registration returns the registration status and its error, if any.
func (s *Session) Registration() (RegistrationStatus, error) {
	return s.registration, s.registrationErr
}
