package singledeal

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when the backend offered no sample deals.
	ErrNoSamples = errors.New("no sample deals available")
	// ErrNoSelection is returned when an action needs a chosen sample.
	ErrNoSelection = errors.New("no sample deal selected")
	// ErrUnknownSample is returned when selecting a sample the backend did not list.
	ErrUnknownSample = errors.New("unknown sample deal")
	// ErrNoResult is returned when an action needs a completed analysis.
	ErrNoResult = errors.New("no analysis result")
	// ErrRegistrationPending is returned while a portfolio registration is in flight.
	ErrRegistrationPending = errors.New("portfolio registration already in progress")
)

// TransitionError reports an event the current state does not accept.
type TransitionError struct {
	Event string
	From  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %q is not allowed while the view is %q", e.Event, e.From)
}
