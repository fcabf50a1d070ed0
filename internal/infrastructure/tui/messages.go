package tui

import "github.com/felixgeelhaar/doccompare/pkg/domain/amendment"

type samplesLoadedMsg struct{ err error }

type analyzedMsg struct{ err error }

type registeredMsg struct {
	message string
	err     error
}

type portfolioLoadedMsg struct{ err error }

// versionsLoadedMsg carries the initial diff request, if the version list
// allowed one.
type versionsLoadedMsg struct {
	family string
	req    amendment.DiffRequest
	ok     bool
	err    error
}

// diffLoadedMsg reports a finished diff fetch for the given generation.
// applied is false when a newer selection superseded it.
type diffLoadedMsg struct {
	generation uint64
	applied    bool
	err        error
}
