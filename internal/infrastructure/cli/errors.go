package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/doccompare/pkg/domain/singledeal"
	"github.com/felixgeelhaar/doccompare/pkg/sdk"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain and backend errors into CLIErrors with
// actionable hints. Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var transErr *singledeal.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("The session is '%s'; start over with a new command", transErr.From),
			err,
		)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewCLIError("request timed out", "Increase --timeout or check backend load", err)
	case errors.Is(err, singledeal.ErrNoSamples):
		return NewCLIError("no sample deals available", "Add sample deals to the backend's data directory", err)
	case errors.Is(err, singledeal.ErrUnknownSample):
		return NewCLIError("unknown sample deal", "Run 'doccompare samples' to list available deals", err)
	case errors.Is(err, singledeal.ErrNoSelection):
		return NewCLIError("no sample selected", "Pass a sample name or --file", err)
	case errors.Is(err, sdk.ErrNoPortfolioData):
		return NewCLIError("portfolio is empty", "Run 'doccompare portfolio add <sample>' first", err)
	}

	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Message == sdk.TransportErrorMessage:
			return NewCLIError("backend unreachable", "Check that the analysis backend is running and --api-url points at it", err)
		case apiErr.StatusCode == http.StatusNotFound:
			return NewCLIError("not found", "Run 'doccompare samples' or 'doccompare versions <base>' to list valid names", err)
		case apiErr.StatusCode == http.StatusBadGateway:
			return NewCLIError("backend returned an unexpected payload", "Check that the backend version matches this client", err)
		default:
			return NewCLIError(apiErr.Message, "", err)
		}
	}

	return err
}
