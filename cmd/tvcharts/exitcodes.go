package main

import (
	"fmt"

	"github.com/davetashner/tvcharts/internal/tv"
)

// Exit codes for the tvcharts CLI.
const (
	ExitOK             = 0 // All aggregators succeeded.
	ExitInvalidArgs    = 1 // Invalid arguments, config or dataset.
	ExitPartialFailure = 2 // Some aggregators failed, partial output written.
	ExitTotalFailure   = 3 // No dataset produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitPartialFailure:
			msg = "tvcharts: some aggregators failed"
		case ExitTotalFailure:
			msg = "tvcharts: all aggregators failed"
		default:
			msg = "tvcharts: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// computeExitCode returns the exit code for a finished build.
func computeExitCode(result *tv.BuildResult) int {
	if len(result.Results) == 0 {
		return ExitOK
	}
	switch failed := result.Failed(); {
	case failed == 0:
		return ExitOK
	case failed == len(result.Results):
		return ExitTotalFailure
	default:
		return ExitPartialFailure
	}
}
