package cmd

import "errors"

// Exit codes for hitsmoke CLI
const (
	// ExitSuccess indicates the sequence ran to completion, whatever the statuses
	ExitSuccess = 0

	// ExitFailure indicates an unexpected failure
	ExitFailure = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error halted the sequence
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps an error from rootCmd.Execute to a process exit code. Errors
// that were not tagged by a command come from cobra's argument and flag
// parsing.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsageError
}
