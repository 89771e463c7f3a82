package cli

import "errors"

// Process exit codes reported by the ctxpack binary.
const (
	ExitCodeSuccess             = 0
	ExitCodeFailure             = 1
	ExitCodeMissingRoot         = 2
	ExitCodeDestinationNotEmpty = 3
)

// ExitCodeError couples an error with the process exit code it maps to.
type ExitCodeError struct {
	Code int
	Err  error
}

func (exitError *ExitCodeError) Error() string {
	return exitError.Err.Error()
}

func (exitError *ExitCodeError) Unwrap() error {
	return exitError.Err
}

// ExitCode resolves the process exit code for an execution error. A nil error
// maps to ExitCodeSuccess and an uncoded error to ExitCodeFailure.
func ExitCode(executionError error) int {
	if executionError == nil {
		return ExitCodeSuccess
	}
	var codedError *ExitCodeError
	if errors.As(executionError, &codedError) {
		return codedError.Code
	}
	return ExitCodeFailure
}
