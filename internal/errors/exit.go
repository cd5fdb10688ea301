package errors

// Exit codes returned by the forge binary.
const (
	// ExitSuccess indicates every component was generated.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigurationError indicates the run was aborted before any writes.
	ExitConfigurationError = 2

	// ExitPartialFailure indicates at least one component failed.
	ExitPartialFailure = 3

	// ExitNotFound indicates a template, file or directory was not found.
	ExitNotFound = 5
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case Is(err, ErrConfiguration):
		return ExitConfigurationError
	case Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigurationError:
		return "Configuration Error"
	case ExitPartialFailure:
		return "Partial Failure"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}
