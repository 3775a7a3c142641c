package errors

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrorSeverity indicates the severity of an error for UI presentation.
type ErrorSeverity int

const (
	SeverityInfo    ErrorSeverity = iota // User should know, not blocking
	SeverityWarning                      // Degraded functionality
	SeverityError                        // Operation failed, can retry
	SeverityFatal                        // Application must exit
)

// UIError wraps an error with UI-friendly presentation metadata.
type UIError struct {
	Err      error
	Severity ErrorSeverity
	Title    string   // Short user-facing title
	Message  string   // Detailed user-facing message
	Recovery []string // Suggested actions (bullet points)
	Details  string   // Technical details (collapsed by default)
}

func (e UIError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Title
}

// Unwrap returns the underlying error.
func (e UIError) Unwrap() error {
	return e.Err
}

// ClassifyError converts a standard error into a UIError with appropriate
// severity, title, message, and recovery suggestions.
func ClassifyError(err error) *UIError {
	if err == nil {
		return nil
	}

	// Check if already a UIError
	var uiErr *UIError
	if errors.As(err, &uiErr) {
		return uiErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Timeout",
			Message:  "The server took too long to respond.",
			Recovery: []string{"Try again", "Increase the timeout setting"},
			Details:  err.Error(),
		}

	case errors.Is(err, context.Canceled):
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Request Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
		}

	case errors.Is(err, ErrInvalidJSON):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Invalid Response",
			Message:  "The server answered, but the body is not JSON.",
			Recovery: []string{"Check that the endpoint path is correct", "Inspect the server logs"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrSampleUnavailable):
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Sample Unavailable",
			Message:  "The sample file could not be loaded.",
			Recovery: []string{"Check that the server serves /static/samples", "Choose a file manually"},
			Details:  err.Error(),
		}

	case errors.Is(err, ErrNoFileSelected):
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "No File Selected",
			Message:  "This endpoint needs a file to upload.",
			Recovery: []string{"Choose or drop a file", "Load one of the samples"},
		}
	}

	if isConnectionError(err) {
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Connection Failed",
			Message:  "Unable to connect to the server.",
			Recovery: []string{
				"Check that the server is running",
				"Verify the base URL and port",
				"Check your network connection",
			},
			Details: err.Error(),
		}
	}

	// Default fallback for unknown errors
	return &UIError{
		Err:      err,
		Severity: SeverityError,
		Title:    "Unexpected Error",
		Message:  "An unexpected error occurred.",
		Recovery: []string{"Try again"},
		Details:  err.Error(),
	}
}

// isConnectionError reports whether err means no server could be reached.
func isConnectionError(err error) bool {
	if errors.Is(err, ErrConnectionFailed) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
