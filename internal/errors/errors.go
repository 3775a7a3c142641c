package errors

import "errors"

// Sentinel errors for common failure modes.
var (
	ErrConnectionFailed  = errors.New("connection failed")
	ErrTimeout           = errors.New("operation timed out")
	ErrInvalidJSON       = errors.New("invalid JSON response")
	ErrSampleUnavailable = errors.New("sample file unavailable")
	ErrNoFileSelected    = errors.New("no file selected")
)

// StatusError reports a non-2xx HTTP status where one was required,
// e.g. when fetching a sample file.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e StatusError) Error() string {
	return "GET " + e.URL + ": " + e.Status
}
