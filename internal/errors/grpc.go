package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClassifyGRPCError converts an error from the gRPC health check into a
// UIError. Non-gRPC errors fall back to ClassifyError.
func ClassifyGRPCError(err error) *UIError {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return ClassifyError(err)
	}

	details := fmt.Sprintf("gRPC: %s - %s", st.Code(), st.Message())

	switch st.Code() {
	case codes.Unavailable:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Cannot Connect to Server",
			Message:  "The server is not responding.",
			Recovery: []string{
				"Check that the server is running",
				"Verify the address and port",
				"Check your network connection",
			},
			Details: details,
		}

	case codes.DeadlineExceeded:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Timeout",
			Message:  "The server took too long to respond.",
			Recovery: []string{"Try again", "Increase timeout setting"},
			Details:  details,
		}

	case codes.Unimplemented:
		return &UIError{
			Err:      err,
			Severity: SeverityWarning,
			Title:    "Health Service Not Available",
			Message:  "The server does not implement grpc.health.v1.Health.",
			Recovery: []string{"Register the health service on the server", "Use the HTTP health check instead"},
			Details:  details,
		}

	case codes.NotFound:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Unknown Service",
			Message:  "The server has no health status for the requested service.",
			Recovery: []string{"Check the service name"},
			Details:  details,
		}

	case codes.Unauthenticated, codes.PermissionDenied:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Access Denied",
			Message:  "The server rejected the health check.",
			Recovery: []string{"Check server credentials"},
			Details:  details,
		}

	case codes.Canceled:
		return &UIError{
			Err:      err,
			Severity: SeverityInfo,
			Title:    "Request Cancelled",
			Message:  "The operation was cancelled.",
			Recovery: []string{},
			Details:  details,
		}

	default:
		return &UIError{
			Err:      err,
			Severity: SeverityError,
			Title:    "Request Failed",
			Message:  st.Message(),
			Recovery: []string{"Try again"},
			Details:  details,
		}
	}
}
