package domain

import (
	"fmt"
	"time"
)

// Response is what a transport hands back when the server answered,
// whatever the status.
type Response struct {
	StatusCode int    // HTTP status code, 0 for non-HTTP transports
	Status     string // Display status, e.g. "200 OK" or "SERVING"
	OK         bool
	Body       []byte
}

// Outcome is the rendered result of one test run.
type Outcome struct {
	Elapsed    time.Duration
	StatusLine string // "Status: 200 OK" or "Error: Request failed"
	Success    bool
	Body       string // Pretty-printed JSON or "Error: <message>"
	Err        error  // Set when no usable response was received
}

// FormatElapsed renders a duration as seconds with two decimals, truncated
// to whole milliseconds first (e.g. "0.12s").
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2fs", float64(d.Milliseconds())/1000)
}
