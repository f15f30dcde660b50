// CLAUDE:SUMMARY Sentinel and typed errors for the KIPRIS client: missing key, not found, malformed XML, timeout, upstream status.
package kipris

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no API key is configured. The registry
// rejects every request without one, so client construction fails fast.
var ErrMissingAPIKey = errors.New("kipris: KIPRIS_API_KEY is not set (get a key at https://plus.kipris.or.kr and export KIPRIS_API_KEY=<your key>)")

// ErrInvalidInput is returned when a query parameter fails validation.
var ErrInvalidInput = errors.New("kipris: invalid input")

// ErrNotFound is returned by PatentDetail when the registry has no record
// for the application number. It is an expected outcome, not a transport
// failure; callers should test it with errors.Is.
var ErrNotFound = errors.New("kipris: no matching patent")

// ErrMalformedResponse is returned when a response body cannot be decoded
// as XML. It is never retried — a parse failure is not transient.
var ErrMalformedResponse = errors.New("kipris: malformed XML response")

// ErrTimeout is returned after the retry budget is exhausted on transport
// timeouts.
var ErrTimeout = errors.New("kipris: request timed out")

// StatusError is returned after the retry budget is exhausted on non-200
// responses. StatusCode is the last status observed.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kipris: upstream returned HTTP %d", e.StatusCode)
}
