package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the
// registry. It is expected for typos and for sessions already removed by the
// TTL sweep, so callers should treat it as benign rather than a fault.
var ErrSessionNotFound = errors.New("session not found")

// Field names reported by ValidationError.
const (
	FieldSessionID = "session id"
	FieldUserID    = "user id"
	FieldPage      = "page"
	FieldBody      = "body"
)

// ValidationError describes client input rejected by the limit checks: an
// empty or over-long identifier, or an oversized payload. It is always the
// caller's fault and never worth retrying unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}
