package domain

import "fmt"

// Limits bounds the identifiers and page payloads the registry accepts.
// Lengths are measured in bytes, not runes, so multi-byte identifiers are
// bounded by their encoded size.
type Limits struct {
	// MaxIDLength is the maximum length of session and user identifiers.
	MaxIDLength int
	// MaxPageBytes is the maximum size of published page content.
	MaxPageBytes int
}

// DefaultLimits allows identifiers up to 100 bytes and pages up to
// 1,000,000 bytes.
var DefaultLimits = Limits{
	MaxIDLength:  100,
	MaxPageBytes: 1_000_000,
}

// Normalized returns a copy of l with non-positive fields replaced by the
// corresponding DefaultLimits values, so a zero Limits behaves like the
// defaults.
func (l Limits) Normalized() Limits {
	if l.MaxIDLength <= 0 {
		l.MaxIDLength = DefaultLimits.MaxIDLength
	}
	if l.MaxPageBytes <= 0 {
		l.MaxPageBytes = DefaultLimits.MaxPageBytes
	}
	return l
}

// ValidateSessionID checks that a session identifier is non-empty and within
// the configured length.
func (l Limits) ValidateSessionID(id string) error {
	return l.validateID(FieldSessionID, id)
}

// ValidateUserID checks that a user identifier is non-empty and within the
// configured length.
func (l Limits) ValidateUserID(id string) error {
	return l.validateID(FieldUserID, id)
}

// ValidatePage checks that page content fits within the configured size.
// Empty content is valid: publishing an empty page is how a presenter blanks
// a session.
func (l Limits) ValidatePage(content string) error {
	if max := l.Normalized().MaxPageBytes; len(content) > max {
		return &ValidationError{Field: FieldPage, Reason: fmt.Sprintf("exceeds %d bytes", max)}
	}
	return nil
}

func (l Limits) validateID(field, id string) error {
	if id == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if max := l.Normalized().MaxIDLength; len(id) > max {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("exceeds %d bytes", max)}
	}
	return nil
}
