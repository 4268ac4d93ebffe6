package meta

import (
	"errors"
	"fmt"
)

// ErrMalformedMetadata is matched by every decode failure.
var ErrMalformedMetadata = errors.New("malformed metadata")

// MalformedMetadataError describes a value that is not a packed hex
// integer.
type MalformedMetadataError struct {
	// Value is the offending input as it appeared in the trace.
	Value string

	// Reason is a short human-readable cause.
	Reason string
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("malformed metadata %q: %s", e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedMetadata) succeed.
func (e *MalformedMetadataError) Is(target error) bool {
	return target == ErrMalformedMetadata
}

func malformed(value, reason string) *MalformedMetadataError {
	return &MalformedMetadataError{Value: value, Reason: reason}
}
