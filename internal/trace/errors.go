package trace

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is matched by every document decode failure.
var ErrMalformedDocument = errors.New("malformed trace document")

// MalformedDocumentError reports a capture that could not be decoded.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed trace document: %s: %v", e.Reason, e.Err)
	}
	return "malformed trace document: " + e.Reason
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedDocument) succeed.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// IOError reports a failed read or write of a capture file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
