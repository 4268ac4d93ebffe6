package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess      = 0 // capture rewritten
	ExitFailure      = 1 // capture or its metadata could not be decoded
	ExitCommandError = 2 // bad invocation, unreadable input, or unwritable output
)

// ExitError carries the exit code a failed run should end with.
type ExitError struct {
	Code    int
	Message string
	Err     error

	// reported is set once the error has been written for the user, so
	// Execute does not print it twice.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without an underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode maps the result of a run to a process exit code. Errors
// that carry no code count as ExitFailure.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	default:
		return ExitFailure
	}
}

// Envelope wraps every --format json document written to stdout.
type Envelope struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *EnvelopeError `json:"error,omitempty"`
}

// EnvelopeError is the error half of an Envelope.
type EnvelopeError struct {
	Code    string `json:"code"` // one of the ErrCode constants
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes run results as text or as a JSON Envelope.
// Reports go to Writer; text diagnostics go to ErrWriter, or Writer
// when ErrWriter is nil.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Success writes data. In text mode data is printed with Println;
// callers with a richer text form write it themselves.
func (f *OutputFormatter) Success(data any) error {
	if f.Format != "json" {
		_, err := fmt.Fprintln(f.Writer, data)
		return err
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(Envelope{Status: "ok", Data: data})
}

// Error writes a coded failure. The JSON envelope stays on Writer so
// stdout is always one parseable document.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Envelope{
			Status: "error",
			Error:  &EnvelopeError{Code: code, Message: message, Details: details},
		})
	}

	w := f.errWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail writes the failure and returns it as an already reported
// ExitError wrapping err.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) *ExitError {
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, text, nil)
	return &ExitError{
		Code:     exitCode,
		Message:  code + ": " + message,
		Err:      err,
		reported: true,
	}
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
