package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/contextize/internal/meta"
	"github.com/roach88/contextize/internal/remap"
	"github.com/roach88/contextize/internal/trace"
)

// Result holds the outcome of a scenario run.
type Result struct {
	// Report is nil when the input failed to parse.
	Report *remap.Report

	// Document is the rewritten capture. Nil on error.
	Document *trace.Document

	// Output is the encoded Document, as it would be written to disk.
	Output []byte

	// Err is the parse or remap error, if any.
	Err error
}

// ErrorKind classifies Err for comparison with Expectation.Error.
func (r *Result) ErrorKind() string {
	switch {
	case r.Err == nil:
		return ""
	case errors.Is(r.Err, meta.ErrMalformedMetadata):
		return ErrorMalformedMetadata
	case errors.Is(r.Err, trace.ErrMalformedDocument):
		return ErrorMalformedDocument
	default:
		return r.Err.Error()
	}
}

// Run executes a scenario and returns the result.
//
// Errors from parsing or remapping are reported in Result.Err, not as
// the returned error, so they can be checked against the expectation.
// The returned error is reserved for harness failures.
func Run(scenario *Scenario) (*Result, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	doc, err := trace.Parse([]byte(scenario.Input))
	if err != nil {
		return &Result{Err: err}, nil
	}

	policy := remap.PolicySkip
	if scenario.Strict {
		policy = remap.PolicyStrict
	}
	remapper := remap.New(remap.Options{
		Layout: scenario.layout(),
		Policy: policy,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	report, err := remapper.Run(doc)
	if err != nil {
		return &Result{Report: report, Err: err}, nil
	}

	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}

	return &Result{
		Report:   report,
		Document: doc,
		Output:   buf.Bytes(),
	}, nil
}
