package remap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/contextize/internal/meta"
	"github.com/roach88/contextize/internal/trace"
)

// Policy controls what happens to an event with malformed metadata.
type Policy int

const (
	// PolicySkip leaves the event unmodified and continues.
	PolicySkip Policy = iota
	// PolicyStrict stops the pass at the first malformed value.
	PolicyStrict
)

// String returns the name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Outcome is what the Remapper did with one event.
type Outcome int

const (
	OutcomeNoArgs     Outcome = iota // not an object, or no args object
	OutcomeNoMetadata                // args without any probed field
	OutcomeBlank                     // probed field present but blank
	OutcomeUnmatched                 // decoded, control id not in the domain
	OutcomeRemapped                  // pid replaced
	OutcomeMalformed                 // probed value failed to decode
)

// MalformedEventError reports malformed metadata on one event.
type MalformedEventError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("event %d: args.%s: %v", e.Index, e.Field, e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// Options configures a Remapper.
type Options struct {
	Layout meta.Layout
	Policy Policy

	// Logger receives per-event debug logs and the malformed summary.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Remapper rewrites event pids from packed metadata.
type Remapper struct {
	layout meta.Layout
	policy Policy
	logger *slog.Logger
}

// New creates a Remapper.
func New(opts Options) *Remapper {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Remapper{
		layout: opts.Layout,
		policy: opts.Policy,
		logger: logger,
	}
}

// Run remaps every event of doc and then appends the process label
// events.
//
// Under PolicyStrict a malformed value returns a *MalformedEventError
// and doc is left partly rewritten; callers must discard it.
func (r *Remapper) Run(doc *trace.Document) (*Report, error) {
	report, err := r.RemapEvents(doc.Events)
	if err != nil {
		return report, err
	}

	appended, err := AppendProcessLabels(doc)
	if err != nil {
		return report, err
	}
	report.LabelsAppended = appended
	return report, nil
}

// RemapEvents runs the pass over events without appending labels.
func (r *Remapper) RemapEvents(events []*trace.Event) (*Report, error) {
	report := newReport(r.layout, r.policy)

	for i, ev := range events {
		outcome, packed, err := r.RemapEvent(ev)
		report.record(outcome, packed)

		if outcome == OutcomeMalformed {
			var mErr *MalformedEventError
			if !errors.As(err, &mErr) {
				return report, err
			}
			mErr.Index = i
			report.recordMalformed(mErr)

			if r.policy == PolicyStrict {
				return report, mErr
			}
			r.logger.Debug("skipping event with malformed metadata",
				"event", i,
				"field", mErr.Field,
				"error", mErr.Err,
			)
			continue
		}

		if outcome == OutcomeRemapped {
			r.logger.Debug("event remapped",
				"event", i,
				"context", packed.Context,
			)
		}
	}

	if report.Malformed > 0 {
		r.logger.Warn("events with malformed metadata left unchanged",
			"count", report.Malformed,
			"first_event", report.FirstMalformed.Index,
			"first_value", report.FirstMalformed.Value,
		)
	}

	return report, nil
}

// RemapEvent applies the rule to a single event. packed is set for
// OutcomeUnmatched and OutcomeRemapped. A malformed value returns
// OutcomeMalformed with a *MalformedEventError whose Index is zero.
func (r *Remapper) RemapEvent(ev *trace.Event) (Outcome, meta.Packed, error) {
	args, ok := ev.Args()
	if !ok {
		return OutcomeNoArgs, meta.Packed{}, nil
	}

	p := probeMetadata(args, r.layout.Fields())
	if !p.Found {
		return OutcomeNoMetadata, meta.Packed{}, nil
	}

	packed, blank, err := decodeProbe(p, r.layout)
	if err != nil {
		return OutcomeMalformed, meta.Packed{}, &MalformedEventError{Field: p.Field, Err: err}
	}
	if blank {
		return OutcomeBlank, meta.Packed{}, nil
	}

	if !packed.InControlDomain() {
		return OutcomeUnmatched, packed, nil
	}

	ev.SetPID(packed.Context)
	return OutcomeRemapped, packed, nil
}
