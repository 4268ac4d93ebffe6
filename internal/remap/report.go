package remap

import (
	"errors"

	"github.com/roach88/contextize/internal/meta"
)

// Report summarizes one pass.
type Report struct {
	Layout string `json:"layout"`
	Policy string `json:"policy"`

	// Events is the number of events before labels were appended.
	Events   int `json:"events"`
	WithArgs int `json:"with_args"`

	// WithMetadata counts events where a probed field was present,
	// blank values included.
	WithMetadata int `json:"with_metadata"`
	Blank        int `json:"blank"`
	Remapped     int `json:"remapped"`
	Malformed    int `json:"malformed"`

	FirstMalformed *MalformedExample `json:"first_malformed,omitempty"`

	// ByContext counts remapped events per context id.
	ByContext map[uint32]int `json:"by_context,omitempty"`

	LabelsAppended int `json:"labels_appended"`
}

// MalformedExample describes the first event whose metadata failed to
// decode.
type MalformedExample struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
	Error string `json:"error"`
}

func newReport(layout meta.Layout, policy Policy) *Report {
	return &Report{
		Layout:    layout.String(),
		Policy:    policy.String(),
		ByContext: make(map[uint32]int),
	}
}

func (r *Report) record(outcome Outcome, packed meta.Packed) {
	r.Events++

	switch outcome {
	case OutcomeNoArgs:
		return
	case OutcomeNoMetadata:
		r.WithArgs++
		return
	}

	r.WithArgs++
	r.WithMetadata++

	switch outcome {
	case OutcomeBlank:
		r.Blank++
	case OutcomeRemapped:
		r.Remapped++
		r.ByContext[packed.Context]++
	case OutcomeMalformed:
		r.Malformed++
	}
}

func (r *Report) recordMalformed(err *MalformedEventError) {
	if r.FirstMalformed != nil {
		return
	}
	example := &MalformedExample{
		Index: err.Index,
		Field: err.Field,
		Error: err.Err.Error(),
	}
	var mErr *meta.MalformedMetadataError
	if errors.As(err.Err, &mErr) {
		example.Value = mErr.Value
	}
	r.FirstMalformed = example
}
