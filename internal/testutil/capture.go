// Package testutil builds trace captures for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/contextize/internal/meta"
)

// Capture builds a trace capture the way an instrumented process
// writes one: begin and end events share a packed value, and each span
// gets the next flow id.
//
// Events carry pid 0 and tid 1 unless set otherwise, and timestamps
// come from an internal Clock.
type Capture struct {
	layout meta.Layout
	clock  Clock
	flow   uint32
	open   []openSpan
	events []map[string]any
}

type openSpan struct {
	name  string
	value string
}

// NewCapture creates an empty capture packed with layout.
func NewCapture(layout meta.Layout) *Capture {
	return &Capture{layout: layout}
}

// Begin opens a span tagged with control and context.
func (c *Capture) Begin(name string, control, context uint32) *Capture {
	c.flow++
	value := meta.FormatHex(meta.Pack(meta.Packed{
		Control: control,
		Context: context,
		Flow:    c.flow,
	}, c.layout))
	c.open = append(c.open, openSpan{name: name, value: value})
	return c.add(name, "B", "b_meta", value)
}

// End closes the innermost open span. It panics if none is open.
func (c *Capture) End() *Capture {
	span := c.open[len(c.open)-1]
	c.open = c.open[:len(c.open)-1]
	return c.add(span.name, "E", "e_meta", span.value)
}

// FlowStart emits a flow event carrying the innermost open span's value
// in flow_id. It panics if no span is open.
func (c *Capture) FlowStart(name string) *Capture {
	span := c.open[len(c.open)-1]
	return c.add(name, "s", "flow_id", span.value)
}

// Raw appends an event exactly as given.
func (c *Capture) Raw(event map[string]any) *Capture {
	c.events = append(c.events, event)
	return c
}

func (c *Capture) add(name, phase, field, value string) *Capture {
	return c.Raw(map[string]any{
		"name": name,
		"ph":   phase,
		"ts":   c.clock.Next(),
		"pid":  0,
		"tid":  1,
		"args": map[string]any{field: value},
	})
}

// Len returns the number of events added so far.
func (c *Capture) Len() int {
	return len(c.events)
}

// JSON encodes the capture as a trace document.
func (c *Capture) JSON(t testing.TB) []byte {
	t.Helper()
	events := c.events
	if events == nil {
		events = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{"traceEvents": events})
	require.NoError(t, err)
	return data
}

// WriteFile writes the capture to dir/name and returns the path.
func (c *Capture) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, c.JSON(t), 0644))
	return path
}
