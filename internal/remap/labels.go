package remap

import (
	"fmt"

	"github.com/roach88/contextize/internal/trace"
)

// ProcessLabel names a display process id.
type ProcessLabel struct {
	PID  uint32
	Name string
}

// ProcessLabels is appended as process_name metadata events after every
// pass. Ids match the context ids producers pack.
var ProcessLabels = [...]ProcessLabel{
	{PID: 0, Name: "client"},
	{PID: 1, Name: "server"},
	{PID: 2, Name: "io"},
	{PID: 3, Name: "network"},
}

const processNameEvent = "process_name"

// ContextName returns the label for a context id, or "" if it has none.
func ContextName(id uint32) string {
	for _, label := range ProcessLabels {
		if label.PID == id {
			return label.Name
		}
	}
	return ""
}

// LabelEvents builds one process_name event per entry of
// ProcessLabels.
func LabelEvents() ([]*trace.Event, error) {
	events := make([]*trace.Event, 0, len(ProcessLabels))
	for _, label := range ProcessLabels {
		ev, err := trace.NewEvent(map[string]any{
			trace.FieldName:  processNameEvent,
			trace.FieldPhase: trace.PhaseMetadata,
			trace.FieldPID:   label.PID,
			trace.FieldArgs:  map[string]string{"name": label.Name},
		})
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", label.Name, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// AppendProcessLabels appends the label events to doc. Existing label
// events are not looked at.
func AppendProcessLabels(doc *trace.Document) (int, error) {
	events, err := LabelEvents()
	if err != nil {
		return 0, err
	}
	doc.Append(events...)
	return len(events), nil
}
