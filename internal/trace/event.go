package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Common event field names.
const (
	FieldArgs  = "args"
	FieldName  = "name"
	FieldPhase = "ph"
	FieldPID   = "pid"
)

// PhaseMetadata is the phase of metadata events such as process_name.
const PhaseMetadata = "M"

// Args is the decoded top level of an event's "args" object. Values
// stay raw.
type Args map[string]json.RawMessage

// Event is one element of "traceEvents".
//
// Object events expose their fields; anything else (null, numbers,
// arrays) is kept as an opaque value and never modified.
type Event struct {
	fields map[string]json.RawMessage
	opaque json.RawMessage
}

// NewEvent builds an object event from Go values.
func NewEvent(fields map[string]any) (*Event, error) {
	ev := &Event{fields: make(map[string]json.RawMessage, len(fields))}
	for key, value := range fields {
		if err := ev.Set(key, value); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// IsObject reports whether the event is a JSON object.
func (e *Event) IsObject() bool {
	return e.fields != nil
}

// Get returns the raw value of a field.
func (e *Event) Get(key string) (json.RawMessage, bool) {
	raw, ok := e.fields[key]
	return raw, ok
}

// Has reports whether the field is present.
func (e *Event) Has(key string) bool {
	_, ok := e.fields[key]
	return ok
}

// Len returns the number of fields. Opaque events have none.
func (e *Event) Len() int {
	return len(e.fields)
}

// Args returns the event's args object. ok is false when args is
// missing or is not a JSON object.
func (e *Event) Args() (args Args, ok bool) {
	raw, present := e.fields[FieldArgs]
	if !present || !isObject(raw) {
		return nil, false
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, false
	}
	return args, true
}

// Set replaces or adds a field. Setting a field on an opaque event is
// an error.
func (e *Event) Set(key string, value any) error {
	if e.fields == nil {
		return fmt.Errorf("set %q: event is not an object", key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	e.fields[key] = raw
	return nil
}

// SetPID replaces or adds the display process id.
func (e *Event) SetPID(pid uint32) {
	if e.fields == nil {
		return
	}
	e.fields[FieldPID] = strconv.AppendUint(nil, uint64(pid), 10)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	if isObject(data) {
		fields := make(map[string]json.RawMessage)
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		e.fields = fields
		e.opaque = nil
		return nil
	}
	e.fields = nil
	e.opaque = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON implements json.Marshaler with sorted keys and no HTML
// escaping.
func (e *Event) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.writeTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Event) writeTo(buf *bytes.Buffer) error {
	if e.fields == nil {
		if len(e.opaque) == 0 {
			buf.WriteString("null")
			return nil
		}
		return json.Compact(buf, e.opaque)
	}
	return writeObject(buf, e.fields)
}

// isObject reports whether raw JSON starts an object.
func isObject(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
