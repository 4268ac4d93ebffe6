package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/tidwall/jsonc"
)

// FieldTraceEvents is the top-level key holding the event array.
const FieldTraceEvents = "traceEvents"

// Document is a decoded capture.
type Document struct {
	// Events is the "traceEvents" array, in file order.
	Events []*Event

	// fields holds every other top-level key.
	fields map[string]json.RawMessage
}

// Parse decodes a capture. Comments and trailing commas are stripped
// first.
func Parse(data []byte) (*Document, error) {
	stripped := jsonc.ToJSON(data)

	if !isObject(stripped) {
		return nil, &MalformedDocumentError{Reason: "top level is not a JSON object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(stripped, &fields); err != nil {
		return nil, &MalformedDocumentError{Reason: "invalid JSON", Err: err}
	}

	rawEvents, ok := fields[FieldTraceEvents]
	if !ok {
		return nil, &MalformedDocumentError{Reason: `missing "traceEvents"`}
	}
	delete(fields, FieldTraceEvents)

	var elements []json.RawMessage
	if err := json.Unmarshal(rawEvents, &elements); err != nil {
		return nil, &MalformedDocumentError{Reason: `"traceEvents" is not an array`, Err: err}
	}
	if elements == nil {
		// "traceEvents": null
		return nil, &MalformedDocumentError{Reason: `"traceEvents" is not an array`}
	}

	// Decoding into []*Event directly would turn null elements into nil
	// pointers, so each element is decoded on its own.
	events := make([]*Event, len(elements))
	for i, raw := range elements {
		ev := &Event{}
		if err := ev.UnmarshalJSON(raw); err != nil {
			return nil, &MalformedDocumentError{Reason: fmt.Sprintf("event %d", i), Err: err}
		}
		events[i] = ev
	}

	return &Document{Events: events, fields: fields}, nil
}

// Field returns a raw top-level value other than "traceEvents".
func (d *Document) Field(key string) (json.RawMessage, bool) {
	raw, ok := d.fields[key]
	return raw, ok
}

// Append adds events to the end of the event array.
func (d *Document) Append(events ...*Event) {
	d.Events = append(d.Events, events...)
}

// Encode writes the document. Top-level keys are sorted, and each
// event is written on its own line.
func (d *Document) Encode(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('{')

	keys := make([]string, 0, len(d.fields)+1)
	for k := range d.fields {
		keys = append(keys, k)
	}
	keys = append(keys, FieldTraceEvents)
	slices.Sort(keys)

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, key); err != nil {
			return err
		}
		buf.WriteByte(':')

		if key != FieldTraceEvents {
			if err := writeValue(&buf, d.fields[key]); err != nil {
				return err
			}
			continue
		}
		if err := d.writeEvents(&buf); err != nil {
			return err
		}
	}

	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func (d *Document) writeEvents(buf *bytes.Buffer) error {
	if len(d.Events) == 0 {
		buf.WriteString("[]")
		return nil
	}

	buf.WriteString("[\n")
	for i, ev := range d.Events {
		if i > 0 {
			buf.WriteString(",\n")
		}
		if err := ev.writeTo(buf); err != nil {
			return err
		}
	}
	buf.WriteString("\n]")
	return nil
}
