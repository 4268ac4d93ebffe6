package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// writeObject writes a JSON object with keys in byte order. Values are
// compacted but otherwise copied as they are.
func writeObject(buf *bytes.Buffer, fields map[string]json.RawMessage) error {
	buf.WriteByte('{')

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, key); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		buf.WriteByte(':')
		if err := writeValue(buf, fields[key]); err != nil {
			return fmt.Errorf("value for key %q: %w", key, err)
		}
	}

	buf.WriteByte('}')
	return nil
}

// writeString writes a JSON string without escaping <, >, and &.
// Event names are often C++ signatures ("operator<<") and must stay
// readable.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder adds a trailing newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

func writeValue(buf *bytes.Buffer, raw json.RawMessage) error {
	if len(raw) == 0 {
		buf.WriteString("null")
		return nil
	}
	return json.Compact(buf, raw)
}
