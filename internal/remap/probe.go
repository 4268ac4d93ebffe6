package remap

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/roach88/contextize/internal/meta"
	"github.com/roach88/contextize/internal/trace"
)

// probe is the result of looking for a metadata field in args.
type probe struct {
	Field string
	Raw   json.RawMessage
	Found bool
}

// probeMetadata returns the first field of fields present in args.
// Presence decides, not the value.
func probeMetadata(args trace.Args, fields []string) probe {
	for _, field := range fields {
		if raw, ok := args[field]; ok {
			return probe{Field: field, Raw: raw, Found: true}
		}
	}
	return probe{}
}

// valueKind classifies a probed metadata value.
type valueKind int

const (
	kindBlank valueKind = iota
	kindHex
	kindInvalid
)

// classify inspects a raw metadata value. For kindHex the decoded
// string is returned.
func classify(raw json.RawMessage) (string, valueKind) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", kindBlank
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", kindInvalid
		}
		if s == "" {
			return "", kindBlank
		}
		return s, kindHex
	case 'n':
		return "", kindBlank // null
	case 'f':
		return "", kindBlank // false
	case '{', '[':
		if isEmptyContainer(trimmed) {
			return "", kindBlank // {} or []
		}
		return "", kindInvalid
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if f, err := strconv.ParseFloat(string(trimmed), 64); err == nil && f == 0 {
			return "", kindBlank
		}
		return "", kindInvalid
	default:
		return "", kindInvalid
	}
}

// isEmptyContainer reports whether raw is an object or array with
// nothing but whitespace inside.
func isEmptyContainer(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	first, last := raw[0], raw[len(raw)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return false
	}
	return len(bytes.TrimSpace(raw[1:len(raw)-1])) == 0
}

// decodeProbe decodes a probed value. blank is true when the value is
// present but means "no metadata".
func decodeProbe(p probe, layout meta.Layout) (packed meta.Packed, blank bool, err error) {
	value, kind := classify(p.Raw)
	switch kind {
	case kindBlank:
		return meta.Packed{}, true, nil
	case kindInvalid:
		return meta.Packed{}, false, &meta.MalformedMetadataError{
			Value:  string(bytes.TrimSpace(p.Raw)),
			Reason: "not a hex string",
		}
	}

	packed, err = meta.Decode(value, layout)
	return packed, false, err
}
