package meta

import (
	"strconv"
	"strings"
)

// ControlDomain is the control id whose events are regrouped by
// context.
const ControlDomain = 77

// Packed holds the identifiers unpacked from one metadata value.
type Packed struct {
	Control uint32
	Context uint32

	// Flow is only meaningful when HasFlow is set.
	Flow    uint32
	HasFlow bool
}

// InControlDomain reports whether the value belongs to ControlDomain.
func (p Packed) InControlDomain() bool {
	return p.Control == ControlDomain
}

// Decode parses a hex string and unpacks it with the given layout.
//
// Surrounding whitespace and a 0x prefix are tolerated. Anything else
// that is not a hex integer fitting in 64 bits fails with
// *MalformedMetadataError.
func Decode(value string, layout Layout) (Packed, error) {
	raw, err := ParseHex(value)
	if err != nil {
		return Packed{}, err
	}
	return DecodeUint(raw, layout), nil
}

// ParseHex parses a packed metadata string into its integer value.
func ParseHex(value string) (uint64, error) {
	digits := strings.TrimSpace(value)
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, malformed(value, "empty")
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return 0, malformed(value, "not a hex digit at offset "+strconv.Itoa(i))
		}
	}
	raw, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		// Only ErrRange is possible past the alphabet check.
		return 0, malformed(value, "wider than 64 bits")
	}
	return raw, nil
}

// DecodeUint unpacks an already parsed value.
func DecodeUint(raw uint64, layout Layout) Packed {
	if layout == LayoutLegacy {
		return Packed{
			Context: uint32(raw & 0xFFFFFFFF),
			Control: uint32(raw >> 32),
		}
	}
	return Packed{
		Flow:    uint32(raw & 0xFFFFFFFF),
		Context: uint32((raw >> 32) & 0xFFFF),
		Control: uint32(raw >> 48),
		HasFlow: true,
	}
}

// Pack is the inverse of DecodeUint. Fields wider than the layout
// allows are truncated to their bit range.
func Pack(p Packed, layout Layout) uint64 {
	if layout == LayoutLegacy {
		return uint64(p.Control)<<32 | uint64(p.Context)
	}
	return uint64(p.Control&0xFFFF)<<48 | uint64(p.Context&0xFFFF)<<32 | uint64(p.Flow)
}

// FormatHex renders a packed value the way instrumented processes
// write it: lowercase, no prefix, no padding.
func FormatHex(raw uint64) string {
	return strconv.FormatUint(raw, 16)
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
