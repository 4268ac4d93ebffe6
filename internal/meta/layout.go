package meta

import (
	"fmt"
	"strings"
)

// Layout selects how a packed 64-bit value is split into identifiers.
type Layout int

const (
	// LayoutFlow is the three-field, flow-aware layout.
	LayoutFlow Layout = iota
	// LayoutLegacy is the two-field layout without a flow id.
	LayoutLegacy
)

// DefaultLayout is used when no layout is requested.
const DefaultLayout = LayoutFlow

// ValidLayouts lists the names accepted by ParseLayout.
var ValidLayouts = []string{"flow", "legacy"}

var (
	flowFields   = []string{"b_meta", "e_meta", "flow_id"}
	legacyFields = []string{"b_meta", "e_meta"}
)

// String returns the flag name of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutFlow:
		return "flow"
	case LayoutLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// ParseLayout parses a layout name. "a" and "b" are accepted as
// aliases for "flow" and "legacy".
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flow", "a":
		return LayoutFlow, nil
	case "legacy", "b":
		return LayoutLegacy, nil
	default:
		return 0, fmt.Errorf("unknown layout %q: must be one of %v", name, ValidLayouts)
	}
}

// Fields returns the args field names that may carry packed metadata,
// in probe priority order. The returned slice must not be modified.
func (l Layout) Fields() []string {
	if l == LayoutLegacy {
		return legacyFields
	}
	return flowFields
}

// HasFlow reports whether the layout carries a flow id.
func (l Layout) HasFlow() bool {
	return l == LayoutFlow
}
