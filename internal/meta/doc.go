// Package meta decodes the packed metadata values that instrumented
// processes attach to trace events.
//
// A packed value is a 64-bit unsigned integer written as a hex string
// under one of a few well-known args fields. Two bit layouts exist:
//
//   - LayoutFlow (default): flow = bits[0:32], context = bits[32:48],
//     control = bits[48:64]. Probed fields: b_meta, e_meta, flow_id.
//   - LayoutLegacy: context = bits[0:32], control = bits[32:64].
//     Probed fields: b_meta, e_meta.
//
// The layouts disagree on field widths, so the caller always names the
// layout explicitly. Nothing here guesses from the string length.
//
// This package has no internal imports.
package meta
