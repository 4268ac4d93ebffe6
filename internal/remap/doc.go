// Package remap regroups trace events by the execution context packed
// into their metadata.
//
// For every event with an args object, the Remapper probes the
// layout's metadata fields in priority order and takes the first one
// present. The value is decoded with package meta; when its control id
// is meta.ControlDomain, the event's pid is replaced by the decoded
// context id. Nothing else about the event changes.
//
// After the pass, four process_name metadata events are appended so the
// viewer shows context ids 0..3 as client, server, io, and network.
// They are appended on every run, including runs over output of an
// earlier run.
//
// # Blank and malformed values
//
// A present field holding null, false, "", or numeric zero is blank and
// means "no metadata". A present field holding anything else that is
// not a hex string is malformed. With PolicySkip the event is left
// alone and counted in the Report; with PolicyStrict the pass stops at
// the first malformed value.
package remap
