// Package trace loads, edits, and writes trace-event JSON captures.
//
// A capture is a JSON object with a "traceEvents" array, the format
// read by chrome://tracing and Perfetto. The package treats events as
// opaque field bags: every value is kept as raw JSON and written back
// unchanged unless a caller replaces it. Top-level keys other than
// "traceEvents" (displayTimeUnit, otherData, ...) pass through the same
// way.
//
// # Input
//
// Load sniffs gzip, zstd, and lz4-frame compression from magic bytes
// and strips // and /* */ comments and trailing commas before decoding,
// so hand-edited captures load too. A capture that does not decode, or
// has no "traceEvents" array, fails with ErrMalformedDocument.
//
// # Output
//
// Encode writes keys in sorted order with HTML escaping disabled and
// one event per line. WriteFile is atomic: the document is written to
// a temporary file in the destination directory, synced, and renamed
// into place. On failure no output file is left behind.
package trace
