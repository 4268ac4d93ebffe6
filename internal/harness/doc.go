// Package harness runs contextize scenarios described in YAML and
// compares their output against golden files.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	layout: flow            # or legacy; defaults to flow
//	strict: false
//	input: |
//	  {"traceEvents":[{"args":{"b_meta":"4d000100000000"}}]}
//	expect:
//	  error: ""             # "malformed_metadata" or "malformed_document"
//	  remapped: 1
//	  malformed: 0
//	  blank: 0
//	  pids:                 # event index -> pid after the run, null = absent
//	    0: 1
//
// # Golden Files
//
// Scenarios that succeed write their rewritten capture to
// testdata/golden/{name}.golden. To regenerate:
//
//	go test ./internal/harness -update
//
// Logs are discarded, and nothing touches the file system besides the
// scenario and golden files.
package harness
