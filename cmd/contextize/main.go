// Command contextize regroups the events of a trace-event capture by
// the execution context packed into their metadata.
//
// Usage:
//
//	contextize [--layout flow|legacy] [--strict] [--output-dir dir] <trace_file>
//
// See internal/cli for flags and exit codes.
package main

import (
	"os"

	"github.com/roach88/contextize/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
