package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/contextize/internal/meta"
)

// RootOptions holds flags for the contextize command.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	Layout    string // "flow" | "legacy"
	Strict    bool
	OutputDir string

	// layout is Layout after validation in PersistentPreRunE.
	layout meta.Layout
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the contextize command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "contextize <trace_file>",
		Short: "Group trace events by their packed execution context",
		Long: `Rewrite a trace-event capture so a trace viewer groups events by the
logical execution context packed into their metadata.

For each event, the first present metadata field in args (b_meta, e_meta,
and for the flow layout flow_id) is decoded as a packed hex integer. When
its control id is 77, the event's pid is replaced by the packed context id.
Four process_name events are then appended so pids 0-3 show as client,
server, io, and network.

The result is written to contextized_<name> in the output directory. The
input file is never modified. Compressed captures (gzip, zstd, lz4) are
written back with the same compression.

Examples:
  contextize events_pid4242_ts1700000000.json
  contextize --layout legacy trace.json
  contextize --strict --format json --output-dir out trace.json.gz`,
		Args:          exactlyOneTraceFile,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("%s: invalid format %q: must be one of %v", ErrCodeInvalidFlag, opts.Format, ValidFormats))
			}
			layout, err := meta.ParseLayout(opts.Layout)
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeInvalidFlag+": invalid layout", err)
			}
			opts.layout = layout
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContextize(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "report format (json|text)")
	cmd.Flags().StringVar(&opts.Layout, "layout", meta.DefaultLayout.String(), "metadata bit layout (flow|legacy)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on the first event with malformed metadata")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", ".", "directory for the contextized capture")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.ErrOrStderr(), usageLine)
		return WrapExitError(ExitCommandError, ErrCodeUsage, err)
	})

	return cmd
}

// exactlyOneTraceFile prints the usage line and fails unless exactly
// one positional argument is given.
func exactlyOneTraceFile(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return nil
	}
	fmt.Fprintln(cmd.ErrOrStderr(), usageLine)
	return NewExitError(ExitCommandError,
		fmt.Sprintf("%s: expected exactly one trace file, got %d arguments", ErrCodeUsage, len(args)))
}

// Execute runs the command with args and returns the process exit
// code. Errors not already reported by the command are printed to
// stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !exitErr.reported {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
