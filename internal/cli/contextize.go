package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/contextize/internal/meta"
	"github.com/roach88/contextize/internal/remap"
	"github.com/roach88/contextize/internal/trace"
)

// ContextizeResult is the payload of a successful run.
type ContextizeResult struct {
	Input       string        `json:"input"`
	Output      string        `json:"output"`
	Compression string        `json:"compression"`
	Report      *remap.Report `json:"report"`
}

func runContextize(opts *RootOptions, inputPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	policy := remap.PolicySkip
	if opts.Strict {
		policy = remap.PolicyStrict
	}

	logger.Info("loading trace", "input", inputPath)
	doc, compression, err := trace.Load(inputPath)
	if err != nil {
		if errors.Is(err, trace.ErrMalformedDocument) {
			return formatter.Fail(ExitFailure, ErrCodeMalformedDocument, "cannot decode trace", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot read trace", err)
	}
	logger.Debug("trace loaded",
		"events", len(doc.Events),
		"compression", compression.String(),
	)

	remapper := remap.New(remap.Options{
		Layout: opts.layout,
		Policy: policy,
		Logger: logger,
	})
	report, err := remapper.Run(doc)
	if err != nil {
		if errors.Is(err, meta.ErrMalformedMetadata) {
			return formatter.Fail(ExitFailure, ErrCodeMalformedMetadata, "malformed metadata", err)
		}
		return formatter.Fail(ExitFailure, ErrCodeMalformedDocument, "cannot rewrite trace", err)
	}

	outputPath := trace.OutputPath(inputPath, opts.OutputDir)
	if err := trace.WriteFile(outputPath, doc, compression); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "cannot write output", err)
	}
	logger.Info("wrote trace",
		"output", outputPath,
		"remapped", report.Remapped,
		"malformed", report.Malformed,
	)

	result := ContextizeResult{
		Input:       inputPath,
		Output:      outputPath,
		Compression: compression.String(),
		Report:      report,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return writeTextReport(formatter.Writer, result)
}

// newLogger configures logging the same way for every run: text to
// stderr, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}
