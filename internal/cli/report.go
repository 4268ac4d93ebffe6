package cli

import (
	"io"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/contextize/internal/remap"
)

// writeTextReport prints the human-readable run summary. Counts are
// digit-grouped since captures routinely hold millions of events.
func writeTextReport(w io.Writer, result ContextizeResult) error {
	p := message.NewPrinter(language.English)
	r := result.Report

	p.Fprintf(w, "Contextized %s -> %s\n", result.Input, result.Output)
	if result.Compression != "none" {
		p.Fprintf(w, "  Compression:   %s\n", result.Compression)
	}
	p.Fprintf(w, "  Layout:        %s\n", r.Layout)
	p.Fprintf(w, "  Events:        %d\n", r.Events)
	p.Fprintf(w, "  With args:     %d\n", r.WithArgs)
	p.Fprintf(w, "  With metadata: %d\n", r.WithMetadata)
	if r.Blank > 0 {
		p.Fprintf(w, "  Blank:         %d\n", r.Blank)
	}
	p.Fprintf(w, "  Remapped:      %d\n", r.Remapped)

	ids := make([]uint32, 0, len(r.ByContext))
	for id := range r.ByContext {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		name := remap.ContextName(id)
		if name == "" {
			name = "context"
		}
		p.Fprintf(w, "    %-9s %5d: %d\n", name, id, r.ByContext[id])
	}

	if r.Malformed > 0 {
		p.Fprintf(w, "  Malformed:     %d (left unchanged)\n", r.Malformed)
		if first := r.FirstMalformed; first != nil {
			p.Fprintf(w, "    first: event %d, args.%s=%s\n", first.Index, first.Field, first.Value)
		}
	}
	_, err := p.Fprintf(w, "  Labels:        %d appended\n", r.LabelsAppended)
	return err
}
