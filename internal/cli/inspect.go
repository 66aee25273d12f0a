package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/archive"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/mapping"
	"github.com/hupe1980/srgjar/internal/output"
)

type inspectOptions struct {
	mappings    string
	format      string
	showMissing bool
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <source-jar>",
		Short: "Show how a mapping file covers a jar",
		Long: `Inspect reports how many entries of the source jar a filter would keep
for the given mapping file, without writing anything. Mapped classes
that are absent from the jar are listed with --show-missing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	registerMappingFlag(cmd, &opts.mappings)
	f.StringVar(&opts.format, "format", "table", "output format: table, json, yaml")
	f.BoolVar(&opts.showMissing, "show-missing", false, "list mapped classes missing from the jar")

	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, source string, opts *inspectOptions) error {
	logger := logging.FromContext(ctx)

	if opts.mappings == "" {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--mappings (-m) is required")}
	}

	keep, err := mapping.ReadKeepSet(opts.mappings)
	if err != nil {
		return err
	}

	rep, err := archive.Inspect(source, keep)
	if err != nil {
		return err
	}

	logger.Debug("inspected archive",
		slog.String("archive", source),
		slog.Int("total", rep.Total),
		slog.Int("missing", len(rep.Missing)),
	)

	if !opts.showMissing {
		rep.Missing = nil
	}

	switch opts.format {
	case "table":
		return writeInspectTable(cmd.OutOrStdout(), rep)
	case output.FormatJSON, output.FormatYAML:
		data, err := output.Serialize(rep, opts.format)
		if err != nil {
			return err
		}

		return output.NewStdoutWriter(cmd.OutOrStdout()).Write(data)
	default:
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("unsupported format %q (valid: table, json, yaml)", opts.format)}
	}
}

func writeInspectTable(w io.Writer, rep *archive.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(tw, "Archive:\t%s\n", rep.Archive)
	_, _ = fmt.Fprintf(tw, "Entries:\t%d\n", rep.Total)
	_, _ = fmt.Fprintf(tw, "Classes:\t%d\n", rep.Classes)
	_, _ = fmt.Fprintf(tw, "Mapped:\t%d\n", rep.Mapped)
	_, _ = fmt.Fprintf(tw, "Kept:\t%d\n", rep.Kept)

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(rep.Missing) == 0 {
		return nil
	}

	_, _ = fmt.Fprintf(w, "\nMissing (%d):\n", len(rep.Missing))

	for _, name := range rep.Missing {
		_, _ = fmt.Fprintf(w, "  %s\n", name)
	}

	return nil
}
