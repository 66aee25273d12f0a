package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/archive"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/mapping"
)

type filterOptions struct {
	mappings string
	output   string
}

func newFilterCommand() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <source-jar>",
		Short: "Reduce a jar to the classes named in a mapping file",
		Long: `Filter copies every entry of the source jar whose name is a class
listed on a top-level line of the mapping file. Entries are copied
without recompression. Nothing is remapped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerMappingFlag(cmd, &opts.mappings)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "destination jar (required)")

	return cmd
}

func runFilter(ctx context.Context, cmd *cobra.Command, source string, opts *filterOptions) error {
	logger := logging.FromContext(ctx)

	if opts.mappings == "" {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--mappings (-m) is required")}
	}

	if opts.output == "" {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--output (-o) is required")}
	}

	keep, err := mapping.ReadKeepSet(opts.mappings)
	if err != nil {
		return err
	}

	res, err := archive.Filter(source, keep, opts.output)
	if err != nil {
		return err
	}

	logger.Info("filtered jar written",
		slog.String("path", opts.output),
		slog.Int("kept", res.Kept),
		slog.Int("total", res.Total),
	)

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "kept %d of %d entries → %s\n", res.Kept, res.Total, opts.output)

	return err
}
