package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/config"
	"github.com/hupe1980/srgjar/internal/diff"
	"github.com/hupe1980/srgjar/internal/output"
)

type diffOptions struct {
	format       string
	sizes        bool
	contextLines int
	exitCode     bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <old-jar> <new-jar>",
		Short: "Compare the entry listings of two jars",
		Long: `Diff prints a unified diff of the sorted entry names of two jars, for
example two remapped outputs produced from different mapping files.
With --sizes the uncompressed size of each entry is compared as well.

Use --exit-code to exit with status 1 when the listings differ (like git diff).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "unified", "output format: unified, json")
	f.BoolVar(&opts.sizes, "sizes", false, "compare entry sizes as well as names")
	f.IntVar(&opts.contextLines, "context", 3, "number of context lines")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with code 1 when differences are found")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, oldPath, newPath string, opts *diffOptions) error {
	cfg := config.FromContext(ctx)

	dOpts := diff.DefaultOptions()
	dOpts.OldLabel = filepath.Base(oldPath)
	dOpts.NewLabel = filepath.Base(newPath)
	dOpts.Context = opts.contextLines
	dOpts.Sizes = opts.sizes

	if dOpts.OldLabel == dOpts.NewLabel {
		dOpts.OldLabel, dOpts.NewLabel = oldPath, newPath
	}

	res, err := diff.Archives(oldPath, newPath, dOpts)
	if err != nil {
		return err
	}

	switch opts.format {
	case "unified":
		diff.Write(cmd.OutOrStdout(), res, !cfg.NoColor)
	case output.FormatJSON:
		data, err := output.SerializeJSON(res)
		if err != nil {
			return err
		}

		if err := output.NewStdoutWriter(cmd.OutOrStdout()).Write(data); err != nil {
			return err
		}
	default:
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("unsupported format %q (valid: unified, json)", opts.format)}
	}

	if opts.exitCode && res.HasDifferences {
		return &ExitError{Code: exitError, Err: fmt.Errorf("archives differ")}
	}

	return nil
}
