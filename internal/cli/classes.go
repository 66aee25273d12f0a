package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/mapping"
	"github.com/hupe1980/srgjar/internal/output"
)

func newClassesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "classes <mapping-file>",
		Short: "List the jar entries a mapping file keeps",
		Long: `Classes prints the archive entry names derived from the top-level
lines of a mapping file, one per line and sorted. Member lines (those
starting with a tab) are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(cmd.Context(), cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", output.FormatText, "output format: text, json, yaml")

	return cmd
}

func runClasses(_ context.Context, cmd *cobra.Command, path, format string) error {
	keep, err := mapping.ReadKeepSet(path)
	if err != nil {
		return err
	}

	classes := mapping.Classes(keep)

	switch format {
	case output.FormatText:
		if len(classes) == 0 {
			return nil
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(classes, "\n"))

		return err
	case output.FormatJSON, output.FormatYAML:
		if classes == nil {
			classes = []string{}
		}

		data, err := output.Serialize(classes, format)
		if err != nil {
			return err
		}

		return output.NewStdoutWriter(cmd.OutOrStdout()).Write(data)
	default:
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("unsupported format %q (valid: text, json, yaml)", format)}
	}
}
