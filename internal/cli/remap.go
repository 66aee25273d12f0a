package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/output"
)

func newRemapCommand() *cobra.Command {
	opts := &remapOptions{}

	cmd := &cobra.Command{
		Use:   "remap <source-jar>",
		Short: "Produce a remapped jar from an official Minecraft jar",
		Long: `Remap filters the source jar down to the classes named in the mapping
file and runs the selected remapping tool on the result.

SpecialSource maps official names to SRG names; Vignette maps them to
Mojang names and receives every --library as a context jar. The tool
classpath must contain the tool's jar and its dependencies.

Without --output the remapped jar is left in a fresh temporary file
whose path is printed on stdout. Intermediate archives in the cache
directory are removed on every exit path.`,
		Example: `  srgjar remap client.jar -m joined.tsrg --mode specialsource \
    --classpath specialsource.jar --side client -o client-srg.jar

  srgjar remap --profile client-mojang client.jar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemap(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerRemapFlags(cmd, opts)

	return cmd
}

func runRemap(ctx context.Context, cmd *cobra.Command, source string, opts *remapOptions) error {
	logger := logging.FromContext(ctx)

	res, err := runPipeline(ctx, cmd, source, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Path)

		return err
	}

	w := output.NewFileWriter(opts.output, output.WithLogger(logger))
	if err := w.Install(res.Path); err != nil {
		return fmt.Errorf("installing remapped jar: %w", err)
	}

	logger.Info("remapped jar written",
		slog.String("path", w.Path()),
		slog.Int("kept", res.Kept),
		slog.Int("total", res.Total),
	)

	return nil
}
