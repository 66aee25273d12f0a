package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/config"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/output"
	"github.com/hupe1980/srgjar/internal/watch"
)

type watchOptions struct {
	remapOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <source-jar>",
		Short: "Watch the inputs and remap on every change",
		Long: `Watch monitors the source jar, the mapping file and every library for
changes and re-runs the remap, installing the result at --output.

File changes are debounced to avoid rapid re-runs. Each run prints a
status line with the number of remapped entries or the error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerRemapFlags(cmd, &opts.remapOptions)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, source string, opts *watchOptions) error {
	logger := logging.FromContext(ctx)

	if opts.output == "" {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--output (-o) is required for watch mode")}
	}

	// Resolve once up front so that the watched file list includes profile
	// values and usage errors surface before watching starts.
	if err := opts.applyProfile(cmd, config.FromContext(ctx)); err != nil {
		return err
	}

	if _, err := opts.request(source); err != nil {
		return err
	}

	orch := newOrchestrator(ctx, cmd)
	writer := output.NewFileWriter(opts.output, output.WithLogger(logger))

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		req, err := opts.request(source)
		if err != nil {
			return nil, err
		}

		res, err := orch.Produce(fnCtx, req)
		if err != nil {
			return nil, err
		}

		if err := writer.Install(res.Path); err != nil {
			return nil, fmt.Errorf("installing remapped jar: %w", err)
		}

		return &watch.RunResult{
			OutputPath: writer.Path(),
			Total:      res.Total,
			Kept:       res.Kept,
		}, nil
	}

	files := append([]string{source, opts.mappings}, opts.libraries...)

	watchOpts := watch.DefaultOptions()
	watchOpts.Files = files
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logger
	watchOpts.Out = cmd.ErrOrStderr()

	return watch.Run(ctx, watchOpts, runFn)
}
