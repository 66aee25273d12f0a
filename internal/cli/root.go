// Package cli implements the cobra command tree for srgjar.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/config"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/remap"
)

// Process exit codes.
const (
	exitError      = 1
	exitUsage      = 2
	exitToolFailed = 3
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		return exitCode(err)
	}

	return 0
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, remap.ErrToolFailed) {
		return exitToolFailed
	}

	return exitError
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "srgjar",
		Short: "Filter and remap Minecraft jars with SpecialSource or Vignette",
		Long: `srgjar produces remapped Minecraft jars.

It reduces an official jar to the classes listed in a mapping file and
runs an external remapping tool on the result: SpecialSource for SRG
names or Vignette for Mojang names. The tools run on a JVM; srgjar
only prepares their input, launches them, and collects their output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("cacheDir", cfg.CacheDir),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .srgjar.yaml)")
	pf.String("log-level", config.LogLevelLifecycle, "log level: debug, info, lifecycle, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")
	pf.String("show-stacktrace", config.StacktraceInternal, "failure detail: internal, always, full (anything but internal shows tool output)")
	pf.String("cache-dir", "", "directory for intermediate archives (default: user cache dir)")
	pf.String("java", config.DefaultJava, "java launcher used to run the remapping tools")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: exitUsage, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newVersionCommand(),
		newRemapCommand(),
		newFilterCommand(),
		newClassesCommand(),
		newInspectCommand(),
		newDiffCommand(),
		newWatchCommand(),
		newCompletionCommand(),
	)

	return cmd
}
