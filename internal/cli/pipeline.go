package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/srgjar/internal/config"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/remap"
)

// remapOptions holds the flags shared by remap and watch.
type remapOptions struct {
	mappings  string
	mode      string
	side      string
	classpath []string
	libraries []string
	profile   string
	output    string
}

// applyProfile fills every flag the user did not set from the selected
// profile.
func (o *remapOptions) applyProfile(cmd *cobra.Command, cfg *config.Config) error {
	if o.profile == "" {
		return nil
	}

	profiles, err := config.LoadProfiles(cfg.ConfigFile)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}

	prof, err := profiles.Lookup(o.profile)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}

	f := cmd.Flags()

	if !f.Changed("mode") {
		o.mode = prof.Mode
	}

	if !f.Changed("side") {
		o.side = prof.Side
	}

	if !f.Changed("mappings") {
		o.mappings = prof.Mappings
	}

	if !f.Changed("classpath") {
		o.classpath = prof.Classpath
	}

	if !f.Changed("library") {
		o.libraries = prof.Libraries
	}

	return nil
}

// request validates the options and builds the remap request for source.
func (o *remapOptions) request(source string) (remap.Request, error) {
	if o.mappings == "" {
		return remap.Request{}, &ExitError{Code: exitUsage, Err: fmt.Errorf("--mappings (-m) is required")}
	}

	if o.mode == "" {
		return remap.Request{}, &ExitError{Code: exitUsage, Err: fmt.Errorf("--mode is required")}
	}

	mode, err := remap.ParseMode(o.mode)
	if err != nil {
		return remap.Request{}, &ExitError{Code: exitUsage, Err: err}
	}

	classpath := splitClasspath(o.classpath)
	if len(classpath) == 0 {
		return remap.Request{}, &ExitError{Code: exitUsage, Err: fmt.Errorf("--classpath is required")}
	}

	tool, err := remap.NewTool(mode, o.libraries)
	if err != nil {
		return remap.Request{}, err
	}

	return remap.Request{
		Tool:      tool,
		Side:      o.side,
		Classpath: classpath,
		Source:    source,
		Mappings:  o.mappings,
	}, nil
}

// splitClasspath flattens repeated --classpath values that may themselves be
// path lists. Entries are made absolute because the tool runs in its own
// working directory.
func splitClasspath(values []string) []string {
	var out []string

	for _, v := range values {
		for _, entry := range strings.Split(v, string(os.PathListSeparator)) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}

			if abs, err := filepath.Abs(entry); err == nil {
				entry = abs
			}

			out = append(out, entry)
		}
	}

	return out
}

// newOrchestrator builds an orchestrator from the configuration in ctx.
func newOrchestrator(ctx context.Context, cmd *cobra.Command) *remap.Orchestrator {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = config.DefaultCacheDir()
	}

	opts := []remap.Option{
		remap.WithRunner(remap.NewJavaRunner(cfg.Java)),
		remap.WithCacheDir(cacheDir),
		remap.WithLogger(logger),
	}

	if cfg.ForwardToolOutput() {
		opts = append(opts, remap.WithToolOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	}

	return remap.New(opts...)
}

// runPipeline resolves the options and produces the remapped jar for source.
func runPipeline(ctx context.Context, cmd *cobra.Command, source string, opts *remapOptions) (*remap.Result, error) {
	if err := opts.applyProfile(cmd, config.FromContext(ctx)); err != nil {
		return nil, err
	}

	req, err := opts.request(source)
	if err != nil {
		return nil, err
	}

	return newOrchestrator(ctx, cmd).Produce(ctx, req)
}
