package remap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hupe1980/srgjar/internal/archive"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/mapping"
)

// Request describes one remap run.
type Request struct {
	// Tool is the remapping tool to run.
	Tool Tool
	// Side labels the artifact in progress messages and cache file names.
	Side string
	// Classpath holds the jars needed to run Tool.
	Classpath []string
	// Source is the official jar to remap.
	Source string
	// Mappings is the mapping file handed to the tool.
	Mappings string
}

// Result describes a finished remap run.
type Result struct {
	// Path is a fresh temporary file holding the remapped jar. The caller
	// owns it.
	Path string
	// Total is the number of entries in the source jar.
	Total int
	// Kept is the number of entries handed to the tool.
	Kept int
}

// Orchestrator runs the parse, filter, remap and finalize steps.
type Orchestrator struct {
	runner   Runner
	cacheDir string
	tempDir  string
	logger   *slog.Logger
	stdout   io.Writer
	stderr   io.Writer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the default java runner.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithCacheDir sets the directory for intermediate archives.
func WithCacheDir(dir string) Option {
	return func(o *Orchestrator) { o.cacheDir = dir }
}

// WithTempDir sets the directory for the result file and the tool's working
// directory. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) { o.tempDir = dir }
}

// WithLogger sets the logger for progress and debug messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithToolOutput forwards the tool's stdout and stderr. Without it the
// output is discarded.
func WithToolOutput(stdout, stderr io.Writer) Option {
	return func(o *Orchestrator) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:   NewJavaRunner(""),
		cacheDir: filepath.Join(os.TempDir(), "srgjar-cache"),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Produce filters req.Source down to the classes named in req.Mappings, runs
// req.Tool on the filtered jar and returns a temporary copy of the tool's
// output. Intermediate files are removed whether or not Produce succeeds.
func (o *Orchestrator) Produce(ctx context.Context, req Request) (*Result, error) {
	if req.Tool == nil {
		return nil, errors.New("no remapping tool selected")
	}

	if len(req.Classpath) == 0 {
		return nil, fmt.Errorf("%s classpath is empty", req.Tool.Name())
	}

	keep, err := mapping.ReadKeepSet(req.Mappings)
	if err != nil {
		return nil, err
	}

	paths, err := o.prepareCache(req)
	if err != nil {
		return nil, err
	}

	defer o.remove(paths.Filtered)
	defer o.remove(paths.Output)

	filtered, err := archive.Filter(req.Source, keep, paths.Filtered)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("filtered archive",
		slog.String("source", req.Source),
		slog.String("filtered", paths.Filtered),
		slog.Int("total", filtered.Total),
		slog.Int("kept", filtered.Kept),
	)

	if err := archive.RemoveIfExists(paths.Output); err != nil {
		return nil, err
	}

	if err := o.invoke(ctx, req, paths); err != nil {
		return nil, err
	}

	out, err := o.finalize(paths)
	if err != nil {
		return nil, err
	}

	return &Result{Path: out, Total: filtered.Total, Kept: filtered.Kept}, nil
}

// prepareCache creates the cache directory and returns absolute
// intermediate paths for req.
func (o *Orchestrator) prepareCache(req Request) (Paths, error) {
	dir, err := filepath.Abs(o.cacheDir)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving cache dir %q: %w", o.cacheDir, err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Paths{}, fmt.Errorf("creating cache dir %q: %w", dir, err)
	}

	return CachePaths(dir, req.Source, req.Side), nil
}

// invoke runs the tool in a fresh, empty working directory.
func (o *Orchestrator) invoke(ctx context.Context, req Request, paths Paths) error {
	mappings, err := filepath.Abs(req.Mappings)
	if err != nil {
		return fmt.Errorf("resolving mappings %q: %w", req.Mappings, err)
	}

	workDir, err := os.MkdirTemp(o.tempDir, "srgjar-work-")
	if err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	tool := req.Tool
	logging.Lifecycle(ctx, o.logger, fmt.Sprintf(":remapping minecraft (%s, %s, official -> %s)",
		tool.Name(), req.Side, tool.Target()))

	inv := Invocation{
		MainClass: tool.MainClass(),
		Args:      tool.Args(paths.Filtered, paths.Output, mappings),
		Classpath: req.Classpath,
		Dir:       workDir,
		Stdout:    o.stdout,
		Stderr:    o.stderr,
	}

	o.logger.Debug("running remapping tool",
		slog.String("main", inv.MainClass),
		slog.Any("args", inv.Args),
		slog.String("dir", workDir),
	)

	code, err := o.runner.Run(ctx, inv)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", tool.Name(), ctxErr)
	}

	if err != nil {
		return fmt.Errorf("launching %s: %w", tool.Name(), err)
	}

	if code != 0 {
		return &ToolError{Tool: tool.Name(), ExitCode: code}
	}

	return nil
}

// finalize drops the filtered archive and moves the tool output into a new
// temporary file.
func (o *Orchestrator) finalize(paths Paths) (string, error) {
	if err := archive.RemoveIfExists(paths.Filtered); err != nil {
		return "", err
	}

	tmp, err := copyToTemp(o.tempDir, paths.Output)
	if err != nil {
		return "", err
	}

	if err := archive.RemoveIfExists(paths.Output); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	return tmp, nil
}

func copyToTemp(dir, src string) (string, error) {
	in, err := os.Open(src) //nolint:gosec // src is a cache path
	if err != nil {
		return "", fmt.Errorf("opening tool output: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.CreateTemp(dir, "srgjar-*.jar")
	if err != nil {
		return "", fmt.Errorf("creating result file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())

		return "", fmt.Errorf("copying tool output: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("closing result file: %w", err)
	}

	return out.Name(), nil
}

func (o *Orchestrator) remove(path string) {
	if err := archive.RemoveIfExists(path); err != nil {
		o.logger.Debug("cleanup failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
