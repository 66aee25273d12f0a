// Package srgjar provides a public Go API for producing remapped Minecraft
// jars.
//
// This package exposes the srgjar filter-and-remap pipeline as a library,
// allowing programmatic use without the CLI.
//
// Basic usage:
//
//	path, err := srgjar.Remap(ctx, "client.jar", "joined.tsrg",
//	    srgjar.WithClasspath("specialsource.jar"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer os.Remove(path)
//
// With options:
//
//	path, err := srgjar.Remap(ctx, "client.jar", "client.tsrg",
//	    srgjar.WithMode(srgjar.ModeVignette),
//	    srgjar.WithSide("client"),
//	    srgjar.WithClasspath("vignette.jar"),
//	    srgjar.WithLibraries(libs...),
//	)
package srgjar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/srgjar/internal/archive"
	"github.com/hupe1980/srgjar/internal/logging"
	"github.com/hupe1980/srgjar/internal/mapping"
	"github.com/hupe1980/srgjar/internal/remap"
)

// Mode selects the remapping tool.
type Mode = remap.Mode

// Remapping modes.
const (
	// ModeSpecialSource maps official names to SRG names.
	ModeSpecialSource = remap.ModeSpecialSource
	// ModeVignette maps official names to Mojang names.
	ModeVignette = remap.ModeVignette
)

// Runner launches a remapping tool. Supply one with WithRunner to replace the
// default java launcher.
type Runner = remap.Runner

// Invocation describes a single tool launch passed to a Runner.
type Invocation = remap.Invocation

// ErrToolFailed matches errors returned when the remapping tool exits with a
// non-zero status. Use errors.As with *ToolError for the exit code.
var ErrToolFailed = remap.ErrToolFailed

// ToolError reports a remapping tool that exited with a non-zero status.
type ToolError = remap.ToolError

// Option configures the remapping pipeline.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	mode      Mode
	side      string
	classpath []string
	libraries []string
	cacheDir  string
	java      string
	runner    Runner
	logger    *slog.Logger
	stdout    io.Writer
	stderr    io.Writer
}

// WithMode selects the remapping tool (default: ModeSpecialSource).
func WithMode(m Mode) Option { return func(o *options) { o.mode = m } }

// WithSide sets the artifact side label, e.g. "client" or "server".
func WithSide(side string) Option { return func(o *options) { o.side = side } }

// WithClasspath sets the jars needed to run the remapping tool. Required.
func WithClasspath(entries ...string) Option {
	return func(o *options) { o.classpath = append(o.classpath, entries...) }
}

// WithLibraries sets the library jars passed to Vignette.
func WithLibraries(libs ...string) Option {
	return func(o *options) { o.libraries = append(o.libraries, libs...) }
}

// WithCacheDir sets the directory for intermediate archives.
func WithCacheDir(dir string) Option { return func(o *options) { o.cacheDir = dir } }

// WithJava sets the java launcher used by the default runner (default: "java").
func WithJava(java string) Option { return func(o *options) { o.java = java } }

// WithRunner replaces the default java launcher.
func WithRunner(r Runner) Option { return func(o *options) { o.runner = r } }

// WithLogger sets the logger (default: discard). A nil logger discards too.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithToolOutput forwards the tool's stdout and stderr to the given writers.
// By default tool output is discarded.
func WithToolOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// Remap filters source down to the classes named in mappings, remaps the
// result with the selected tool and returns the path of a fresh temporary
// jar holding the remapped output. The caller owns that file.
func Remap(ctx context.Context, source, mappings string, opts ...Option) (string, error) {
	if source == "" {
		return "", errors.New("source jar must not be empty")
	}

	if mappings == "" {
		return "", errors.New("mapping file must not be empty")
	}

	o := &options{mode: ModeSpecialSource, logger: logging.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	tool, err := remap.NewTool(o.mode, o.libraries)
	if err != nil {
		return "", err
	}

	runner := o.runner
	if runner == nil {
		runner = remap.NewJavaRunner(o.java)
	}

	orchOpts := []remap.Option{
		remap.WithRunner(runner),
		remap.WithLogger(o.logger),
		remap.WithToolOutput(o.stdout, o.stderr),
	}

	if o.cacheDir != "" {
		orchOpts = append(orchOpts, remap.WithCacheDir(o.cacheDir))
	}

	res, err := remap.New(orchOpts...).Produce(ctx, remap.Request{
		Tool:      tool,
		Side:      o.side,
		Classpath: o.classpath,
		Source:    source,
		Mappings:  mappings,
	})
	if err != nil {
		return "", err
	}

	return res.Path, nil
}

// Filter writes to dst every entry of source whose name is a class listed on
// a top-level line of mappings. It returns the number of entries kept.
func Filter(ctx context.Context, source, mappings, dst string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	keep, err := mapping.ReadKeepSet(mappings)
	if err != nil {
		return 0, err
	}

	res, err := archive.Filter(source, keep, dst)
	if err != nil {
		return 0, fmt.Errorf("filtering %q: %w", source, err)
	}

	return res.Kept, nil
}
