package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/scylladb/go-set/strset"
)

// RunFunc is called each time the watcher triggers a regeneration.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single remap run for status reporting.
type RunResult struct {
	// OutputPath is where the remapped jar was installed.
	OutputPath string
	// Total and Kept are the source entry count and the filtered count.
	Total int
	Kept  int
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the inputs to watch. Their parent directories are watched
	// so that editors replacing a file by rename are noticed.
	Files []string

	// Debounce is the quiet period before triggering a rebuild.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. runFn is called once up front and
// again after every debounced change.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	files, err := addFiles(watcher, opts.Files)
	if err != nil {
		return err
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %d file(s) (debounce=%s)\n", files.Size(), opts.Debounce)

	// Initial generation.
	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string, events int) {
		opts.Logger.Debug("change detected", slog.String("path", path), slog.Int("events", events))
		doRun(sigCtx, opts, runFn, filepath.Base(path))
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, files) {
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// addFiles watches the parent directory of every file and returns the set of
// absolute file paths to react to.
func addFiles(watcher *fsnotify.Watcher, paths []string) (*strset.Set, error) {
	files := strset.New()
	dirs := strset.New()

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", p, err)
		}

		files.Add(abs)

		dir := filepath.Dir(abs)
		if dirs.Has(dir) {
			continue
		}

		if err := watcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %q: %w", dir, err)
		}

		dirs.Add(dir)
	}

	return files, nil
}

// doRun executes a single pipeline run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	start := time.Now()
	now := start.Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d/%d entries remapped, %s) → %s\n",
		now, trigger, result.Kept, result.Total, time.Since(start).Round(time.Millisecond), result.OutputPath)
}

// isRelevant returns true if the event concerns a watched file and changes
// its content.
func isRelevant(event fsnotify.Event, files *strset.Set) bool {
	if !files.Has(filepath.Clean(event.Name)) {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
