package remap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Invocation describes one run of a JVM tool.
type Invocation struct {
	// MainClass is the fully qualified entry point.
	MainClass string
	// Args are passed to the entry point after the class name.
	Args []string
	// Classpath lists the jars and directories the JVM loads classes from.
	Classpath []string
	// Dir is the working directory of the process.
	Dir string
	// Stdout and Stderr receive the process output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner runs an Invocation to completion and reports its exit code.
//
// A process that starts and exits non-zero yields its exit code and a nil
// error. A process that cannot be started yields a non-nil error.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// JavaRunner launches tools with a java executable.
type JavaRunner struct {
	// Java is the launcher binary, looked up on PATH when not absolute.
	Java string
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewJavaRunner creates a JavaRunner for the given launcher.
func NewJavaRunner(java string) *JavaRunner {
	if java == "" {
		java = "java"
	}

	return &JavaRunner{Java: java}
}

// Command builds the exec.Cmd for inv without starting it.
func (r *JavaRunner) Command(ctx context.Context, inv Invocation) *exec.Cmd {
	args := make([]string, 0, len(inv.Args)+3)
	args = append(args, "-cp", strings.Join(inv.Classpath, string(os.PathListSeparator)), inv.MainClass)
	args = append(args, inv.Args...)

	cmd := exec.CommandContext(ctx, r.Java, args...) //nolint:gosec // launcher and args come from configuration
	cmd.Dir = inv.Dir
	cmd.Stdout = orDiscard(inv.Stdout)
	cmd.Stderr = orDiscard(inv.Stderr)

	if r.Env != nil {
		cmd.Env = r.Env
	}

	return cmd
}

// Run starts the tool and waits for it to exit. Once the process has
// started, its status is returned as the exit code with a nil error; a
// process terminated by a signal reports -1.
func (r *JavaRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	if err := r.Command(ctx, inv).Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}

		return -1, fmt.Errorf("running %s: %w", r.Java, err)
	}

	return 0, nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
