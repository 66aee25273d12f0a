package remap

import (
	"errors"
	"fmt"
)

// ErrToolFailed is the sentinel wrapped by ToolError.
var ErrToolFailed = errors.New("remapping tool failed")

// ToolError reports a remapping tool that exited with a non-zero status.
type ToolError struct {
	Tool string
	// ExitCode is -1 when the process was terminated by a signal.
	ExitCode int
}

func (e *ToolError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s was terminated by a signal", e.Tool)
	}

	return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
}

// Unwrap returns ErrToolFailed so callers can use errors.Is.
func (e *ToolError) Unwrap() error { return ErrToolFailed }
