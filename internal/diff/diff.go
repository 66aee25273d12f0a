// Package diff compares the entry listings of two jars as a unified diff.
package diff

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/hupe1980/srgjar/internal/archive"
)

// Result holds the result of a unified diff computation.
type Result struct {
	Unified        string   `json:"unified,omitempty"`
	HasDifferences bool     `json:"hasDifferences"`
	Hunks          []string `json:"hunks,omitempty"`
	OldLabel       string   `json:"old"`
	NewLabel       string   `json:"new"`
	Added          int      `json:"added"`
	Removed        int      `json:"removed"`
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
	// Sizes appends the uncompressed size to every listed entry so that
	// content changes show up as well.
	Sizes bool
}

// DefaultOptions returns sensible default diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel: "old",
		NewLabel: "new",
		Context:  3,
	}
}

// Archives diffs the sorted entry listings of the jars at oldPath and
// newPath.
func Archives(oldPath, newPath string, opts Options) (*Result, error) {
	oldEntries, err := archive.List(oldPath)
	if err != nil {
		return nil, err
	}

	newEntries, err := archive.List(newPath)
	if err != nil {
		return nil, err
	}

	return Compute(Listing(oldEntries, opts.Sizes), Listing(newEntries, opts.Sizes), opts)
}

// Listing renders entries as sorted lines, one per entry.
func Listing(entries []archive.Entry, sizes bool) string {
	lines := make([]string, 0, len(entries))

	for _, e := range entries {
		if sizes {
			lines = append(lines, fmt.Sprintf("%s (%d bytes)", e.Name, e.Size))
		} else {
			lines = append(lines, e.Name)
		}
	}

	sort.Strings(lines)

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

// Compute computes a unified diff between two listings.
func Compute(oldDoc, newDoc string, opts Options) (*Result, error) {
	if oldDoc == newDoc {
		return &Result{OldLabel: opts.OldLabel, NewLabel: opts.NewLabel}, nil
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &Result{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}

	if res.HasDifferences {
		res.Hunks = extractHunks(unified)
		res.Added, res.Removed = countChanges(unified)
	}

	return res, nil
}

// extractHunks splits unified diff output into individual hunks.
func extractHunks(unified string) []string {
	var hunks []string

	var current strings.Builder

	for _, line := range strings.Split(unified, "\n") {
		if strings.HasPrefix(line, "@@") {
			if current.Len() > 0 {
				hunks = append(hunks, current.String())
				current.Reset()
			}
		}

		if current.Len() == 0 && !strings.HasPrefix(line, "@@") {
			continue // file header
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		hunks = append(hunks, current.String())
	}

	return hunks
}

func countChanges(unified string) (added, removed int) {
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return added, removed
}

// Write writes a formatted diff to w with optional ANSI colors.
func Write(w io.Writer, result *Result, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}

	_, _ = fmt.Fprintf(w, "%d added, %d removed\n", result.Added, result.Removed)
}

// writeColorLine writes a single diff line with ANSI color codes.
func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines splits a string into lines for diff processing.
// Each element includes a trailing newline for difflib compatibility.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}

	return lines
}
