package archive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/scylladb/go-set/strset"
)

// Entry describes a single archive member.
type Entry struct {
	Name           string    `json:"name"`
	Method         uint16    `json:"method"`
	Size           uint64    `json:"size"`
	CompressedSize uint64    `json:"compressedSize"`
	Modified       time.Time `json:"modified"`
}

// List returns the entries of the archive at path in central-directory order.
func List(path string) ([]Entry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %q: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, Entry{
			Name:           f.Name,
			Method:         f.Method,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Modified:       f.Modified,
		})
	}

	return entries, nil
}

// Names returns the entry names of the archive at path.
func Names(path string) ([]string, error) {
	entries, err := List(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	return names, nil
}

// Report describes how a keep-set covers an archive.
type Report struct {
	Archive string `json:"archive"`
	// Total is the number of entries in the archive.
	Total int `json:"total"`
	// Classes is the number of ".class" entries in the archive.
	Classes int `json:"classes"`
	// Mapped is the size of the keep-set.
	Mapped int `json:"mapped"`
	// Kept is the number of archive entries a filter would keep.
	Kept int `json:"kept"`
	// Missing lists keep-set names absent from the archive.
	Missing []string `json:"missing,omitempty"`
}

// Inspect compares the archive at path with keep without writing anything.
func Inspect(path string, keep *strset.Set) (*Report, error) {
	entries, err := List(path)
	if err != nil {
		return nil, err
	}

	if keep == nil {
		keep = strset.New()
	}

	present := strset.NewWithSize(len(entries))
	rep := &Report{Archive: path, Total: len(entries), Mapped: keep.Size()}

	for _, e := range entries {
		present.Add(e.Name)

		if isClass(e.Name) {
			rep.Classes++
		}

		if keep.Has(e.Name) {
			rep.Kept++
		}
	}

	rep.Missing = strset.Difference(keep, present).List()
	sort.Strings(rep.Missing)

	return rep, nil
}

func isClass(name string) bool {
	return strings.HasSuffix(name, ".class") && name != ".class"
}
