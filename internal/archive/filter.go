package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/scylladb/go-set/strset"
)

// FilterResult summarises a Filter run.
type FilterResult struct {
	// Total is the number of entries in the source archive.
	Total int
	// Kept is the number of entries copied to the destination.
	Kept int
}

// Filter copies every entry of src whose name is in keep into a new archive
// at dst, in source order. An existing dst is replaced. When Filter fails the
// partially written dst is removed.
func Filter(src string, keep *strset.Set, dst string) (res *FilterResult, err error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("opening archive %q: %w", src, err)
	}
	defer func() { _ = r.Close() }()

	if err := RemoveIfExists(dst); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec // dst is a cache path
	if err != nil {
		return nil, fmt.Errorf("creating archive %q: %w", dst, err)
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(dst)
		}
	}()

	w := zip.NewWriter(f)
	res = &FilterResult{Total: len(r.File)}

	for _, entry := range r.File {
		if keep == nil || !keep.Has(entry.Name) {
			continue
		}

		if err = w.Copy(entry); err != nil {
			return nil, fmt.Errorf("copying entry %q: %w", entry.Name, err)
		}

		res.Kept++
	}

	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("finishing archive %q: %w", dst, err)
	}

	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("closing archive %q: %w", dst, err)
	}

	return res, nil
}

// RemoveIfExists deletes path. A missing path is not an error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", path, err)
	}

	return nil
}
