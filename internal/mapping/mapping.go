package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/scylladb/go-set/strset"
)

// ClassSuffix is appended to a class name to form its archive entry name.
const ClassSuffix = ".class"

// maxLineSize bounds a single mapping line. TSRG2 lines stay far below this.
const maxLineSize = 1 << 20

// ReadKeepSet reads the mapping file at path and returns the archive entry
// names of every top-level class it declares.
func ReadKeepSet(path string) (*strset.Set, error) {
	f, err := os.Open(path) //nolint:gosec // path is a user-provided mapping file
	if err != nil {
		return nil, fmt.Errorf("reading mappings %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	set, err := ParseKeepSet(f)
	if err != nil {
		return nil, fmt.Errorf("reading mappings %q: %w", path, err)
	}

	return set, nil
}

// ParseKeepSet derives the keep-set from mapping text read from r.
func ParseKeepSet(r io.Reader) (*strset.Set, error) {
	set := strset.New()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.HasPrefix(line, "\t") {
			continue
		}

		set.Add(EntryName(line))
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return set, nil
}

// EntryName returns the archive entry name for a top-level mapping line.
func EntryName(line string) string {
	name, _, _ := strings.Cut(line, " ")

	return name + ClassSuffix
}

// Classes returns the members of set in lexical order.
func Classes(set *strset.Set) []string {
	if set == nil {
		return nil
	}

	list := set.List()
	sort.Strings(list)

	return list
}
