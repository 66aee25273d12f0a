package remap

import (
	"path/filepath"
	"strings"
)

// Suffixes of the intermediate archives kept in the cache directory.
const (
	FilteredSuffix = "-filtered.jar"
	OutputSuffix   = "-srg-output.jar"
)

// Paths are the intermediate archive locations of one remap run.
type Paths struct {
	// Filtered is the source archive reduced to the mapped classes.
	Filtered string
	// Output is where the tool writes the remapped archive.
	Output string
}

// CachePaths derives the intermediate archive paths for source. The name is
// the source's base name without extension, followed by the side label when
// one is given, so that client and server runs on the same jar do not share
// files.
func CachePaths(cacheDir, source, side string) Paths {
	name := filepath.Base(source)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if side = sanitizeSide(side); side != "" {
		name += "-" + side
	}

	return Paths{
		Filtered: filepath.Join(cacheDir, name+FilteredSuffix),
		Output:   filepath.Join(cacheDir, name+OutputSuffix),
	}
}

// sanitizeSide keeps side labels usable inside a single file name.
func sanitizeSide(side string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ';', ' ':
			return '_'
		}

		return r
	}, strings.TrimSpace(side))
}
