package remap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scylladb/go-set/strset"
)

// Mode selects the remapping tool.
type Mode int

const (
	// ModeSpecialSource remaps official names to SRG names with SpecialSource.
	ModeSpecialSource Mode = iota + 1
	// ModeVignette remaps official names to Mojang names with Vignette.
	ModeVignette
)

// ParseMode converts a user-facing mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "specialsource", "special-source", "srg":
		return ModeSpecialSource, nil
	case "vignette", "mojang":
		return ModeVignette, nil
	default:
		return 0, fmt.Errorf("unknown remap mode %q: expected specialsource or vignette", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeSpecialSource:
		return "specialsource"
	case ModeVignette:
		return "vignette"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tool describes one external remapping tool: how to launch it and how to
// phrase its command line.
type Tool interface {
	// Name is the human-readable tool name used in progress messages.
	Name() string
	// MainClass is the JVM entry point of the tool.
	MainClass() string
	// Target is the namespace the tool remaps to.
	Target() string
	// Args builds the tool arguments for absolute input, output and
	// mapping paths.
	Args(in, out, mappings string) []string
}

// NewTool returns the Tool for mode. Libraries are only used by Vignette and
// are made absolute.
func NewTool(mode Mode, libraries []string) (Tool, error) {
	switch mode {
	case ModeSpecialSource:
		return SpecialSource{}, nil
	case ModeVignette:
		abs := make([]string, 0, len(libraries))

		for _, lib := range libraries {
			p, err := filepath.Abs(lib)
			if err != nil {
				return nil, fmt.Errorf("resolving library %q: %w", lib, err)
			}

			abs = append(abs, p)
		}

		return Vignette{Libraries: abs}, nil
	default:
		return nil, fmt.Errorf("unsupported remap mode %s", mode)
	}
}

// SpecialSource remaps with md_5's SpecialSource using SRG mappings.
type SpecialSource struct{}

func (SpecialSource) Name() string      { return "SpecialSource" }
func (SpecialSource) MainClass() string { return "net.md_5.specialsource.SpecialSource" }
func (SpecialSource) Target() string    { return "srg" }

// Args returns exactly --in-jar, --out-jar and --srg-in with their values.
func (SpecialSource) Args(in, out, mappings string) []string {
	return []string{
		"--in-jar", in,
		"--out-jar", out,
		"--srg-in", mappings,
	}
}

// Vignette remaps with CadixDev's Vignette using TSRG2 mappings.
type Vignette struct {
	// Libraries are absolute paths to jars the remapped classes depend on.
	// Each one becomes an -e=<path> argument.
	Libraries []string
}

func (Vignette) Name() string      { return "Vignette" }
func (Vignette) MainClass() string { return "org.cadixdev.vignette.VignetteMain" }
func (Vignette) Target() string    { return "mojang" }

// Args returns the ten fixed Vignette arguments followed by one -e flag per
// library, in order, with repeated libraries dropped.
func (v Vignette) Args(in, out, mappings string) []string {
	args := []string{
		"--jar-in", in,
		"--jar-out", out,
		"--mapping-format", "tsrg2",
		"--mappings", mappings,
		"--create-inits",
		"--fix-param-annotations",
	}

	seen := strset.NewWithSize(len(v.Libraries))
	for _, lib := range v.Libraries {
		if seen.Has(lib) {
			continue
		}

		seen.Add(lib)
		args = append(args, "-e="+lib)
	}

	return args
}
