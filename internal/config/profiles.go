package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile is a named remapping preset from the config file's profiles
// section.
type Profile struct {
	// Mode selects the remapping tool (specialsource or vignette).
	Mode string `yaml:"mode"`

	// Side labels the artifact being remapped, e.g. client or server.
	Side string `yaml:"side,omitempty"`

	// Mappings is the mapping file passed to the tool.
	Mappings string `yaml:"mappings,omitempty"`

	// Classpath holds the jars needed to run the tool.
	Classpath []string `yaml:"classpath"`

	// Libraries are passed to Vignette as extra class path entries.
	Libraries []string `yaml:"libraries,omitempty"`
}

// Profiles maps profile names to presets.
type Profiles map[string]Profile

// LoadProfiles reads the profiles section from the config file at path.
// Relative paths inside a profile are resolved against the file's
// directory. An empty path yields no profiles.
func LoadProfiles(path string) (Profiles, error) {
	if path == "" {
		return Profiles{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is the resolved config file
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	profiles, err := ParseProfiles(data)
	if err != nil {
		return nil, err
	}

	profiles.resolve(filepath.Dir(path))

	return profiles, nil
}

// ParseProfiles parses the profiles section from raw config file bytes.
// Unknown profile keys are rejected.
func ParseProfiles(data []byte) (Profiles, error) {
	var doc struct {
		Profiles yaml.Node `yaml:"profiles"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	profiles := Profiles{}
	if doc.Profiles.Kind == 0 {
		return profiles, nil
	}

	raw, err := yaml.Marshal(&doc.Profiles)
	if err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	if err := dec.Decode(&profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}

	if err := profiles.Validate(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Validate checks every profile for required fields.
func (p Profiles) Validate() error {
	for _, name := range p.Names() {
		prof := p[name]

		if prof.Mode == "" {
			return fmt.Errorf("profiles[%s]: mode is required", name)
		}

		if len(prof.Classpath) == 0 {
			return fmt.Errorf("profiles[%s]: classpath must not be empty", name)
		}
	}

	return nil
}

// Lookup returns the profile called name.
func (p Profiles) Lookup(name string) (Profile, error) {
	prof, ok := p[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q", name)
	}

	return prof, nil
}

// Names returns the profile names in lexical order.
func (p Profiles) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (p Profiles) resolve(base string) {
	for name, prof := range p {
		prof.Mappings = resolvePath(base, prof.Mappings)

		for i, cp := range prof.Classpath {
			prof.Classpath[i] = resolvePath(base, cp)
		}

		for i, lib := range prof.Libraries {
			prof.Libraries[i] = resolvePath(base, lib)
		}

		p[name] = prof
	}
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(base, path)
}
