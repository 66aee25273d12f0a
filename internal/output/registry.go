package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SerializerFunc encodes a report value in one output format.
type SerializerFunc func(v any) ([]byte, error)

// Registry maps format names to SerializerFunc functions, enabling
// pluggable report formats for the classes and inspect commands.
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]SerializerFunc
}

// NewRegistry creates an empty serializer registry.
func NewRegistry() *Registry {
	return &Registry{
		serializers: make(map[string]SerializerFunc),
	}
}

// Register adds a serializer under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, fn SerializerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.serializers[name] = fn
}

// Serializer returns the serializer for the given format, or an error if not
// found.
func (r *Registry) Serializer(name string) (SerializerFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.serializers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return fn, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.serializers))
	for name := range r.serializers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// structured formats: json and yaml.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(FormatJSON, SerializeJSON)
	r.Register(FormatYAML, SerializeYAML)

	return r
}
