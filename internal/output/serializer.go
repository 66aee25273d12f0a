package output

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"
)

// Supported report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SerializeJSON converts v to indented JSON with a trailing newline.
func SerializeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return append(data, '\n'), nil
}

// SerializeYAML converts v to YAML. Field names follow the json tags, so
// JSON and YAML reports share one schema.
func SerializeYAML(v any) ([]byte, error) {
	data, err := sigsyaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return data, nil
}

// Serialize converts v using a format registered in DefaultRegistry.
func Serialize(v any, format string) ([]byte, error) {
	fn, err := DefaultRegistry().Serializer(format)
	if err != nil {
		return nil, err
	}

	return fn(v)
}
