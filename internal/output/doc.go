// Package output delivers srgjar results: it installs produced jars at their
// destination and serializes reports as text-friendly JSON or YAML.
package output
