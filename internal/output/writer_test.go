package output

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdoutWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewStdoutWriter(&buf)

	data := []byte("a.class\nb.class\n")
	require.NoError(t, w.Write(data))
	assert.Equal(t, string(data), buf.String())
}

func TestStdoutWriter_NilDefault(t *testing.T) {
	// When nil is passed, it defaults to os.Stdout, so just verify it doesn't panic.
	w := NewStdoutWriter(nil)
	assert.NotNil(t, w)
}

func TestFileWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output", "report.json")

	w := NewFileWriter(path)
	data := []byte(`{"kept": 2}`)
	require.NoError(t, w.Write(data))

	got, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, string(data), string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileWriter_CustomPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.jar")

	w := NewFileWriter(path, WithPermissions(0o600))
	require.NoError(t, w.Write([]byte("test")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileWriter_OverwriteWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.jar")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	w := NewFileWriter(path, WithLogger(logger))
	require.NoError(t, w.Write([]byte("new")))

	assert.Contains(t, logs.String(), "overwriting existing file")
}

func TestFileWriter_Install(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "srgjar-123.jar")
	require.NoError(t, os.WriteFile(src, []byte("remapped"), 0o600))

	dst := filepath.Join(dir, "build", "minecraft-srg.jar")
	w := NewFileWriter(dst, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, w.Install(src))

	got, err := os.ReadFile(dst) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "remapped", string(got))
	assert.NoFileExists(t, src)
	assert.Equal(t, dst, w.Path())
}

func TestFileWriter_CopyFrom(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jar")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	dst := filepath.Join(dir, "dst.jar")
	require.NoError(t, os.WriteFile(dst, []byte("a much longer previous payload"), 0o600))

	w := NewFileWriter(dst, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, w.copyFrom(src))

	got, err := os.ReadFile(dst) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestFileWriter_InstallMissingSource(t *testing.T) {
	dir := t.TempDir()
	w := NewFileWriter(filepath.Join(dir, "out.jar"))

	err := w.Install(filepath.Join(dir, "missing.jar"))
	require.Error(t, err)
}
