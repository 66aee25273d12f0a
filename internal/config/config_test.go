package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestRootCmd creates a cobra.Command with the same persistent flags as the
// real root command so that Load can bind them during tests.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "lifecycle", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")
	pf.String("show-stacktrace", "internal", "")
	pf.String("cache-dir", "", "")
	pf.String("java", "java", "")

	return cmd
}

// writeTempConfig writes a YAML string to a temporary file and returns the path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// ---------------------------------------------------------------------------
// Default
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelLifecycle, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, StacktraceInternal, cfg.ShowStacktrace)
	assert.Equal(t, DefaultJava, cfg.Java)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
	assert.NoError(t, cfg.Validate())
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestValidate_ValidValues(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "lifecycle", "warn", "error"} {
		cfg := Default()
		cfg.LogLevel = lvl
		assert.NoError(t, cfg.Validate(), "level=%s", lvl)
	}

	for _, fmt := range []string{"text", "json"} {
		cfg := Default()
		cfg.LogFormat = fmt
		assert.NoError(t, cfg.Validate(), "format=%s", fmt)
	}

	for _, mode := range []string{"internal", "always", "full"} {
		cfg := Default()
		cfg.ShowStacktrace = mode
		assert.NoError(t, cfg.Validate(), "stacktrace=%s", mode)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	assert.ErrorContains(t, cfg.Validate(), "invalid log format")
}

func TestValidate_InvalidStacktrace(t *testing.T) {
	cfg := Default()
	cfg.ShowStacktrace = "sometimes"
	assert.ErrorContains(t, cfg.Validate(), "invalid stacktrace mode")
}

func TestValidate_EmptyJava(t *testing.T) {
	cfg := Default()
	cfg.Java = ""
	assert.ErrorContains(t, cfg.Validate(), "java launcher")
}

// ---------------------------------------------------------------------------
// EffectiveLogLevel / ForwardToolOutput
// ---------------------------------------------------------------------------

func TestEffectiveLogLevel_Normal(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestEffectiveLogLevel_QuietOverride(t *testing.T) {
	cfg := &Config{LogLevel: "debug", Quiet: true}
	assert.Equal(t, "error", cfg.EffectiveLogLevel())
}

func TestForwardToolOutput(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		wantF bool
	}{
		{"default", Config{LogLevel: "lifecycle", ShowStacktrace: "internal"}, false},
		{"info", Config{LogLevel: "info", ShowStacktrace: "internal"}, true},
		{"debug", Config{LogLevel: "debug", ShowStacktrace: "internal"}, true},
		{"warn", Config{LogLevel: "warn", ShowStacktrace: "internal"}, false},
		{"stacktrace always", Config{LogLevel: "lifecycle", ShowStacktrace: "always"}, true},
		{"stacktrace full", Config{LogLevel: "error", ShowStacktrace: "full"}, true},
		{"quiet debug", Config{LogLevel: "debug", Quiet: true, ShowStacktrace: "internal"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantF, tt.cfg.ForwardToolOutput())
		})
	}
}

// ---------------------------------------------------------------------------
// Load: defaults only
// ---------------------------------------------------------------------------

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelLifecycle, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, StacktraceInternal, cfg.ShowStacktrace)
	assert.Equal(t, DefaultCacheDir(), cfg.CacheDir)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
}

// ---------------------------------------------------------------------------
// Load: environment variables
// ---------------------------------------------------------------------------

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("SRGJAR_LOG_LEVEL", "debug")
	t.Setenv("SRGJAR_CACHE_DIR", "/tmp/srgjar-env-cache")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/srgjar-env-cache", cfg.CacheDir)
}

func TestLoad_EnvBooleans(t *testing.T) {
	t.Setenv("SRGJAR_NO_COLOR", "true")
	t.Setenv("SRGJAR_QUIET", "true")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Quiet)
}

// ---------------------------------------------------------------------------
// Load: config file
// ---------------------------------------------------------------------------

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, "log-level: warn\nlog-format: json\nshow-stacktrace: always\njava: /opt/jdk/bin/java\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "always", cfg.ShowStacktrace)
	assert.Equal(t, "/opt/jdk/bin/java", cfg.Java)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_ConfigFileWithProfiles(t *testing.T) {
	p := writeTempConfig(t, "log-level: info\nprofiles:\n  forge:\n    mode: srg\n    classpath: [ss.jar]\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, "/tmp/nonexistent-srgjar-cfg-12345.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeTempConfig(t, ": invalid yaml :")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_InvalidValueInFile(t *testing.T) {
	p := writeTempConfig(t, "show-stacktrace: never\n")

	_, err := Load(nil, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stacktrace mode")
}

// ---------------------------------------------------------------------------
// Load: flag precedence
// ---------------------------------------------------------------------------

func TestLoad_FlagOverridesDefault(t *testing.T) {
	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("SRGJAR_LOG_LEVEL", "debug")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))

	cfg, err := Load(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SRGJAR_LOG_LEVEL", "debug")
	p := writeTempConfig(t, "log-level: warn\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnchangedFlagDoesNotOverrideFile(t *testing.T) {
	p := writeTempConfig(t, "java: /usr/lib/jvm/bin/java\n")

	cfg, err := Load(newTestRootCmd(), p)
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/jvm/bin/java", cfg.Java)
}

// ---------------------------------------------------------------------------
// Context
// ---------------------------------------------------------------------------

func TestContext_RoundTrip(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	ctx := NewContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}
