package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Comparison.StrictNaN)
	assert.False(t, cfg.Lexer.AllowUnterminatedString)
	assert.False(t, cfg.Where.UnknownColumnIsError)
	assert.Equal(t, "table", cfg.Output.Format)
}

func TestLoadConfigEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corvid.yaml")
	contents := "comparison:\n  strict_nan: true\noutput:\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Comparison.StrictNaN)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Lexer.AllowUnterminatedString)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/corvid.yaml")
	require.Error(t, err)
}
