// Package config loads the engine's YAML-backed policy and output
// configuration, following the same config.LoadConfig / config.DefaultConfig
// shape this corpus uses for its command-line tools.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ComparisonConfig tunes BoxedValue ordering.
type ComparisonConfig struct {
	// StrictNaN makes any comparison touching a NaN float/double return an
	// error (the IEEE "unordered" interpretation) instead of the
	// default source-parity policy where NaN equals NaN and sorts greater
	// than any non-NaN value.
	StrictNaN bool `yaml:"strict_nan"`
}

// LexerConfig tunes lexical scanning behavior.
type LexerConfig struct {
	// AllowUnterminatedString reproduces the original engine's quirk of
	// silently returning the accumulated lexeme for a string literal
	// missing its closing quote, instead of raising a lex error.
	AllowUnterminatedString bool `yaml:"allow_unterminated_string"`
}

// WhereConfig tunes WHERE-clause evaluation.
type WhereConfig struct {
	// UnknownColumnIsError makes a condition naming a column absent from
	// the table's schema raise a name error instead of the default
	// source-parity behavior of evaluating the condition as false.
	UnknownColumnIsError bool `yaml:"unknown_column_is_error"`
}

// OutputConfig controls how cmd/corvid renders a successful SELECT.
type OutputConfig struct {
	// Format is "table" (box-drawn, the default) or "json".
	Format string `yaml:"format"`
}

// EngineConfig is the engine's full runtime configuration.
type EngineConfig struct {
	Comparison ComparisonConfig `yaml:"comparison"`
	Lexer      LexerConfig      `yaml:"lexer"`
	Where      WhereConfig      `yaml:"where"`
	Output     OutputConfig     `yaml:"output"`
}

// DefaultConfig is the engine's out-of-the-box policy: source-parity NaN
// ordering, lex errors on unterminated strings, unknown WHERE columns
// evaluate false, and box-drawn table output.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Output: OutputConfig{Format: "table"},
	}
}

// LoadConfig reads and parses a YAML config file. An empty path returns
// DefaultConfig without touching the filesystem.
func LoadConfig(path string) (*EngineConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
