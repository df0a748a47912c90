package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arxeiss/deadfiles/analysis"
)

// Config is the top-level configuration of deadfiles.
// Field tags use mapstructure for viper unmarshalling and yaml for writing starter config.
type Config struct {
	LibRoot         string   `mapstructure:"lib_root"         yaml:"lib_root"`
	PackageName     string   `mapstructure:"package_name"     yaml:"package_name"`
	EntryPoints     []string `mapstructure:"entry_points"     yaml:"entry_points"`
	Extension       string   `mapstructure:"extension"        yaml:"extension"`
	BuiltinPrefixes []string `mapstructure:"builtin_prefixes" yaml:"builtin_prefixes"`
	Exclude         []string `mapstructure:"exclude"          yaml:"exclude"`
	IgnoreFile      string   `mapstructure:"ignore_file"      yaml:"ignore_file"`
	Output          string   `mapstructure:"output"           yaml:"output"`
	Format          string   `mapstructure:"format"           yaml:"format"`
	Debug           bool     `mapstructure:"debug"            yaml:"debug,omitempty"`
}

// pubspecFile sits next to the lib directory of every Dart package.
const pubspecFile = "pubspec.yaml"

// Default returns configuration with all defaults filled in, lib root and package name stay empty.
func Default() Config {
	return Config{
		LibRoot:         DefaultLibRoot,
		EntryPoints:     append([]string(nil), analysis.DefaultEntryPoints...),
		Extension:       analysis.DefaultExtension,
		BuiltinPrefixes: append([]string(nil), analysis.DefaultBuiltinPrefixes...),
		Exclude:         []string{},
		IgnoreFile:      analysis.DefaultIgnoreFile,
		Output:          analysis.DefaultOutput,
		Format:          analysis.FormatText,
	}
}

// Validate checks the configuration is usable for analysis.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LibRoot) == "" {
		return errors.New("lib_root must not be empty")
	}
	if strings.TrimSpace(c.PackageName) == "" {
		return errors.New("package_name must not be empty")
	}
	if c.Extension == "" {
		return errors.New("extension must not be empty")
	}
	if c.Format != analysis.FormatText && c.Format != analysis.FormatJSON {
		return fmt.Errorf("format must be %q or %q, got %q", analysis.FormatText, analysis.FormatJSON, c.Format)
	}
	return nil
}

// Apply copies configuration onto runner.
func (c *Config) Apply(r *analysis.Runner) {
	r.EntryPoints = c.EntryPoints
	r.Extension = c.Extension
	r.BuiltinPrefixes = c.BuiltinPrefixes
	r.Exclude = c.Exclude
	r.IgnoreFile = c.IgnoreFile
	r.Output = c.Output
	r.Format = c.Format
	r.DebugFlag = c.Debug
}

// PackageNameFromPubspec reads the package name from pubspec.yaml in the parent directory of libRoot.
func PackageNameFromPubspec(libRoot string) (string, error) {
	path := filepath.Join(filepath.Dir(filepath.Clean(libRoot)), pubspecFile)
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", pubspecFile, err)
	}

	var pubspec struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(content, &pubspec); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pubspecFile, err)
	}
	if pubspec.Name == "" {
		return "", fmt.Errorf("no name in %s", path)
	}
	return pubspec.Name, nil
}

// WriteFile stores configuration as YAML, existing file is kept unless overwrite is set.
func WriteFile(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
