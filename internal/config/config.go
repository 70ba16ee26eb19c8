// SPDX-License-Identifier: MPL-2.0

// Package config loads the girder demo application's configuration:
// a config.toml read with viper, validated against an embedded CUE
// schema before use.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"girder-cli/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "girder"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"

	// DefaultTaskfile is the task file looked up in the working
	// directory when the config names none.
	DefaultTaskfile = "girder.toml"
)

//go:embed config_schema.cue
var configSchema string

type (
	// ColorMode controls terminal color handling.
	ColorMode string

	// UIConfig holds presentation settings.
	UIConfig struct {
		Verbose bool      `mapstructure:"verbose"`
		Color   ColorMode `mapstructure:"color"`
	}

	// Config is the demo application's configuration.
	Config struct {
		Taskfile string   `mapstructure:"taskfile"`
		UI       UIConfig `mapstructure:"ui"`
	}
)

const (
	// ColorAuto detects terminal color support automatically.
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colored output.
	ColorAlways ColorMode = "always"
	// ColorNever disables colored output.
	ColorNever ColorMode = "never"
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Taskfile: DefaultTaskfile,
		UI: UIConfig{
			Verbose: false,
			Color:   ColorAuto,
		},
	}
}

// ConfigDir returns the girder configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration: an explicit override file when set,
// otherwise config.toml in the config directory, otherwise defaults.
// A present-but-invalid file is an error; a missing file is not.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType(ConfigFileExt)

	defaults := DefaultConfig()
	v.SetDefault("taskfile", defaults.Taskfile)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color", string(defaults.UI.Color))

	path, err := resolveConfigFile()
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check the TOML syntax").
				WithSuggestion("Remove the file to fall back to defaults").
				Wrap(err).
				Build()
		}
		if err := validateAgainstSchema(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("validate configuration").
				WithResource(path).
				WithSuggestion("Compare the file against the documented configuration keys").
				Wrap(err).
				Build()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// resolveConfigFile picks the config file to read, or empty when none
// exists. An explicit override must exist.
func resolveConfigFile() (string, error) {
	if configFileOverride != "" {
		if !fileExists(configFileOverride) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(configFileOverride).
				WithSuggestion("Verify the file path is correct").
				Wrap(fmt.Errorf("config file not found: %s", configFileOverride)).
				Build()
		}
		return configFileOverride, nil
	}

	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, nil
	}
	return "", nil
}

// validateAgainstSchema checks the loaded settings against the
// embedded #Config CUE schema, catching unknown keys and out-of-range
// values that TOML decoding alone would let through.
func validateAgainstSchema(v *viper.Viper, path string) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))

	settings := ctx.Encode(v.AllSettings())
	if settings.Err() != nil {
		return fmt.Errorf("failed to encode settings from %s: %w", path, settings.Err())
	}

	unified := schema.Unify(settings)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return err
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteDefault writes a commented default config.toml into the config
// directory; used by "girder config init". It refuses to overwrite.
func WriteDefault() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(path) {
		return path, fmt.Errorf("config file already exists: %s", path)
	}

	content := `# girder configuration

# Path to the task file, absolute or relative to the working directory.
taskfile = "girder.toml"

[ui]
# Enable verbose output.
verbose = false

# Terminal color handling: "auto", "always" or "never".
color = "auto"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
