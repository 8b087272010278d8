// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "cleanitol"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// schemaMu guards compiledSchema; cue.Context is not safe for concurrent use.
var (
	schemaMu       sync.Mutex
	compiledSchema = sync.OnceValues(func() (*cueutil.Schema, error) {
		return cueutil.Compile(configSchema, "#Config")
	})
)

// configDirOverride redirects ConfigDir. Tests set it because
// os.UserHomeDir() ignores HOME on some platforms.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at dir until Reset is called.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// Reset clears the override set by SetConfigDirOverride.
func Reset() { configDirOverride = "" }

// ConfigDir returns the cleanitol configuration directory using
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
	default:
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

// Locate returns the config file Load would read for opts, or "" when none
// exists and defaults apply. An explicit ConfigFilePath is returned as is,
// whether or not it exists.
func Locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}

	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{
		filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
		ConfigFileName + "." + ConfigFileExt,
	} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the loaded config and the file it came
// from ("" for pure defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("user_plugins", defaults.UserPlugins)
	v.SetDefault("system_plugins", defaults.SystemPlugins)
	v.SetDefault("scan_system_plugins", defaults.ScanSystemPlugins)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("additional_folders", defaults.AdditionalFolders)
	v.SetDefault("additional_mode", defaults.AdditionalMode)
	v.SetDefault("update_tgis", defaults.UpdateTGIs)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("color_scheme", defaults.ColorScheme)

	if opts.ConfigFilePath != "" && !fileExists(opts.ConfigFilePath) {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'cleanitol config init' to create a default configuration").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	resolvedPath, err := Locate(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'cleanitol config show' for the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Folder paths must not be blank").
			WithSuggestion("additional_mode must be plugins-only, plugins-and-additional or additional-only").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// contents into Viper. The file decodes to a map so that Viper keeps the
// defaults for fields the file omits.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("internal error: %w", err)
	}
	configMap, err := cueutil.Decode[map[string]any](schema, data, cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file unless one exists. It
// returns the file path and whether it was created.
func CreateDefaultConfig() (string, bool, error) {
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := writeConfig(cfgPath, DefaultConfig()); err != nil {
		return "", false, err
	}
	return cfgPath, true, nil
}

// Save writes cfg to the config file in ConfigDir.
func Save(cfg *Config) error {
	cfgPath, err := defaultConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(cfgPath, cfg)
}

func defaultConfigPath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration. Unset
// folder paths are omitted so the file stays valid against the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Cleanitol Configuration File\n")
	sb.WriteString("// See https://github.com/sc4cleanitol/cleanitol for documentation.\n\n")

	writePath := func(key string, p FolderPath) {
		if p.IsSet() {
			fmt.Fprintf(&sb, "%s: %q\n", key, p)
		}
	}

	writePath("user_plugins", cfg.UserPlugins)
	writePath("system_plugins", cfg.SystemPlugins)
	fmt.Fprintf(&sb, "scan_system_plugins: %v\n", cfg.ScanSystemPlugins)
	writePath("output_dir", cfg.OutputDir)

	if len(cfg.AdditionalFolders) > 0 {
		sb.WriteString("\nadditional_folders: [\n")
		for _, f := range cfg.AdditionalFolders {
			fmt.Fprintf(&sb, "\t%q,\n", f)
		}
		sb.WriteString("]\n")
	}
	if cfg.AdditionalMode != "" {
		fmt.Fprintf(&sb, "additional_mode: %q\n", cfg.AdditionalMode)
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "update_tgis: %v\n", cfg.UpdateTGIs)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)
	fmt.Fprintf(&sb, "workers: %d\n", cfg.Workers)
	if cfg.ColorScheme != "" {
		fmt.Fprintf(&sb, "color_scheme: %q\n", cfg.ColorScheme)
	}

	return sb.String()
}
