// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// maxWorkers mirrors the bound in config_schema.cue.
	maxWorkers = 256
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFolderPath is the sentinel error wrapped by InvalidFolderPathError.
	ErrInvalidFolderPath = errors.New("invalid folder path")
	// ErrInvalidWorkers is returned when Workers is outside [0, 256].
	ErrInvalidWorkers = errors.New("invalid worker count")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// FolderPath is a filesystem folder named in the configuration. The zero
	// value means "not set"; a set value must not be whitespace-only.
	FolderPath string

	// InvalidFolderPathError is returned when a FolderPath is whitespace-only.
	InvalidFolderPathError struct {
		Field string
		Value FolderPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UserPlugins is the plugins folder in the user's Documents folder.
		UserPlugins FolderPath `json:"user_plugins" mapstructure:"user_plugins" toml:"user_plugins"`
		// SystemPlugins is the plugins folder in the game installation directory.
		SystemPlugins FolderPath `json:"system_plugins" mapstructure:"system_plugins" toml:"system_plugins"`
		// ScanSystemPlugins includes SystemPlugins in dependency lookups.
		ScanSystemPlugins bool `json:"scan_system_plugins" mapstructure:"scan_system_plugins" toml:"scan_system_plugins"`
		// OutputDir receives one timestamped folder per backup.
		OutputDir FolderPath `json:"output_dir" mapstructure:"output_dir" toml:"output_dir"`
		// AdditionalFolders are searched according to AdditionalMode.
		AdditionalFolders []FolderPath `json:"additional_folders" mapstructure:"additional_folders" toml:"additional_folders"`
		// AdditionalMode is one of plugins-only, plugins-and-additional or additional-only.
		AdditionalMode string `json:"additional_mode" mapstructure:"additional_mode" toml:"additional_mode"`
		// UpdateTGIs rebuilds the TGI index on every run.
		UpdateTGIs bool `json:"update_tgis" mapstructure:"update_tgis" toml:"update_tgis"`
		// Verbose lists found dependencies and enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// Workers bounds concurrent package parsing. Zero means one per CPU.
		Workers int `json:"workers" mapstructure:"workers" toml:"workers"`
		// ColorScheme sets the terminal color scheme.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the FolderPath.
func (p FolderPath) String() string { return string(p) }

// IsSet reports whether the path was configured.
func (p FolderPath) IsSet() bool { return p != "" }

// Error implements the error interface for InvalidFolderPathError.
func (e *InvalidFolderPathError) Error() string {
	return fmt.Sprintf("%s: folder path %q must not be whitespace-only", e.Field, e.Value)
}

// Unwrap returns ErrInvalidFolderPath for errors.Is() compatibility.
func (e *InvalidFolderPathError) Unwrap() error { return ErrInvalidFolderPath }

// validate checks one path field. The zero value is valid.
func (p FolderPath) validate(field string) error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return &InvalidFolderPathError{Field: field, Value: p}
	}
	return nil
}

// Mode parses AdditionalMode. An empty value is PluginsOnly.
func (c Config) Mode() (catalog.AdditionalMode, error) {
	if c.AdditionalMode == "" {
		return catalog.PluginsOnly, nil
	}
	return catalog.ParseAdditionalMode(c.AdditionalMode)
}

// AdditionalRoots returns AdditionalFolders as plain strings.
func (c Config) AdditionalRoots() []string {
	roots := make([]string, 0, len(c.AdditionalFolders))
	for _, f := range c.AdditionalFolders {
		roots = append(roots, string(f))
	}
	return roots
}

// IsValid returns whether the Config has valid fields. It covers the rules
// the CUE schema also enforces so that values set through flags are checked
// the same way as values read from config.cue.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if err := c.UserPlugins.validate("user_plugins"); err != nil {
		errs = append(errs, err)
	}
	if err := c.SystemPlugins.validate("system_plugins"); err != nil {
		errs = append(errs, err)
	}
	if err := c.OutputDir.validate("output_dir"); err != nil {
		errs = append(errs, err)
	}
	for i, p := range c.AdditionalFolders {
		if err := p.validate(fmt.Sprintf("additional_folders[%d]", i)); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Mode(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 || c.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("%w: %d (valid: 0-%d)", ErrInvalidWorkers, c.Workers, maxWorkers))
	}
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is()
// compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration. Plugins and output folders
// follow the game's layout under the user's Documents folder; they are left
// empty when the home directory cannot be determined.
func DefaultConfig() *Config {
	cfg := &Config{
		AdditionalFolders: []FolderPath{},
		AdditionalMode:    catalog.PluginsOnly.String(),
		ColorScheme:       ColorSchemeAuto,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	gameDir := filepath.Join(home, "Documents", "SimCity 4")
	cfg.UserPlugins = FolderPath(filepath.Join(gameDir, "Plugins"))
	cfg.OutputDir = FolderPath(filepath.Join(gameDir, "BSC_Cleanitol"))
	if runtime.GOOS == "windows" {
		if pf := os.Getenv("ProgramFiles(x86)"); pf != "" {
			cfg.SystemPlugins = FolderPath(filepath.Join(pf, "Steam", "steamapps", "common", "SimCity 4 Deluxe", "Plugins"))
		}
	}
	return cfg
}
