// SPDX-License-Identifier: MPL-2.0

// Package config handles cleanitol configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/cleanitol on Linux, ~/Library/Application Support/cleanitol
// on macOS, %APPDATA%\cleanitol on Windows), falling back to ./config.cue. It
// supplies defaults for the plugins folders, the backup output folder, the
// additional folder mode and the UI. Files are validated against the embedded
// config_schema.cue before they are merged.
package config
