// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/config"
)

// newConfigCommand creates the `cleanitol config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cleanitol configuration",
		Long: `Manage cleanitol configuration.

Configuration is stored in:
  - Linux: ~/.config/cleanitol/config.cue
  - macOS: ~/Library/Application Support/cleanitol/config.cue
  - Windows: %APPDATA%\cleanitol\config.cue

A config.cue in the current directory is used when none exists there.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return dumpConfig(app.stdout, cfg, format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", "cue", "output format (cue, toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	out := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(not set)")
	path := func(p config.FolderPath) string {
		if !p.IsSet() {
			return unset
		}
		return valueStyle.Render(p.String())
	}

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	cfgPath, err := config.Locate(config.LoadOptions{ConfigFilePath: app.flags.configPath})
	if err != nil || cfgPath == "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("user_plugins"), path(cfg.UserPlugins))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("system_plugins"), path(cfg.SystemPlugins))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("scan_system_plugins"), valueStyle.Render(fmt.Sprint(cfg.ScanSystemPlugins)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("output_dir"), path(cfg.OutputDir))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("additional_folders"))
	if len(cfg.AdditionalFolders) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, f := range cfg.AdditionalFolders {
			fmt.Fprintf(out, "  - %s\n", valueStyle.Render(f.String()))
		}
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("additional_mode"), valueStyle.Render(cfg.AdditionalMode))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("update_tgis"), valueStyle.Render(fmt.Sprint(cfg.UpdateTGIs)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("verbose"), valueStyle.Render(fmt.Sprint(cfg.Verbose)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("workers"), valueStyle.Render(workersLabel(cfg.Workers)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("color_scheme"), valueStyle.Render(cfg.ColorScheme.String()))
	return nil
}

func workersLabel(n int) string {
	if n == 0 {
		return "0 (one per CPU)"
	}
	return fmt.Sprint(n)
}

func initConfig(out io.Writer) error {
	cfgPath, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(out, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}
	fmt.Fprintf(out, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	cfgPath, err := config.Locate(config.LoadOptions{ConfigFilePath: app.flags.configPath})
	if err != nil {
		return err
	}
	if cfgPath == "" {
		fmt.Fprintf(app.stdout, "Config file: %s %s\n",
			filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt),
			SubtitleStyle.Render("(not created yet)"))
		return nil
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

func dumpConfig(w io.Writer, cfg *config.Config, format string) error {
	switch strings.ToLower(format) {
	case "cue":
		_, err := io.WriteString(w, config.GenerateCUE(cfg))
		return err
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (valid: cue, toml)", format)
	}
}
