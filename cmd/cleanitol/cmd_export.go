// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
)

func newExportCommand(app *App) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "export-tgis",
		Short: "Scan the plugins folders and write every TGI to a CSV file",
		Long: `Scan the plugins folders and write every TGI to a CSV file.

The file is named "ScannedTGIs <date> <time>.csv" and written to the output
folder. It lists one Type, Group and Instance per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return exportTGIs(cmd, app, f)
		},
	}
	addScanFlags(cmd, f)
	return cmd
}

func exportTGIs(cmd *cobra.Command, app *App, f *runFlags) error {
	ctx := cmd.Context()
	base, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	f.exportTGIs = true
	cfg, err := f.apply(cmd, base, app.flags.verbose)
	if err != nil {
		return err
	}
	outputDir, err := prepareOutputDir(cfg.OutputDir, true)
	if err != nil {
		return err
	}

	run := &scriptRun{app: app, flags: f, cfg: cfg, outputDir: outputDir, logger: app.logger(cfg.Verbose)}
	builder := catalog.NewBuilder()
	stop := run.reportProgress(ctx, builder)
	cat, err := builder.Build(ctx, run.catalogOptions())
	stop()
	if err != nil {
		if id := classifyRunError(err); id != 0 {
			return newServiceError(err, id)
		}
		return err
	}

	path, err := catalog.WriteExport(outputDir, app.Now(), cat.TGIs)
	if err != nil {
		return newServiceError(err, issue.OutputDirNotFoundId)
	}
	fmt.Fprintf(app.stdout, "%s Exported %d TGIs from %d files to %s\n",
		SuccessStyle.Render("✓"), len(cat.TGIs), len(cat.Files), CmdStyle.Render(path))
	if n := len(cat.Skipped); n > 0 {
		fmt.Fprintf(app.stdout, "%s %d files could not be read\n", WarningStyle.Render("!"), n)
	}
	return nil
}
