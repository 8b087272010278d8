// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sc4cleanitol/cleanitol/internal/backup"
	"github.com/sc4cleanitol/cleanitol/internal/catalog"
	"github.com/sc4cleanitol/cleanitol/internal/config"
	"github.com/sc4cleanitol/cleanitol/internal/engine"
	"github.com/sc4cleanitol/cleanitol/internal/issue"
	"github.com/sc4cleanitol/cleanitol/pkg/dbpf"
	"github.com/sc4cleanitol/cleanitol/pkg/types"
)

const progressInterval = time.Second

type (
	// runFlags holds the flags of `cleanitol run`. Flags that were not given
	// on the command line leave the configured values untouched.
	runFlags struct {
		userPlugins       string
		systemPlugins     string
		outputDir         string
		updateTGIs        bool
		scanSystem        bool
		additionalMode    string
		additionalFolders []string
		workers           int

		backup        bool
		template      string
		exportTGIs    bool
		summaryPath   string
		watch         bool
		failOnMissing bool
	}

	// scriptRun is one fully resolved `cleanitol run` invocation.
	scriptRun struct {
		app        *App
		flags      *runFlags
		cfg        *config.Config
		scriptPath string
		template   string
		outputDir  string
		logger     *log.Logger
	}
)

func newRunCommand(app *App) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a Cleanitol script against the plugins folders",
		Long: `Run a Cleanitol script against the plugins folders.

Every script line is evaluated in order. Removal lines list the matching files
in the user plugins folder, dependency lines report whether the file or TGI is
installed and link to its download, and comment lines are shown as written.

Folder flags override the configuration file for this run only.`,
		Example: `  cleanitol run MyMod-Cleanitol.txt
  cleanitol run -u ~/Documents/"SimCity 4"/Plugins -t script.txt
  cleanitol run --backup --summary last-run.toml script.txt
  cleanitol run --watch script.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, app, f, args[0])
		},
	}

	addScanFlags(cmd, f)
	flags := cmd.Flags()
	flags.BoolVar(&f.backup, "backup", false, "move the files listed for removal into a timestamped backup folder")
	flags.StringVar(&f.template, "template", "", "HTML template for the backup summary page")
	flags.BoolVar(&f.exportTGIs, "export-tgis", false, "write the scanned TGIs to a CSV file in the output folder (implies --update-tgis)")
	flags.StringVar(&f.summaryPath, "summary", "", "write a TOML summary of the run to this file")
	flags.BoolVar(&f.watch, "watch", false, "re-run when the script or the user plugins folder changes")
	flags.BoolVar(&f.failOnMissing, "fail-on-missing", false, "exit with status 2 when a dependency is missing")

	return cmd
}

// addScanFlags registers the folder and scan flags shared by run and
// export-tgis.
func addScanFlags(cmd *cobra.Command, f *runFlags) {
	flags := cmd.Flags()
	flags.StringVarP(&f.userPlugins, "user-plugins", "u", "", "plugins folder in the user's Documents folder")
	flags.StringVarP(&f.systemPlugins, "system-plugins", "s", "", "plugins folder in the game install directory")
	flags.StringVarP(&f.outputDir, "output", "o", "", "folder for backups, TGI exports and the error log")
	flags.BoolVarP(&f.updateTGIs, "update-tgis", "t", false, "rebuild the TGI index by parsing every plugin file")
	flags.BoolVarP(&f.scanSystem, "scan-system-plugins", "y", false, "include the system plugins folder in dependency lookups")
	flags.StringVarP(&f.additionalMode, "additional-mode", "a", "", "additional folders: 0 plugins only, 1 plugins and additional, 2 additional only")
	flags.StringSliceVarP(&f.additionalFolders, "additional-folders", "f", nil, "additional folders, separated by ',' or ';'")
	flags.IntVar(&f.workers, "workers", 0, "concurrent package parsers (0 = one per CPU)")
}

// runScript resolves configuration and flags, then runs the script once or
// in watch mode.
func runScript(cmd *cobra.Command, app *App, f *runFlags, scriptPath string) error {
	if f.watch && f.backup {
		return errors.New("--watch and --backup cannot be used together")
	}

	ctx := cmd.Context()
	base, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	cfg, err := f.apply(cmd, base, app.flags.verbose)
	if err != nil {
		return err
	}

	run := &scriptRun{
		app:        app,
		flags:      f,
		cfg:        cfg,
		scriptPath: scriptPath,
		logger:     app.logger(cfg.Verbose),
	}
	if f.backup {
		if run.template, err = loadTemplate(f.template); err != nil {
			return err
		}
	}
	if run.outputDir, err = prepareOutputDir(cfg.OutputDir, f.backup || f.exportTGIs); err != nil {
		return err
	}
	if run.outputDir == "" && cfg.OutputDir.IsSet() {
		run.logger.Warn("output folder unavailable, error log disabled", "path", cfg.OutputDir)
	}

	if f.watch {
		return run.watch(ctx)
	}
	return run.execute(ctx)
}

// apply overlays the flags that were set on cfg and validates the result.
func (f *runFlags) apply(cmd *cobra.Command, base *config.Config, verbose bool) (*config.Config, error) {
	cfg := *base
	cfg.AdditionalFolders = slices.Clone(base.AdditionalFolders)

	changed := cmd.Flags().Changed
	if changed("user-plugins") {
		cfg.UserPlugins = config.FolderPath(f.userPlugins)
	}
	if changed("system-plugins") {
		cfg.SystemPlugins = config.FolderPath(f.systemPlugins)
	}
	if changed("output") {
		cfg.OutputDir = config.FolderPath(f.outputDir)
	}
	if changed("update-tgis") {
		cfg.UpdateTGIs = f.updateTGIs
	}
	if changed("scan-system-plugins") {
		cfg.ScanSystemPlugins = f.scanSystem
	}
	if changed("additional-folders") {
		cfg.AdditionalFolders = splitFolders(f.additionalFolders)
	}
	if changed("additional-mode") {
		mode, err := catalog.ParseAdditionalMode(f.additionalMode)
		if err != nil {
			return nil, err
		}
		cfg.AdditionalMode = mode.String()
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("verbose") {
		cfg.Verbose = verbose
	}
	if f.exportTGIs {
		cfg.UpdateTGIs = true
	}

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate run options").
			WithSuggestion("Check the folder flags and 'cleanitol config show'").
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return &cfg, nil
}

// splitFolders accepts both repeated/comma separated flag values and the
// semicolon separated list the original console tool used.
func splitFolders(values []string) []config.FolderPath {
	var out []config.FolderPath
	for _, v := range values {
		for part := range strings.SplitSeq(v, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, config.FolderPath(part))
			}
		}
	}
	return out
}

// loadTemplate returns the summary template at path, or the built-in one.
func loadTemplate(path string) (string, error) {
	if path == "" {
		return backup.DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", newServiceError(issue.NewErrorContext().
			WithOperation("read summary template").
			WithResource(path).
			WithSuggestion("Omit --template to use the built-in summary page").
			Wrap(err).
			BuildError(), issue.TemplateNotFoundId)
	}
	return string(data), nil
}

// prepareOutputDir creates the output folder. When required is false a
// failure only disables the error log and "" is returned.
func prepareOutputDir(dir config.FolderPath, required bool) (string, error) {
	var cause error
	switch {
	case !dir.IsSet():
		cause = errors.New("no output folder configured")
	default:
		cause = os.MkdirAll(dir.String(), 0o755)
	}
	if cause == nil {
		return dir.String(), nil
	}
	if !required {
		return "", nil
	}
	return "", newServiceError(issue.NewErrorContext().
		WithOperation("prepare output folder").
		WithResource(dir.String()).
		WithSuggestion("Pass a writable folder with --output").
		Wrap(cause).
		BuildError(), issue.OutputDirNotFoundId)
}

// catalogOptions translates the run configuration into scan options.
func (r *scriptRun) catalogOptions() catalog.Options {
	// Mode was checked by Config.IsValid.
	mode, _ := r.cfg.Mode()
	return catalog.Options{
		UserRoot:        r.cfg.UserPlugins.String(),
		SystemRoot:      r.cfg.SystemPlugins.String(),
		IncludeSystem:   r.cfg.ScanSystemPlugins,
		AdditionalRoots: r.cfg.AdditionalRoots(),
		AdditionalMode:  mode,
		RebuildIndex:    r.cfg.UpdateTGIs,
		Parser:          dbpf.NewParser(),
		Workers:         r.cfg.Workers,
		Logger:          r.logger,
	}
}

// execute runs the script once and handles the report: output, TGI
// export, backup and the TOML summary.
func (r *scriptRun) execute(ctx context.Context) error {
	builder := catalog.NewBuilder()
	stop := r.reportProgress(ctx, builder)
	report, err := engine.Run(ctx, engine.RunRequest{
		ScriptPath: r.scriptPath,
		Catalog:    r.catalogOptions(),
		Builder:    builder,
		Verbose:    r.cfg.Verbose,
		OutputDir:  r.outputDir,
		Now:        r.app.Now,
		Logger:     r.logger,
	})
	stop()
	if err != nil {
		if id := classifyRunError(err); id != 0 {
			return newServiceError(err, id)
		}
		return err
	}
	if report.Empty {
		return newServiceError(issue.NewErrorContext().
			WithOperation("scan plugins").
			WithResource(r.cfg.UserPlugins.String()).
			WithSuggestion("Run again with --verbose for details").
			Wrap(catalog.ErrEnumeration).
			BuildError(), issue.ScanFailedId)
	}

	if err := writeReport(r.app.stdout, report, r.app.flags.plain); err != nil {
		return err
	}

	if r.flags.exportTGIs {
		if err := r.exportTGIs(report); err != nil {
			return err
		}
	}

	var res *backup.Result
	if r.flags.backup {
		if res, err = r.backup(report); err != nil {
			return err
		}
	}

	if r.flags.summaryPath != "" {
		s := newRunSummary(r.scriptPath, r.app.Now(), r.cfg, report, res)
		if err := writeRunSummary(r.flags.summaryPath, s); err != nil {
			return err
		}
		r.logger.Debug("run summary written", "path", r.flags.summaryPath)
	}

	if r.flags.failOnMissing && report.Counters.Missing > 0 {
		return &ExitError{Code: types.ExitMissingDependencies}
	}
	return nil
}

func (r *scriptRun) exportTGIs(report *engine.Report) error {
	path, err := catalog.WriteExport(r.outputDir, r.app.Now(), report.Catalog.TGIs)
	if err != nil {
		return newServiceError(err, issue.OutputDirNotFoundId)
	}
	fmt.Fprintf(r.app.stdout, "%s Exported %d TGIs to %s\n",
		SuccessStyle.Render("✓"), len(report.Catalog.TGIs), CmdStyle.Render(path))
	return nil
}

// backup moves the removal list into a new backup folder and prints where
// it went.
func (r *scriptRun) backup(report *engine.Report) (*backup.Result, error) {
	out := r.app.stdout
	if len(report.FilesToRemove) == 0 {
		fmt.Fprintf(out, "%s No files to remove\n", SubtitleStyle.Render("•"))
		return nil, nil
	}

	w := &backup.Writer{BaseOutput: r.outputDir, Now: r.app.Now, Logger: r.logger}
	res, err := w.Backup(report.FilesToRemove, r.template)
	if err != nil {
		return nil, newServiceError(issue.NewErrorContext().
			WithOperation("write backup").
			WithResource(r.outputDir).
			WithSuggestion("Check that the output folder is writable").
			Wrap(err).
			BuildError(), issue.OutputDirNotFoundId)
	}

	fmt.Fprintf(out, "%s Moved %d files to %s\n",
		SuccessStyle.Render("✓"), len(res.Restored), CmdStyle.Render(res.Dir))
	for _, f := range res.Failures {
		fmt.Fprintf(out, "%s Could not move %s: %v\n", WarningStyle.Render("!"), f.Path, f.Err)
	}
	fmt.Fprintf(out, "%s Summary: %s\n", SubtitleStyle.Render("•"), renderPath(res.Summary, r.app.flags.plain))
	fmt.Fprintf(out, "%s Undo with: %s\n", SubtitleStyle.Render("•"),
		CmdStyle.Render(fmt.Sprintf("cleanitol undo %q", res.Dir)))
	return res, nil
}

// reportProgress logs scan progress at debug level until the returned stop
// function is called.
func (r *scriptRun) reportProgress(ctx context.Context, b *catalog.Builder) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Go(func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := b.Progress().Snapshot()
				r.logger.Debug("scanning", "files", s.FilesScanned, "total", s.FilesTotal, "tgis", s.TGIsFound)
			}
		}
	})
	return func() {
		cancel()
		wg.Wait()
	}
}

// renderPath shows path as a file:// hyperlink unless output is plain.
func renderPath(path string, plain bool) string {
	if plain {
		return path
	}
	return hyperlink(CmdStyle.Render(path), "file://"+filepathToURL(path))
}
