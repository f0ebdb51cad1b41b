package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bundledeps/internal/config"
	"github.com/matzehuels/bundledeps/pkg/errors"
	"github.com/matzehuels/bundledeps/pkg/pipeline"
)

// runFlags are shared by every command that executes the pipeline.
type runFlags struct {
	noCache bool
	refresh bool
	runtime []string
	workers int
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the dependency cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "rebuild cached dependencies")
	cmd.Flags().StringSliceVar(&f.runtime, "runtime", nil, "runtime names for usage analysis (overrides the manifest)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "concurrent module validations (0 = number of CPUs)")
}

// applyConfig fills flags the user did not set from the [check] section.
func (f *runFlags) applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("runtime") && len(cfg.Check.Runtime) > 0 {
		f.runtime = cfg.Check.Runtime
	}
	if !cmd.Flags().Changed("workers") {
		f.workers = cfg.Check.Workers
	}
}

// runPipeline executes the pipeline for the manifest at path.
func (c *CLI) runPipeline(ctx context.Context, path string, f runFlags) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	return runner.Execute(ctx, pipeline.Options{
		ManifestPath: path,
		Runtime:      f.runtime,
		Workers:      f.workers,
		Refresh:      f.refresh,
		Logger:       c.Logger,
	})
}

func (c *CLI) checkCommand() *cobra.Command {
	var (
		f      runFlags
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Validate every dependency of a build manifest",
		Long: `Check builds the module graph of a manifest and validates each dependency
against the module it resolves to.

Diagnostics are printed per module. With --strict (or check.strict in the
config file) the command fails when any diagnostic is found.`,
		Example: `  bundledeps check bundle.toml
  bundledeps check bundle.toml --strict --runtime main,worker
  bundledeps check bundle.toml --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.applyConfig(cmd, c.Config)
			if !cmd.Flags().Changed("strict") {
				strict = c.Config.Check.Strict
			}
			return c.runCheck(cmd.Context(), args[0], f, strict)
		},
	}

	addRunFlags(cmd, &f)
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when diagnostics are found")
	return cmd
}

func (c *CLI) runCheck(ctx context.Context, path string, f runFlags, strict bool) error {
	prog := newProgress(c.Logger)
	res, err := c.runPipeline(ctx, path, f)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %d modules", res.Stats.Modules))

	printCheckResult(res)

	if strict && !res.Report.OK() {
		return errors.New(errors.ErrCodeValidationFailed, "%d diagnostics in %s", res.Report.Count(), path)
	}
	return nil
}

func printCheckResult(res *pipeline.Result) {
	fmt.Fprintln(stdout, StyleTitle.Render(res.Manifest.Name))

	for _, dep := range res.Unresolved {
		from := "?"
		if m, ok := res.Graph.Origin(dep); ok {
			from = m.Identifier()
		}
		printWarning("%s: unresolved %s %q", from, dep.Type(), dep.Request())
	}

	for _, m := range res.Report.Modules {
		if len(m.Diagnostics) == 0 {
			continue
		}
		printError("%s", m.Module)
		for _, d := range m.Diagnostics {
			printDetail("%s", d)
		}
	}

	printNewline()
	if res.Report.OK() {
		printSuccess("%d dependencies checked, no problems found", res.Report.Checked())
	} else {
		printError("%d problems in %d dependencies", res.Report.Count(), res.Report.Checked())
	}
	printStats(res.Stats.Modules, res.Stats.Dependencies, res.CacheInfo.Hits, res.CacheInfo.Misses)
}
