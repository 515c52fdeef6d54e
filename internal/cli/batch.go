package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/importer"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

type batchOpts struct {
	jobFlags
	layoutFlags
	outDir      string
	concurrency int
	dryRun      bool
}

// batchCommand renders every row of a CSV or Excel manifest.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <manifest.csv|manifest.xlsx>",
		Short: "Render sheets for every photo listed in a CSV or Excel manifest",
		Long: `Each manifest row names a photo file and may override the photo size,
sheet, orientation, format, output file and retouch settings. Flags set the
defaults for columns a row leaves empty. Relative paths resolve against the
manifest's directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args[0], &opts)
		},
	}

	opts.jobFlags.register(cmd, true)
	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "directory for sheets without an explicit output")
	cmd.Flags().IntVarP(&opts.concurrency, "jobs", "j", 0, "sheets rendered in parallel (default: number of CPUs)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "check the manifest without rendering")
	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, manifest string, opts *batchOpts) error {
	ctx := cmd.Context()

	defaults, err := opts.job(c.Config)
	if err != nil {
		return err
	}
	settings, err := c.settings(&opts.layoutFlags, cmd)
	if err != nil {
		return err
	}

	res := importer.Import(manifest, importer.Options{Defaults: defaults, OutDir: opts.outDir})
	for _, w := range res.Warnings {
		c.Logger.Warn(w)
	}
	for _, e := range res.Errors {
		c.Logger.Error(e)
	}
	if len(res.Items) == 0 {
		return fmt.Errorf("%w: no usable rows in %s", pipeline.ErrInvalidInput, manifest)
	}
	c.Logger.Info("Loaded manifest", "items", len(res.Items), "skipped", len(res.Errors))

	if opts.dryRun {
		for _, item := range res.Items {
			fmt.Fprintf(c.Out, "%d\t%s\t%s on %s %s\t%s\n", item.Row, item.Source,
				item.Job.Photo.Label, item.Job.Sheet.Label, item.Job.Orientation, item.Output)
		}
		return nil
	}

	retouchAny := false
	for _, item := range res.Items {
		retouchAny = retouchAny || item.Job.Retouch
	}
	p, err := c.newPipeline(ctx, settings, opts.anchor, retouchAny, opts.optional)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	results, err := p.RunBatch(ctx, res.Items, opts.concurrency)
	if err != nil {
		return err
	}

	copies := 0
	for _, r := range results {
		copies += r.Copies
	}
	failed := pipeline.Failed(results)
	prog.done(fmt.Sprintf("Rendered %d of %d sheets, %d copies", len(results)-len(failed), len(results), copies))

	if len(failed) > 0 {
		errs := make([]error, 0, len(failed))
		for _, r := range failed {
			errs = append(errs, fmt.Errorf("row %d (%s): %w", r.Item.Row, r.Item.Source, r.Err))
		}
		return fmt.Errorf("%d sheet(s) failed: %w", len(failed), errors.Join(errs...))
	}
	return nil
}
