package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/export"
	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

type layoutOpts struct {
	jobFlags
	layoutFlags
	json   bool
	report string
}

// layoutCommand packs a photo size onto a sheet without touching an image.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show how many photos fit on a sheet",
		Example: `  docphoto layout -p 3x4 -s A6
  docphoto layout -p 35x45 -s A4 --orientation landscape --json
  docphoto layout -p 2x2in -s letter --report layout.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, &opts)
		},
	}

	opts.jobFlags.register(cmd, false)
	opts.layoutFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the grid as JSON")
	cmd.Flags().StringVar(&opts.report, "report", "", "also write a PDF layout report to this file")
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, opts *layoutOpts) error {
	job, err := opts.job(c.Config)
	if err != nil {
		return err
	}
	settings, err := c.settings(&opts.layoutFlags, cmd)
	if err != nil {
		return err
	}

	grid := pipeline.New(settings, c.Logger).Layout(job)
	if grid.Empty() {
		c.Logger.Warn("photo does not fit on sheet", "photo", job.Photo.Size, "sheet", job.SheetLayout())
	}

	if opts.report != "" {
		if err := export.ExportLayoutReport(opts.report, job, grid, settings); err != nil {
			return err
		}
		c.Logger.Info("Wrote layout report", "path", opts.report)
	}

	if opts.json {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	}
	return printGrid(c.Out, job, grid)
}

func printGrid(w io.Writer, job model.Job, grid model.Grid) error {
	if _, err := fmt.Fprintf(w, "%s (%s) on %s %s (%s)\n",
		job.Photo.Label, job.Photo.Size, job.Sheet.Label, job.Orientation, grid.Sheet); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d copies: %d columns x %d rows, %.1f%% of the sheet\n",
		len(grid.Cells), grid.Cols, grid.Rows, grid.Efficiency()); err != nil {
		return err
	}
	for i, cell := range grid.Cells {
		if _, err := fmt.Fprintf(w, "  %2d  x=%6.1f  y=%6.1f  %.1f x %.1f mm\n",
			i+1, cell.X, cell.Y, cell.Width, cell.Height); err != nil {
			return err
		}
	}
	return nil
}
