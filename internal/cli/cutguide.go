package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/cutguide"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

const (
	guideDXF   = "dxf"
	guideGCode = "gcode"
)

type cutguideOpts struct {
	jobFlags
	layoutFlags
	kind    string
	profile string
	output  string
}

// cutguideCommand exports the cell outlines of a layout for a cutting
// plotter (G-code) or a CAD program (DXF).
func (c *CLI) cutguideCommand() *cobra.Command {
	opts := cutguideOpts{kind: guideGCode}

	cmd := &cobra.Command{
		Use:   "cutguide",
		Short: "Export the photo outlines of a sheet as G-code or DXF",
		Example: `  docphoto cutguide -p 3x4 -s A6 -o a6.gcode
  docphoto cutguide -p 35x45 -s A4 --type dxf -o a4.dxf
  docphoto cutguide -p 3x4 -s A6 --profile "GRBL Servo"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCutguide(cmd, &opts)
		},
	}

	opts.jobFlags.register(cmd, false)
	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVar(&opts.kind, "type", opts.kind, "output type: gcode or dxf")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "plotter profile (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <job>.gcode or <job>.dxf)")
	return cmd
}

func (c *CLI) runCutguide(cmd *cobra.Command, opts *cutguideOpts) error {
	kind := strings.ToLower(opts.kind)
	if kind != guideGCode && kind != guideDXF {
		return fmt.Errorf("%w: unknown cut guide type %q (must be 'gcode' or 'dxf')", pipeline.ErrInvalidInput, opts.kind)
	}

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
		return fmt.Errorf("%w: %s does not fit on %s %s", pipeline.ErrInvalidInput, job.Photo.Label, job.Sheet.Label, job.Orientation)
	}

	out := opts.output
	if out == "" {
		name := job.Filename()
		out = strings.TrimSuffix(name, "."+job.Format.Ext()) + "." + kind
	}

	if kind == guideDXF {
		if err := cutguide.ExportDXF(out, grid); err != nil {
			return err
		}
	} else {
		gs := c.Config.CutGuide
		if opts.profile != "" {
			gs.Profile = opts.profile
		}
		gen := cutguide.New(gs)
		if gen.Profile().Name != gs.Profile {
			c.Logger.Warn("unknown plotter profile, using fallback", "profile", gs.Profile, "using", gen.Profile().Name)
		}
		label := fmt.Sprintf("%s on %s %s", job.Photo.Label, job.Sheet.Label, job.Orientation)
		if err := writeFile(out, []byte(gen.Generate(grid, label))); err != nil {
			return err
		}
	}

	c.Logger.Info("Wrote cut guide", "path", out, "cells", len(grid.Cells))
	return nil
}
