package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/photo"
)

type sheetOpts struct {
	jobFlags
	layoutFlags
	output string
}

// sheetCommand renders one photo onto a printable sheet.
func (c *CLI) sheetCommand() *cobra.Command {
	var opts sheetOpts

	cmd := &cobra.Command{
		Use:   "sheet <photo>",
		Short: "Render a sheet of document photos from a portrait",
		Example: `  docphoto sheet me.jpg
  docphoto sheet me.jpg -p "3.5x4.5" -s A4 --orientation landscape -f pdf -o sheet.pdf
  docphoto sheet me.jpg --retouch --background blue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSheet(cmd, args[0], &opts)
		},
	}

	opts.jobFlags.register(cmd, true)
	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: suggested name next to the photo)")
	return cmd
}

func (c *CLI) runSheet(cmd *cobra.Command, src string, opts *sheetOpts) error {
	ctx := cmd.Context()
	inferFormat(&opts.jobFlags, opts.output)

	job, err := opts.job(c.Config)
	if err != nil {
		return err
	}
	settings, err := c.settings(&opts.layoutFlags, cmd)
	if err != nil {
		return err
	}
	p, err := c.newPipeline(ctx, settings, opts.anchor, job.Retouch, opts.optional)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	prog := newProgress(c.Logger)
	res, err := p.Run(ctx, f, job)
	if err != nil {
		return err
	}

	out := outputFor(opts.output, src, job)
	if err := writeFile(out, res.Data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d copies of %s to %s", res.Cells, job.Photo.Label, out))
	return nil
}

type cropOpts struct {
	jobFlags
	layoutFlags
	output string
}

// cropCommand writes only the cropped working photo, as PNG.
func (c *CLI) cropCommand() *cobra.Command {
	var opts cropOpts

	cmd := &cobra.Command{
		Use:   "crop <photo>",
		Short: "Crop a portrait to a document-photo aspect ratio (PNG)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCrop(cmd.Context(), cmd, args[0], &opts)
		},
	}

	opts.jobFlags.register(cmd, true)
	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <photo>_<size>.png)")
	return cmd
}

func (c *CLI) runCrop(ctx context.Context, cmd *cobra.Command, src string, opts *cropOpts) error {
	job, err := opts.job(c.Config)
	if err != nil {
		return err
	}
	settings, err := c.settings(&opts.layoutFlags, cmd)
	if err != nil {
		return err
	}
	p, err := c.newPipeline(ctx, settings, opts.anchor, job.Retouch, opts.optional)
	if err != nil {
		return err
	}

	img, err := decodeFile(ctx, src)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	cropped, stats, err := p.Prepare(ctx, img, job)
	if err != nil {
		return err
	}
	data, err := photo.EncodePNG(cropped)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		base := strings.TrimSuffix(src, filepath.Ext(src))
		out = fmt.Sprintf("%s_%s.png", base, strings.ReplaceAll(job.Photo.Label, " ", ""))
	}
	if err := writeFile(out, data); err != nil {
		return err
	}
	b := cropped.Bounds()
	c.Logger.Debug("cropped photo", "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "retouched", stats.Retouched)
	prog.done("Wrote " + out)
	return nil
}

// inferFormat takes the format from the output extension when no format
// flag was given.
func inferFormat(f *jobFlags, output string) {
	if f.format != "" || output == "" {
		return
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if _, err := model.ParseExportFormat(ext); err == nil {
		f.format = ext
	}
}

func decodeFile(ctx context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := photo.Decode(ctx, f)
	return img, err
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
