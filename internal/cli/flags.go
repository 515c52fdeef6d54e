package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
)

// jobFlags select the presets of a job. Empty values keep the config defaults.
type jobFlags struct {
	photo       string
	sheet       string
	orientation string
	format      string
	retouch     bool
	optional    bool
	prompt      string
	background  string
}

func (f *jobFlags) register(cmd *cobra.Command, withRetouch bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.photo, "photo", "p", "", "photo size preset or WxH in mm (default from config)")
	fs.StringVarP(&f.sheet, "sheet", "s", "", "sheet size preset or WxH in mm (default from config)")
	fs.StringVar(&f.orientation, "orientation", "", "sheet orientation: portrait or landscape")
	fs.StringVarP(&f.format, "format", "f", "", "output format: jpg, png or pdf")
	if !withRetouch {
		return
	}
	fs.BoolVar(&f.retouch, "retouch", false, "retouch the photo with the AI editor first")
	fs.BoolVar(&f.optional, "retouch-optional", false, "keep the original photo when the AI editor fails")
	fs.StringVar(&f.prompt, "prompt", "", "instructions for the AI editor (implies --retouch)")
	fs.StringVar(&f.background, "background", "", "background colour name or #RRGGBB for the AI editor")
}

// job builds the job from config defaults and the flags.
func (f *jobFlags) job(cfg model.AppConfig) (model.Job, error) {
	job, err := model.JobOptions{
		Photo:       f.photo,
		Sheet:       f.sheet,
		Orientation: f.orientation,
		Format:      f.format,
		Retouch:     f.retouch,
		Prompt:      f.prompt,
		Background:  f.background,
	}.Apply(cfg.NewJob())
	if err != nil {
		return job, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err)
	}
	return job, nil
}

// layoutFlags override the [layout] config section.
type layoutFlags struct {
	margin  float64
	spacing float64
	dpi     float64
	quality int
	anchor  string
	jobTag  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.margin, "margin", 0, "sheet margin in mm")
	fs.Float64Var(&f.spacing, "spacing", 0, "gap between photos in mm")
	fs.Float64Var(&f.dpi, "dpi", 0, "raster resolution")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality (1-100)")
	fs.StringVar(&f.anchor, "anchor", "", "crop anchor: center, face or smart")
	fs.BoolVar(&f.jobTag, "job-tag", false, "print a QR job tag in the PDF margin")
}

// apply copies the flags the user actually set.
func (f *layoutFlags) apply(cmd *cobra.Command, s *model.LayoutSettings) {
	fs := cmd.Flags()
	if fs.Changed("margin") {
		s.MarginMM = f.margin
	}
	if fs.Changed("spacing") {
		s.SpacingMM = f.spacing
	}
	if fs.Changed("dpi") {
		s.DPI = f.dpi
	}
	if fs.Changed("quality") {
		s.JPEGQuality = f.quality
	}
	if fs.Changed("job-tag") {
		s.JobTag = f.jobTag
	}
}

// outputFor returns output, or the job's suggested file name next to src.
func outputFor(output, src string, job model.Job) string {
	if output != "" {
		return output
	}
	dir := "."
	if src != "" {
		dir = filepath.Dir(src)
	}
	return filepath.Join(dir, job.Filename())
}
