// Package pipeline runs one sheet request end to end: decode, optional AI
// retouch, crop, pack and render.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/DocPhoto/internal/engine"
	"github.com/piwi3910/DocPhoto/internal/export"
	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/photo"
)

// RetouchPolicy decides what a failed AI retouch does to the request.
type RetouchPolicy int

const (
	// RetouchRequired fails the request when the retouch fails.
	RetouchRequired RetouchPolicy = iota
	// RetouchOptional logs the failure and continues with the original photo.
	RetouchOptional
)

// Retoucher edits a decoded photo. *retouch.Service implements it.
type Retoucher interface {
	Retouch(ctx context.Context, img image.Image, prompt string, bg model.Background) (image.Image, error)
}

// Pipeline holds everything a run needs besides the request itself.
// It keeps no per-run state, so one Pipeline may serve concurrent runs.
type Pipeline struct {
	Settings  model.LayoutSettings
	Retoucher Retoucher      // Nil disables retouching
	Anchorer  photo.Anchorer // Nil centres the crop
	Policy    RetouchPolicy
	Logger    *log.Logger
}

// New creates a pipeline with centre anchoring and no retoucher.
func New(settings model.LayoutSettings, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{Settings: settings, Logger: logger}
}

// Stats records how long each stage of a run took.
type Stats struct {
	RetouchTime time.Duration
	CropTime    time.Duration
	RenderTime  time.Duration
	Retouched   bool
}

// Layout packs the job's photo size onto its oriented sheet. It is the dry
// run of Run: no image is touched.
func (p *Pipeline) Layout(job model.Job) model.Grid {
	return engine.New(p.Settings).PackOriented(job.Sheet.Size, job.Orientation, job.Photo.Size)
}

// Run reads an image from src and produces the sheet for job.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, job model.Job) (export.Result, error) {
	if err := p.validate(job); err != nil {
		return export.Result{}, err
	}

	start := time.Now()
	img, format, err := photo.Decode(ctx, src)
	if err != nil {
		return export.Result{}, err
	}
	p.logger().Debug("decoded photo", "job", job.ID, "format", format,
		"size", fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()), "duration", time.Since(start))

	res, _, err := p.render(ctx, img, job)
	return res, err
}

// RunImage is Run for an already decoded photo.
func (p *Pipeline) RunImage(ctx context.Context, img image.Image, job model.Job) (export.Result, Stats, error) {
	if err := p.validate(job); err != nil {
		return export.Result{}, Stats{}, err
	}
	return p.render(ctx, img, job)
}

// Prepare turns a decoded photo into the cropped working photo of job,
// retouching it first when the job asks for it.
func (p *Pipeline) Prepare(ctx context.Context, img image.Image, job model.Job) (*image.NRGBA, Stats, error) {
	var stats Stats
	if job.Retouch {
		start := time.Now()
		edited, err := p.retouch(ctx, img, job)
		stats.RetouchTime = time.Since(start)
		if err != nil {
			return nil, stats, err
		}
		if edited != nil {
			img = edited
			stats.Retouched = true
		}
	}

	start := time.Now()
	cropped, err := photo.ResizeAndCrop(ctx, img, job.Photo.Size, p.Settings, p.Anchorer)
	stats.CropTime = time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return nil, stats, ctx.Err()
		}
		return nil, stats, fmt.Errorf("crop: %w", err)
	}
	return cropped, stats, nil
}

func (p *Pipeline) render(ctx context.Context, img image.Image, job model.Job) (export.Result, Stats, error) {
	cropped, stats, err := p.Prepare(ctx, img, job)
	if err != nil {
		return export.Result{}, stats, err
	}

	grid := p.Layout(job)
	if grid.Empty() {
		p.logger().Warn("photo does not fit on sheet",
			"job", job.ID, "photo", job.Photo.Size, "sheet", job.SheetLayout(), "margin", p.Settings.MarginMM)
	}

	start := time.Now()
	res, err := export.Render(ctx, cropped, grid, job.Orientation, job.Format, p.Settings,
		export.WithJobTag(export.NewJobTag(job, grid)))
	stats.RenderTime = time.Since(start)
	if err != nil {
		return export.Result{}, stats, err
	}

	p.logger().Info("rendered sheet",
		"job", job.ID,
		"format", res.Format,
		"copies", res.Cells,
		"grid", fmt.Sprintf("%dx%d", grid.Cols, grid.Rows),
		"bytes", len(res.Data),
		"retouched", stats.Retouched,
		"duration", (stats.RetouchTime + stats.CropTime + stats.RenderTime).Round(time.Millisecond))
	return res, stats, nil
}

// retouch applies the policy around the retoucher. A nil image with a nil
// error means the original photo is kept.
func (p *Pipeline) retouch(ctx context.Context, img image.Image, job model.Job) (image.Image, error) {
	if p.Retoucher == nil {
		if p.Policy == RetouchOptional {
			p.logger().Warn("retouch requested but no AI editor is configured; keeping original", "job", job.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("%w: retouch requested but no AI editor is configured", ErrInvalidInput)
	}

	edited, err := p.Retoucher.Retouch(ctx, img, job.EffectivePrompt(), job.Background)
	if err == nil {
		return edited, nil
	}
	if ctx.Err() == nil && p.Policy == RetouchOptional && errors.Is(err, ErrRemote) {
		p.logger().Warn("retouch failed; keeping original", "job", job.ID, "err", err)
		return nil, nil
	}
	return nil, err
}

func (p *Pipeline) validate(job model.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := p.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: settings: %v", ErrInvalidInput, err)
	}
	return nil
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}
