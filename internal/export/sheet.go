// Package export renders a packed grid of photo copies into a printable
// sheet, either a flat raster image or a paginated PDF, plus the PDF
// layout report.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// ErrRender is returned when a sheet cannot be produced.
var ErrRender = errors.New("render sheet")

// Result is an encoded sheet.
type Result struct {
	Format   model.ExportFormat
	MIMEType string
	Data     []byte
	Cells    int // Copies placed on the sheet
}

// Filename returns the download name for the sheet of job.
func (r Result) Filename(job model.Job) string {
	job.Format = r.Format
	return job.Filename()
}

// WriteTo writes the encoded sheet to w.
func (r Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Data)
	return int64(n), err
}

// Option customises a render.
type Option func(*renderOptions)

type renderOptions struct {
	jobTag *JobTag
}

// WithJobTag adds a QR job tag to paginated output when settings.JobTag is
// on. Raster output ignores it.
func WithJobTag(tag JobTag) Option {
	return func(o *renderOptions) {
		o.jobTag = &tag
	}
}

// Render produces the sheet for grid in the requested format. grid must
// already be oriented; orientation is only used to declare the PDF page.
// The photo is the cropped working photo and is scaled into every cell.
func Render(ctx context.Context, photo image.Image, grid model.Grid, orientation model.Orientation, format model.ExportFormat, settings model.LayoutSettings, opts ...Option) (Result, error) {
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if photo == nil {
		return Result{}, fmt.Errorf("%w: no photo", ErrRender)
	}

	var (
		data []byte
		err  error
	)
	switch format.Target() {
	case model.TargetPaginated:
		var tag *JobTag
		if settings.JobTag {
			tag = o.jobTag
		}
		data, err = RenderPDF(ctx, photo, grid, orientation, tag)
	default:
		data, err = RenderRaster(ctx, photo, grid, format, settings)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %s: %v", ErrRender, format, err)
	}

	return Result{
		Format:   format,
		MIMEType: format.MIMEType(),
		Data:     data,
		Cells:    len(grid.Cells),
	}, nil
}
