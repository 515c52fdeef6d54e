package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/piwi3910/DocPhoto/internal/model"
	xdraw "golang.org/x/image/draw"
)

// RenderRaster draws the grid onto a white canvas at settings.DPI and
// encodes it as JPEG or PNG. Each cell gets a copy of the photo scaled to
// the cell's pixel size and a 1 px guide border. Cells are drawn in
// row-major order, so on overlap the later cell wins.
func RenderRaster(ctx context.Context, photo image.Image, grid model.Grid, format model.ExportFormat, settings model.LayoutSettings) ([]byte, error) {
	canvas, err := DrawRaster(ctx, photo, grid, settings)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case model.FormatPNG:
		err = imaging.Encode(&buf, canvas, imaging.PNG)
	case model.FormatJPG, "":
		err = imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(settings.JPEGQuality))
	default:
		return nil, fmt.Errorf("unsupported raster format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// DrawRaster returns the unencoded sheet canvas.
func DrawRaster(ctx context.Context, photo image.Image, grid model.Grid, settings model.LayoutSettings) (*image.NRGBA, error) {
	if settings.DPI <= 0 {
		return nil, fmt.Errorf("dpi must be > 0, got %.2f", settings.DPI)
	}
	dpi := settings.DPI

	w := model.MMToPxFloor(grid.Sheet.Width, dpi)
	h := model.MMToPxFloor(grid.Sheet.Height, dpi)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sheet %v is empty at %.0f dpi", grid.Sheet, dpi)
	}
	canvas := imaging.New(w, h, color.White)
	if grid.Empty() {
		return canvas, nil
	}

	// All cells share one size, so the photo is resampled once.
	cw := model.MMToPxFloor(grid.Cells[0].Width, dpi)
	ch := model.MMToPxFloor(grid.Cells[0].Height, dpi)
	if cw <= 0 || ch <= 0 {
		return canvas, nil
	}
	tile := image.NewNRGBA(image.Rect(0, 0, cw, ch))
	xdraw.CatmullRom.Scale(tile, tile.Bounds(), photo, photo.Bounds(), xdraw.Src, nil)

	rowLen := grid.Cols
	if rowLen < 1 {
		rowLen = 1
	}
	for i, c := range grid.Cells {
		if i%rowLen == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		x := model.MMToPxRound(c.X, dpi)
		y := model.MMToPxRound(c.Y, dpi)
		r := image.Rect(x, y, x+cw, y+ch)

		draw.Draw(canvas, r, tile, image.Point{}, draw.Over)
		strokeRect(canvas, r, settings.GuideColor)
	}
	return canvas, nil
}

// strokeRect draws a 1 px border on the inside edge of r.
func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}
