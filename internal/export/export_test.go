package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/piwi3910/DocPhoto/internal/engine"
	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	photoRed = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
	sheetA6  = model.PhysicalSize{Width: 105, Height: 148}
	photo3x4 = model.PhysicalSize{Width: 30, Height: 40}
)

func solidPhoto(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func packA6(o model.Orientation) model.Grid {
	return engine.New(model.DefaultLayoutSettings()).PackOriented(sheetA6, o, photo3x4)
}

// readPDF parses b with pdfcpu and returns the page count and first page size in points.
func readPDF(t *testing.T, b []byte) (int, float64, float64) {
	t.Helper()
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(b), pdfmodel.NewDefaultConfiguration())
	require.NoError(t, err)
	require.NoError(t, ctx.EnsurePageCount())

	_, _, inh, err := ctx.PageDict(1, false)
	require.NoError(t, err)
	require.NotNil(t, inh.MediaBox)
	return ctx.PageCount, inh.MediaBox.Width(), inh.MediaBox.Height()
}

func mmToPt(mm float64) float64 { return mm / 25.4 * 72 }

func TestDrawRaster_CanvasSize(t *testing.T) {
	canvas, err := DrawRaster(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationPortrait), model.DefaultLayoutSettings())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1240, 1748), canvas.Bounds())
}

func TestDrawRaster_CellPixels(t *testing.T) {
	settings := model.DefaultLayoutSettings()
	canvas, err := DrawRaster(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationPortrait), settings)
	require.NoError(t, err)

	// First cell starts at round(10mm) = 118 px and is floor(30mm) = 354 px wide.
	assert.Equal(t, settings.GuideColor, canvas.NRGBAAt(118, 118), "guide border at cell origin")
	assert.Equal(t, settings.GuideColor, canvas.NRGBAAt(118+353, 118+200), "guide border at right edge")

	inside := canvas.NRGBAAt(118+150, 118+200)
	assert.InDelta(t, int(photoRed.R), int(inside.R), 2)
	assert.InDelta(t, int(photoRed.G), int(inside.G), 2)
	assert.InDelta(t, int(photoRed.B), int(inside.B), 2)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, white, canvas.NRGBAAt(5, 5), "margin stays white")
	assert.Equal(t, white, canvas.NRGBAAt(484, 300), "gap between columns stays white")
	assert.Equal(t, white, canvas.NRGBAAt(1000, 300), "right margin stays white")
}

func TestRaster_PositionsMatchPaginatedByDPIFactor(t *testing.T) {
	settings := model.DefaultLayoutSettings()
	grid := packA6(model.OrientationLandscape)
	px := grid.Scaled(model.PxPerMM(settings.DPI))

	for i, c := range grid.Cells {
		x := model.MMToPxRound(c.X, settings.DPI)
		y := model.MMToPxRound(c.Y, settings.DPI)
		assert.LessOrEqual(t, math.Abs(float64(x)-px.Cells[i].X), 1.0)
		assert.LessOrEqual(t, math.Abs(float64(y)-px.Cells[i].Y), 1.0)
	}
}

func TestRenderRaster_EmptyGridStillRenders(t *testing.T) {
	grid := engine.Pack(sheetA6, model.PhysicalSize{Width: 90, Height: 120}, model.DefaultLayoutSettings())
	require.True(t, grid.Empty())

	data, err := RenderRaster(context.Background(), solidPhoto(10, 10, photoRed), grid, model.FormatPNG, model.DefaultLayoutSettings())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1240, img.Bounds().Dx())
	r, g, b, _ := img.At(620, 874).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestRender_JPEG(t *testing.T) {
	res, err := Render(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationPortrait),
		model.OrientationPortrait, model.FormatJPG, model.DefaultLayoutSettings())
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", res.MIMEType)
	assert.Equal(t, 6, res.Cells)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1240, cfg.Width)
	assert.Equal(t, 1748, cfg.Height)
}

func TestRender_PNGLandscape(t *testing.T) {
	res, err := Render(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationLandscape),
		model.OrientationLandscape, model.FormatPNG, model.DefaultLayoutSettings())
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.MIMEType)
	assert.Equal(t, 8, res.Cells)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 1748, cfg.Width)
	assert.Equal(t, 1240, cfg.Height)
}

func TestRender_PDFPortrait(t *testing.T) {
	res, err := Render(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationPortrait),
		model.OrientationPortrait, model.FormatPDF, model.DefaultLayoutSettings())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.MIMEType)

	pages, w, h := readPDF(t, res.Data)
	assert.Equal(t, 1, pages)
	assert.InDelta(t, mmToPt(105), w, 0.1)
	assert.InDelta(t, mmToPt(148), h, 0.1)
}

func TestRender_PDFLandscapePageIsSwapped(t *testing.T) {
	res, err := Render(context.Background(), solidPhoto(300, 400, photoRed), packA6(model.OrientationLandscape),
		model.OrientationLandscape, model.FormatPDF, model.DefaultLayoutSettings())
	require.NoError(t, err)

	pages, w, h := readPDF(t, res.Data)
	assert.Equal(t, 1, pages)
	assert.InDelta(t, mmToPt(148), w, 0.1)
	assert.InDelta(t, mmToPt(105), h, 0.1)
}

func TestRender_PDFEmptyGridIsOneBlankPage(t *testing.T) {
	grid := engine.Pack(sheetA6, model.PhysicalSize{Width: 200, Height: 200}, model.DefaultLayoutSettings())
	res, err := Render(context.Background(), solidPhoto(10, 10, photoRed), grid, model.OrientationPortrait, model.FormatPDF, model.DefaultLayoutSettings())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Cells)

	pages, _, _ := readPDF(t, res.Data)
	assert.Equal(t, 1, pages)
}

func TestRender_PDFJobTag(t *testing.T) {
	grid := packA6(model.OrientationPortrait)
	job := model.NewJob()
	job.Sheet, _ = model.LookupSheetSize("A6")
	tag := NewJobTag(job, grid)
	assert.Equal(t, 6, tag.Copies)
	assert.Equal(t, job.ID, tag.JobID)

	settings := model.DefaultLayoutSettings()
	plain, err := Render(context.Background(), solidPhoto(30, 40, photoRed), grid, model.OrientationPortrait, model.FormatPDF, settings, WithJobTag(tag))
	require.NoError(t, err)

	settings.JobTag = true
	tagged, err := Render(context.Background(), solidPhoto(30, 40, photoRed), grid, model.OrientationPortrait, model.FormatPDF, settings, WithJobTag(tag))
	require.NoError(t, err)

	assert.Greater(t, len(tagged.Data), len(plain.Data), "tagged sheet should embed the QR image")
	pages, _, _ := readPDF(t, tagged.Data)
	assert.Equal(t, 1, pages)
}

func TestJobTagFits(t *testing.T) {
	assert.True(t, jobTagFits(packA6(model.OrientationPortrait)), "14 mm band below the last row")

	full := model.Grid{
		Sheet: sheetA6,
		Cells: []model.Cell{{X: 0, Y: 0, Width: 105, Height: 140}},
	}
	assert.False(t, jobTagFits(full))
}

func TestRender_Errors(t *testing.T) {
	grid := packA6(model.OrientationPortrait)
	settings := model.DefaultLayoutSettings()

	_, err := Render(context.Background(), nil, grid, model.OrientationPortrait, model.FormatJPG, settings)
	assert.ErrorIs(t, err, ErrRender)

	_, err = Render(context.Background(), solidPhoto(3, 4, photoRed), grid, model.OrientationPortrait, "GIF", settings)
	assert.ErrorIs(t, err, ErrRender)

	settings.DPI = 0
	_, err = Render(context.Background(), solidPhoto(3, 4, photoRed), grid, model.OrientationPortrait, model.FormatPNG, settings)
	assert.ErrorIs(t, err, ErrRender)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, solidPhoto(3, 4, photoRed), packA6(model.OrientationPortrait), model.OrientationPortrait, model.FormatPNG, model.DefaultLayoutSettings())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrRender)
}

func TestResultFilename(t *testing.T) {
	job := model.NewJob()
	job.Sheet, _ = model.LookupSheetSize("A5")
	res := Result{Format: model.FormatPNG}
	assert.Equal(t, "DocPhoto_3x4_A5_portrait.png", res.Filename(job))

	var buf bytes.Buffer
	n, err := Result{Data: []byte("abc")}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestWriteLayoutReport(t *testing.T) {
	job := model.NewJob()
	grid := engine.Pack(job.SheetLayout(), job.Photo.Size, model.DefaultLayoutSettings())

	var buf bytes.Buffer
	require.NoError(t, WriteLayoutReport(&buf, job, grid, model.DefaultLayoutSettings()))

	pages, w, h := readPDF(t, buf.Bytes())
	assert.Equal(t, 1, pages)
	assert.Greater(t, w, h, "report page is landscape")
}

func TestExportLayoutReport_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.pdf")
	job := model.NewJob()
	grid := engine.Pack(sheetA6, model.PhysicalSize{Width: 200, Height: 200}, model.DefaultLayoutSettings())

	require.NoError(t, ExportLayoutReport(path, job, grid, model.DefaultLayoutSettings()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
