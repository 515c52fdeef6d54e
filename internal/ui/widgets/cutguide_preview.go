package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/DocPhoto/internal/cutguide"
	"github.com/piwi3910/DocPhoto/internal/model"
)

// Toolpath colors for different move types.
var (
	colorRapid  = color.NRGBA{R: 255, G: 60, B: 60, A: 200}   // Red for blade-up travel
	colorCut    = color.NRGBA{R: 30, G: 120, B: 255, A: 230}  // Blue for cuts
	colorOrigin = color.NRGBA{R: 50, G: 200, B: 50, A: 220}   // Green for the machine origin
	colorCell   = color.NRGBA{R: 200, G: 220, B: 255, A: 120} // Light blue for photo outlines
)

// previewPad leaves room around the sheet for the origin marker and overcuts.
const previewPad float32 = 10

// CutGuidePreview renders the trim toolpath of a sheet over its cell
// outlines. Machine coordinates (Y up) are flipped to screen coordinates.
type CutGuidePreview struct {
	widget.BaseWidget
	grid      model.Grid
	moves     []cutguide.Move
	settings  model.CutGuideSettings
	maxWidth  float32
	maxHeight float32
}

// NewCutGuidePreview creates a preview of the toolpath for grid.
func NewCutGuidePreview(grid model.Grid, settings model.CutGuideSettings, maxW, maxH float32) *CutGuidePreview {
	gp := &CutGuidePreview{
		grid:      grid,
		moves:     cutguide.Toolpath(grid, settings),
		settings:  settings,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

// CreateRenderer implements fyne.Widget.
func (gp *CutGuidePreview) CreateRenderer() fyne.WidgetRenderer {
	return newCutGuidePreviewRenderer(gp)
}

func (gp *CutGuidePreview) scale() float32 {
	return fitScale(gp.grid.Sheet, gp.maxWidth-2*previewPad, gp.maxHeight-2*previewPad)
}

// toScreen maps a machine coordinate to widget coordinates.
func (gp *CutGuidePreview) toScreen(x, y float64) fyne.Position {
	s := gp.scale()
	sx := float32(x-gp.settings.OriginX) * s
	sy := float32(gp.grid.Sheet.Height-(y-gp.settings.OriginY)) * s
	return fyne.NewPos(previewPad+sx, previewPad+sy)
}

type cutGuidePreviewRenderer struct {
	gp      *CutGuidePreview
	objects []fyne.CanvasObject
}

func newCutGuidePreviewRenderer(gp *CutGuidePreview) *cutGuidePreviewRenderer {
	r := &cutGuidePreviewRenderer{gp: gp}
	r.rebuild()
	return r
}

func (r *cutGuidePreviewRenderer) rebuild() {
	r.objects = nil

	gp := r.gp
	sheet := gp.grid.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return
	}
	scale := gp.scale()

	paper := canvas.NewRectangle(colorPaper)
	paper.StrokeColor = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
	paper.StrokeWidth = 2
	paper.Resize(fyne.NewSize(float32(sheet.Width)*scale, float32(sheet.Height)*scale))
	paper.Move(fyne.NewPos(previewPad, previewPad))
	r.objects = append(r.objects, paper)

	for _, c := range gp.grid.Cells {
		outline := canvas.NewRectangle(colorCell)
		outline.Resize(fyne.NewSize(float32(c.Width)*scale, float32(c.Height)*scale))
		outline.Move(fyne.NewPos(previewPad+float32(c.X)*scale, previewPad+float32(c.Y)*scale))
		r.objects = append(r.objects, outline)
	}

	for _, m := range gp.moves {
		from := gp.toScreen(m.FromX, m.FromY)
		to := gp.toScreen(m.ToX, m.ToY)
		if math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY) < 0.01 {
			continue
		}

		switch m.Kind {
		case cutguide.MoveRapid:
			r.drawDashed(from, to, colorRapid)
		case cutguide.MoveCut:
			line := canvas.NewLine(colorCut)
			line.StrokeWidth = 2
			line.Position1 = from
			line.Position2 = to
			r.objects = append(r.objects, line)
		}
	}

	origin := canvas.NewCircle(colorOrigin)
	markerSize := float32(6)
	pos := gp.toScreen(0, 0)
	origin.Resize(fyne.NewSize(markerSize, markerSize))
	origin.Move(fyne.NewPos(pos.X-markerSize/2, pos.Y-markerSize/2))
	r.objects = append(r.objects, origin)
}

// drawDashed draws a line as alternating dashes.
func (r *cutGuidePreviewRenderer) drawDashed(from, to fyne.Position, col color.NRGBA) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length == 0 {
		return
	}

	dashLen := float32(6)
	gapLen := float32(4)
	nx := dx / length
	ny := dy / length

	for cursor := float32(0); cursor < length; cursor += dashLen + gapLen {
		end := cursor + dashLen
		if end > length {
			end = length
		}
		dash := canvas.NewLine(col)
		dash.StrokeWidth = 1
		dash.Position1 = fyne.NewPos(from.X+nx*cursor, from.Y+ny*cursor)
		dash.Position2 = fyne.NewPos(from.X+nx*end, from.Y+ny*end)
		r.objects = append(r.objects, dash)
	}
}

func (r *cutGuidePreviewRenderer) Layout(size fyne.Size)        {}
func (r *cutGuidePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *cutGuidePreviewRenderer) Destroy()                     {}
func (r *cutGuidePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cutGuidePreviewRenderer) MinSize() fyne.Size {
	sheet := r.gp.grid.Sheet
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return fyne.NewSize(100, 100)
	}
	scale := r.gp.scale()
	return fyne.NewSize(float32(sheet.Width)*scale+2*previewPad, float32(sheet.Height)*scale+2*previewPad)
}
