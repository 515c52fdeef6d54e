package widgets

import (
	"fmt"
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// Cell colors used when there is no photo to show, cycled for visual
// distinction.
var cellColors = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 200},  // green
	{R: 33, G: 150, B: 243, A: 200}, // blue
	{R: 255, G: 152, B: 0, A: 200},  // orange
	{R: 156, G: 39, B: 176, A: 200}, // purple
	{R: 0, G: 188, B: 212, A: 200},  // cyan
	{R: 244, G: 67, B: 54, A: 200},  // red
}

var (
	colorPaper  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorMargin = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	colorGuide  = color.NRGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
)

// SheetCanvas draws a packed sheet at screen scale: the paper, its margin
// and one tile per cell. Tiles show the photo when one is set.
type SheetCanvas struct {
	widget.BaseWidget
	grid      model.Grid
	photo     image.Image
	marginMM  float64
	maxWidth  float32
	maxHeight float32
}

// NewSheetCanvas creates a canvas for grid that fits within maxW x maxH.
// photo may be nil.
func NewSheetCanvas(grid model.Grid, photo image.Image, marginMM float64, maxW, maxH float32) *SheetCanvas {
	sc := &SheetCanvas{
		grid:      grid,
		photo:     photo,
		marginMM:  marginMM,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

// SetGrid replaces the displayed layout.
func (sc *SheetCanvas) SetGrid(grid model.Grid, photo image.Image) {
	sc.grid = grid
	sc.photo = photo
	sc.Refresh()
}

// SetMargin changes the outlined sheet margin.
func (sc *SheetCanvas) SetMargin(mm float64) {
	sc.marginMM = mm
	sc.Refresh()
}

func (sc *SheetCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newSheetCanvasRenderer(sc)
}

// scale returns screen units per millimetre.
func (sc *SheetCanvas) scale() float32 {
	return fitScale(sc.grid.Sheet, sc.maxWidth, sc.maxHeight)
}

func fitScale(sheet model.PhysicalSize, maxW, maxH float32) float32 {
	if sheet.Width <= 0 || sheet.Height <= 0 {
		return 1
	}
	scale := maxW / float32(sheet.Width)
	if s := maxH / float32(sheet.Height); s < scale {
		scale = s
	}
	if scale <= 0 {
		return 1
	}
	return scale
}

type sheetCanvasRenderer struct {
	sc      *SheetCanvas
	objects []fyne.CanvasObject
}

func newSheetCanvasRenderer(sc *SheetCanvas) *sheetCanvasRenderer {
	r := &sheetCanvasRenderer{sc: sc}
	r.rebuild()
	return r
}

func (r *sheetCanvasRenderer) rebuild() {
	r.objects = nil

	grid := r.sc.grid
	scale := r.sc.scale()
	canvasW := float32(grid.Sheet.Width) * scale
	canvasH := float32(grid.Sheet.Height) * scale

	paper := canvas.NewRectangle(colorPaper)
	paper.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	paper.StrokeWidth = 2
	paper.Resize(fyne.NewSize(canvasW, canvasH))
	paper.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, paper)

	if m := float32(r.sc.marginMM) * scale; m > 0 && 2*m < canvasW && 2*m < canvasH {
		margin := canvas.NewRectangle(color.Transparent)
		margin.StrokeColor = colorMargin
		margin.StrokeWidth = 1
		margin.Resize(fyne.NewSize(canvasW-2*m, canvasH-2*m))
		margin.Move(fyne.NewPos(m, m))
		r.objects = append(r.objects, margin)
	}

	for i, c := range grid.Cells {
		cw := float32(c.Width) * scale
		ch := float32(c.Height) * scale
		cx := float32(c.X) * scale
		cy := float32(c.Y) * scale

		var tile fyne.CanvasObject
		if r.sc.photo != nil {
			img := canvas.NewImageFromImage(r.sc.photo)
			img.FillMode = canvas.ImageFillStretch
			img.ScaleMode = canvas.ImageScaleSmooth
			tile = img
		} else {
			tile = canvas.NewRectangle(cellColors[i%len(cellColors)])
		}
		tile.Resize(fyne.NewSize(cw, ch))
		tile.Move(fyne.NewPos(cx, cy))
		r.objects = append(r.objects, tile)

		border := canvas.NewRectangle(color.Transparent)
		border.StrokeColor = colorGuide
		border.StrokeWidth = 1
		border.Resize(fyne.NewSize(cw, ch))
		border.Move(fyne.NewPos(cx, cy))
		r.objects = append(r.objects, border)

		// Numbers only on plain tiles and only if big enough
		if r.sc.photo == nil && cw > 30 && ch > 16 {
			label := canvas.NewText(fmt.Sprintf("%d", i+1), color.Black)
			label.TextSize = 10
			label.Move(fyne.NewPos(cx+3, cy+2))
			r.objects = append(r.objects, label)
		}
	}
}

func (r *sheetCanvasRenderer) Layout(size fyne.Size)        {}
func (r *sheetCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *sheetCanvasRenderer) Destroy()                     {}
func (r *sheetCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *sheetCanvasRenderer) MinSize() fyne.Size {
	sheet := r.sc.grid.Sheet
	scale := r.sc.scale()
	return fyne.NewSize(float32(sheet.Width)*scale, float32(sheet.Height)*scale)
}
