package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/DocPhoto/internal/model"
)

// cellColor represents an RGB color for a placed copy.
type cellColor struct {
	R, G, B int
}

// cellColors mirrors the color scheme used in the preview sheet canvas.
var cellColors = []cellColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Report page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 38.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportLayoutReport writes a one-page PDF describing the sheet layout of
// job to path: a scaled diagram of the grid followed by the settings used.
func ExportLayoutReport(path string, job model.Job, grid model.Grid, settings model.LayoutSettings) error {
	pdf := newLayoutReport(job, grid, settings)
	return pdf.OutputFileAndClose(path)
}

// WriteLayoutReport is ExportLayoutReport for an arbitrary writer.
func WriteLayoutReport(w io.Writer, job model.Job, grid model.Grid, settings model.LayoutSettings) error {
	pdf := newLayoutReport(job, grid, settings)
	return pdf.Output(w)
}

func newLayoutReport(job model.Job, grid model.Grid, settings model.LayoutSettings) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()
	renderLayoutPage(pdf, job, grid, settings)
	return pdf
}

// renderLayoutPage draws the grid diagram on the current PDF page.
func renderLayoutPage(pdf *fpdf.Fpdf, job model.Job, grid model.Grid, settings model.LayoutSettings) {
	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s photos on %s %s (%.0f x %.0f mm)", job.Photo.Label, job.Sheet.Label, job.Orientation, grid.Sheet.Width, grid.Sheet.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Copies: %d | Grid: %d x %d | Used area: %.0f mm² | Efficiency: %.1f%%",
		len(grid.Cells), grid.Cols, grid.Rows, grid.UsedArea(), grid.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	if grid.Sheet.Width <= 0 || grid.Sheet.Height <= 0 {
		return
	}

	// Scale the sheet to fit the drawing area
	scale := math.Min(drawWidth/grid.Sheet.Width, drawHeight/grid.Sheet.Height)
	canvasW := grid.Sheet.Width * scale
	canvasH := grid.Sheet.Height * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Paper
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Usable area inside the margins
	drawMarginOutline(pdf, grid.Sheet, settings.MarginMM, scale, offsetX, offsetY)

	for i, c := range grid.Cells {
		col := cellColors[i%len(cellColors)]
		cw := c.Width * scale
		chh := c.Height * scale
		cx := offsetX + c.X*scale
		cy := offsetY + c.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(cx, cy, cw, chh, "FD")

		// Copy number (only if rectangle is large enough)
		if cw > 6 && chh > 5 {
			pdf.SetFont("Helvetica", "", labelFontSize(cw, chh))
			pdf.SetTextColor(0, 0, 0)
			label := fmt.Sprintf("%d", i+1)
			labelW := pdf.GetStringWidth(label)
			pdf.SetXY(cx+(cw-labelW)/2, cy+chh/2-2)
			pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
		}
	}

	if grid.Empty() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		msg := "Photo does not fit inside the margins"
		msgW := pdf.GetStringWidth(msg)
		pdf.SetXY(offsetX+(canvasW-msgW)/2, offsetY+canvasH/2-3)
		pdf.CellFormat(msgW, 6, msg, "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	drawDimensionAnnotations(pdf, grid.Sheet, offsetX, offsetY, canvasW, canvasH)
	drawSettingsTable(pdf, job, grid, settings, offsetY+canvasH+8)
}

// drawMarginOutline draws the usable area as a thin red outline.
func drawMarginOutline(pdf *fpdf.Fpdf, sheet model.PhysicalSize, margin, scale, offsetX, offsetY float64) {
	if margin <= 0 || 2*margin >= sheet.Width || 2*margin >= sheet.Height {
		return
	}
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Rect(offsetX+margin*scale, offsetY+margin*scale, (sheet.Width-2*margin)*scale, (sheet.Height-2*margin)*scale, "D")
	pdf.SetDashPattern([]float64{}, 0)
}

// drawDimensionAnnotations adds width and height dimension labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sheet model.PhysicalSize, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the sheet)
	widthLabel := fmt.Sprintf("%.0f mm", sheet.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the sheet, rotated)
	heightLabel := fmt.Sprintf("%.0f mm", sheet.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawSettingsTable lists the layout constants and the raster size.
func drawSettingsTable(pdf *fpdf.Fpdf, job model.Job, grid model.Grid, settings model.LayoutSettings, y float64) {
	items := []struct {
		label string
		value string
	}{
		{"Photo size", fmt.Sprintf("%.1f x %.1f mm", job.Photo.Size.Width, job.Photo.Size.Height)},
		{"Margin / spacing", fmt.Sprintf("%.1f / %.1f mm", settings.MarginMM, settings.SpacingMM)},
		{"Raster size", fmt.Sprintf("%d x %d px @ %.0f dpi",
			model.MMToPxFloor(grid.Sheet.Width, settings.DPI), model.MMToPxFloor(grid.Sheet.Height, settings.DPI), settings.DPI)},
		{"Output", fmt.Sprintf("%s (%s)", job.Format, job.Filename())},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(40, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(120, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		y += 5
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by DocPhoto - job "+job.ID, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 10
	case minDim > 20:
		return 8
	default:
		return 6
	}
}
