package cutguide

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// DXF layer names.
const (
	LayerSheet = "SHEET"
	LayerCuts  = "CUTS"
	LayerMarks = "MARKS"
)

// markLength is the length of the crop marks drawn outside each sheet corner.
const markLength = 5.0

// ExportDXF writes the sheet outline, one closed rectangle per cell and
// corner crop marks to a DXF file, in millimetres with Y up.
func ExportDXF(path string, grid model.Grid) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerSheet, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding sheet layer: %w", err)
	}
	w, h := grid.Sheet.Width, grid.Sheet.Height
	if _, err := d.LwPolyline(true, []float64{0, 0}, []float64{w, 0}, []float64{w, h}, []float64{0, h}); err != nil {
		return fmt.Errorf("drawing sheet outline: %w", err)
	}

	if _, err := d.AddLayer(LayerMarks, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding marks layer: %w", err)
	}
	for _, m := range cropMarks(w, h) {
		if _, err := d.Line(m[0], m[1], 0, m[2], m[3], 0); err != nil {
			return fmt.Errorf("drawing crop mark: %w", err)
		}
	}

	if _, err := d.AddLayer(LayerCuts, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("adding cuts layer: %w", err)
	}
	for i, c := range grid.Cells {
		x0, y0, x1, y1 := machineRect(grid, c)
		if _, err := d.LwPolyline(true,
			[]float64{x0, y0}, []float64{x1, y0}, []float64{x1, y1}, []float64{x0, y1}); err != nil {
			return fmt.Errorf("drawing cell %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("saving DXF: %w", err)
	}
	return nil
}

// cropMarks returns the line segments (x1, y1, x2, y2) that extend each
// sheet edge outward at the four corners.
func cropMarks(w, h float64) [][4]float64 {
	l := markLength
	return [][4]float64{
		{-l, 0, -1, 0}, {0, -l, 0, -1},
		{w + 1, 0, w + l, 0}, {w, -l, w, -1},
		{w + 1, h, w + l, h}, {w, h + 1, w, h + l},
		{-l, h, -1, h}, {0, h + 1, 0, h + l},
	}
}
