// Package engine computes how many copies of a photo fit on a sheet and
// where each copy goes.
package engine

import (
	"math"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// fitEpsilon is the inclusive tolerance, in sheet units, of the bounds test.
// It only absorbs float rounding; it never admits a visibly clipped cell.
const fitEpsilon = 1e-6

// Packer lays out uniform photo cells on a sheet.
type Packer struct {
	Settings model.LayoutSettings
}

func New(settings model.LayoutSettings) *Packer {
	return &Packer{Settings: settings}
}

// Pack fills a sheet (already oriented) with as many whole cells as fit
// inside the margins, spaced by the configured gap. Cells are emitted in
// row-major order. When the cell is larger than the usable area the grid
// is empty; that is a valid result, not an error.
func (p *Packer) Pack(sheet, cell model.PhysicalSize) model.Grid {
	return Pack(sheet, cell, p.Settings)
}

// PackOriented applies the orientation to the sheet before packing.
func (p *Packer) PackOriented(sheet model.PhysicalSize, o model.Orientation, cell model.PhysicalSize) model.Grid {
	return Pack(o.Apply(sheet), cell, p.Settings)
}

// Pack is the stateless form of Packer.Pack.
func Pack(sheet, cell model.PhysicalSize, settings model.LayoutSettings) model.Grid {
	grid := model.Grid{Sheet: sheet, Cells: []model.Cell{}}
	if cell.Width <= 0 || cell.Height <= 0 || sheet.Width <= 0 || sheet.Height <= 0 {
		return grid
	}

	margin := settings.MarginMM
	spacing := settings.SpacingMM

	cols := fitCount(sheet.Width-2*margin, cell.Width, spacing)
	rows := fitCount(sheet.Height-2*margin, cell.Height, spacing)
	if cols == 0 || rows == 0 {
		return grid
	}

	maxX := sheet.Width - margin + fitEpsilon
	maxY := sheet.Height - margin + fitEpsilon

	grid.Cells = make([]model.Cell, 0, rows*cols)
	keptCols := 0
	for r := 0; r < rows; r++ {
		y := margin + float64(r)*(cell.Height+spacing)
		if y+cell.Height > maxY {
			break
		}
		rowCols := 0
		for c := 0; c < cols; c++ {
			x := margin + float64(c)*(cell.Width+spacing)
			if x+cell.Width > maxX {
				break
			}
			grid.Cells = append(grid.Cells, model.Cell{X: x, Y: y, Width: cell.Width, Height: cell.Height})
			rowCols++
		}
		keptCols = rowCols
		grid.Rows++
	}
	if keptCols == 0 {
		grid.Rows = 0
	}
	grid.Cols = keptCols
	return grid
}

// fitCount returns how many cells of size cell, separated by spacing, fit
// in usable. n cells need n*cell + (n-1)*spacing, hence the spacing added
// to both sides of the ratio.
func fitCount(usable, cell, spacing float64) int {
	if usable+fitEpsilon < cell {
		return 0
	}
	n := math.Floor((usable+spacing)/(cell+spacing) + 1e-9)
	if n < 0 {
		return 0
	}
	return int(n)
}
