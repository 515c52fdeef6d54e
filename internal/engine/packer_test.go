package engine

import (
	"testing"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	photo3x4 = model.PhysicalSize{Width: 30, Height: 40}
	sheetA6  = model.PhysicalSize{Width: 105, Height: 148}
	sheetA4  = model.PhysicalSize{Width: 210, Height: 297}
)

func TestPack_A6Portrait(t *testing.T) {
	grid := Pack(sheetA6, photo3x4, model.DefaultLayoutSettings())

	require.Len(t, grid.Cells, 6)
	assert.Equal(t, 3, grid.Rows)
	assert.Equal(t, 2, grid.Cols)

	want := [][2]float64{{10, 10}, {42, 10}, {10, 52}, {42, 52}, {10, 94}, {42, 94}}
	for i, w := range want {
		assert.InDelta(t, w[0], grid.Cells[i].X, 1e-9, "cell %d x", i)
		assert.InDelta(t, w[1], grid.Cells[i].Y, 1e-9, "cell %d y", i)
		assert.Equal(t, 30.0, grid.Cells[i].Width)
		assert.Equal(t, 40.0, grid.Cells[i].Height)
	}
}

func TestPack_A6Landscape(t *testing.T) {
	p := New(model.DefaultLayoutSettings())
	grid := p.PackOriented(sheetA6, model.OrientationLandscape, photo3x4)

	assert.Len(t, grid.Cells, 8)
	assert.Equal(t, 2, grid.Rows)
	assert.Equal(t, 4, grid.Cols)
	assert.Equal(t, model.PhysicalSize{Width: 148, Height: 105}, grid.Sheet)
}

func TestPack_A4(t *testing.T) {
	grid := Pack(sheetA4, photo3x4, model.DefaultLayoutSettings())
	// usable 190x277 -> floor(192/32)=6 cols, floor(279/42)=6 rows
	assert.Equal(t, 6, grid.Cols)
	assert.Equal(t, 6, grid.Rows)
	assert.Len(t, grid.Cells, 36)
}

func TestPack_CellLargerThanUsableArea(t *testing.T) {
	// 9x12 cm photo on A6: usable width is 85 mm
	grid := Pack(sheetA6, model.PhysicalSize{Width: 90, Height: 120}, model.DefaultLayoutSettings())

	assert.True(t, grid.Empty())
	assert.Equal(t, 0, grid.Cols)
	assert.Equal(t, 0, grid.Rows)
	assert.NotNil(t, grid.Cells, "empty grid should carry an empty, non-nil cell list")
}

func TestPack_TallCellOnly(t *testing.T) {
	grid := Pack(sheetA6, model.PhysicalSize{Width: 30, Height: 140}, model.DefaultLayoutSettings())
	assert.True(t, grid.Empty())
	assert.Equal(t, 0, grid.Rows)
}

func TestPack_ExactFit(t *testing.T) {
	// usable width 85 holds exactly one 85 mm cell with nothing left over
	s := model.DefaultLayoutSettings()
	grid := Pack(sheetA6, model.PhysicalSize{Width: 85, Height: 128}, s)

	require.Len(t, grid.Cells, 1)
	assert.Equal(t, model.Cell{X: 10, Y: 10, Width: 85, Height: 128}, grid.Cells[0])
}

func TestPack_ZeroMarginAndSpacing(t *testing.T) {
	s := model.DefaultLayoutSettings()
	s.MarginMM = 0
	s.SpacingMM = 0

	grid := Pack(model.PhysicalSize{Width: 100, Height: 100}, model.PhysicalSize{Width: 25, Height: 50}, s)
	assert.Equal(t, 4, grid.Cols)
	assert.Equal(t, 2, grid.Rows)
	assert.InDelta(t, 75.0, grid.Cells[3].X, 1e-9)
}

func TestPack_FractionalSizesStayInsideMargins(t *testing.T) {
	s := model.DefaultLayoutSettings()
	sheets := []model.PhysicalSize{sheetA4, sheetA6, {Width: 148, Height: 210}, {Width: 101.6, Height: 152.4}}
	cells := []model.PhysicalSize{photo3x4, {Width: 35, Height: 45}, {Width: 33.3, Height: 48.1}, {Width: 0.1, Height: 0.3}}

	for _, sheet := range sheets {
		for _, cell := range cells {
			grid := Pack(sheet, cell, s)
			assert.Equal(t, grid.Rows*grid.Cols, len(grid.Cells))
			for _, c := range grid.Cells {
				assert.GreaterOrEqual(t, c.X, s.MarginMM-fitEpsilon)
				assert.GreaterOrEqual(t, c.Y, s.MarginMM-fitEpsilon)
				assert.LessOrEqual(t, c.Right(), sheet.Width-s.MarginMM+fitEpsilon)
				assert.LessOrEqual(t, c.Bottom(), sheet.Height-s.MarginMM+fitEpsilon)
			}
		}
	}
}

func TestPack_NoOverlap(t *testing.T) {
	s := model.DefaultLayoutSettings()
	grid := Pack(sheetA4, model.PhysicalSize{Width: 35, Height: 45}, s)
	require.NotEmpty(t, grid.Cells)

	for i := 0; i < len(grid.Cells); i++ {
		for j := i + 1; j < len(grid.Cells); j++ {
			a, b := grid.Cells[i], grid.Cells[j]
			overlapX := a.X < b.Right() && b.X < a.Right()
			overlapY := a.Y < b.Bottom() && b.Y < a.Bottom()
			assert.False(t, overlapX && overlapY, "cells %d and %d overlap", i, j)
		}
	}
}

func TestPack_FitsWheneverCellFitsUsableArea(t *testing.T) {
	s := model.DefaultLayoutSettings()
	for w := 1.0; w <= 85; w += 7 {
		for h := 1.0; h <= 128; h += 9 {
			grid := Pack(sheetA6, model.PhysicalSize{Width: w, Height: h}, s)
			assert.GreaterOrEqual(t, grid.Rows*grid.Cols, 1, "cell %.0fx%.0f should fit", w, h)
		}
	}
}

func TestPack_WiderThanUsableIsEmpty(t *testing.T) {
	s := model.DefaultLayoutSettings()
	for _, w := range []float64{85.01, 90, 105, 500} {
		grid := Pack(sheetA6, model.PhysicalSize{Width: w, Height: 10}, s)
		assert.Equal(t, 0, grid.Cols, "width %.2f", w)
		assert.Empty(t, grid.Cells)
	}
}

func TestPack_OrientationIsRelabeling(t *testing.T) {
	s := model.DefaultLayoutSettings()
	p := New(s)

	for _, sheet := range []model.PhysicalSize{sheetA4, sheetA6, {Width: 148, Height: 210}} {
		landscape := p.PackOriented(sheet, model.OrientationLandscape, photo3x4)
		swapped := p.Pack(sheet.Swap(), photo3x4)
		assert.Equal(t, swapped, landscape)
	}
}

func TestPack_Deterministic(t *testing.T) {
	s := model.DefaultLayoutSettings()
	first := Pack(sheetA4, model.PhysicalSize{Width: 35, Height: 45}, s)
	second := Pack(sheetA4, model.PhysicalSize{Width: 35, Height: 45}, s)
	assert.Equal(t, first, second)
}

func TestPack_DegenerateInputs(t *testing.T) {
	s := model.DefaultLayoutSettings()
	assert.True(t, Pack(sheetA4, model.PhysicalSize{}, s).Empty())
	assert.True(t, Pack(model.PhysicalSize{}, photo3x4, s).Empty())
	assert.True(t, Pack(sheetA4, model.PhysicalSize{Width: -30, Height: 40}, s).Empty())
}

func TestGrid_ScaledMatchesDPI(t *testing.T) {
	grid := Pack(sheetA6, photo3x4, model.DefaultLayoutSettings())
	px := grid.Scaled(model.PxPerMM(300))

	require.Len(t, px.Cells, len(grid.Cells))
	for i := range grid.Cells {
		assert.InDelta(t, model.MMToPx(grid.Cells[i].X, 300), px.Cells[i].X, 1e-9)
		assert.InDelta(t, model.MMToPx(grid.Cells[i].Y, 300), px.Cells[i].Y, 1e-9)
	}
	assert.InDelta(t, model.MMToPx(105, 300), px.Sheet.Width, 1e-9)
}
