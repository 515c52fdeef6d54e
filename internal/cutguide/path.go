package cutguide

import "github.com/piwi3910/DocPhoto/internal/model"

// MoveKind distinguishes travel from cutting.
type MoveKind int

const (
	MoveRapid MoveKind = iota // Blade up
	MoveCut                   // Blade down
)

// Move is one straight toolpath segment in machine coordinates.
type Move struct {
	Kind  MoveKind
	FromX float64
	FromY float64
	ToX   float64
	ToY   float64
	Cell  int // 1-based cell number
}

// Toolpath returns the moves Generate emits for grid, starting at the
// machine origin, with blade-offset corner arcs flattened to the corners.
func Toolpath(grid model.Grid, settings model.CutGuideSettings) []Move {
	var moves []Move
	var x, y float64
	to := func(kind MoveKind, n int, nx, ny float64) {
		moves = append(moves, Move{Kind: kind, FromX: x, FromY: y, ToX: nx, ToY: ny, Cell: n})
		x, y = nx, ny
	}

	for i, c := range grid.Cells {
		n := i + 1
		x0, y0, x1, y1 := machineRect(grid, c)
		x0 += settings.OriginX
		x1 += settings.OriginX
		y0 += settings.OriginY
		y1 += settings.OriginY

		to(MoveRapid, n, x0, y0)
		to(MoveCut, n, x1, y0)
		to(MoveCut, n, x1, y1)
		to(MoveCut, n, x0, y1)
		to(MoveCut, n, x0, y0)
		if settings.Overcut > 0 {
			to(MoveCut, n, x0+settings.Overcut, y0)
		}
	}
	return moves
}
