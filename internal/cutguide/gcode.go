// Package cutguide turns a packed sheet into trim paths for cutting the
// printed photos apart: DXF outlines for design tools and G-code for
// drag-knife plotters. Machine coordinates have their origin at the
// sheet's bottom-left corner with Y pointing up.
package cutguide

import (
	"fmt"
	"strings"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// Generator produces plotter G-code from a packed grid.
type Generator struct {
	Settings model.CutGuideSettings
	profile  model.PlotterProfile
}

func New(settings model.CutGuideSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetPlotterProfile(settings.Profile),
	}
}

// Profile returns the plotter profile in use. It is the Generic profile when
// Settings.Profile names no known profile.
func (g *Generator) Profile() model.PlotterProfile { return g.profile }

// Generate produces the trim program for every cell of grid. label names the
// job in the header comment.
func (g *Generator) Generate(grid model.Grid, label string) string {
	var b strings.Builder

	g.writeHeader(&b, grid, label)
	for i, c := range grid.Cells {
		g.writeCell(&b, grid, c, i+1)
	}
	g.writeFooter(&b)

	return b.String()
}

func (g *Generator) writeHeader(b *strings.Builder, grid model.Grid, label string) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("DocPhoto cut guide: %s", label)))
	b.WriteString(g.comment(fmt.Sprintf("Sheet: %.1f x %.1f mm, %d photos (%dx%d)",
		grid.Sheet.Width, grid.Sheet.Height, len(grid.Cells), grid.Cols, grid.Rows)))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, blade offset %.2f mm, overcut %.2f mm",
		g.Settings.FeedRate, g.Settings.BladeOffset, g.Settings.Overcut)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	b.WriteString(g.substitute(p.ToolUp) + "\n")
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range g.profile.EndCode {
		b.WriteString(g.substitute(code) + "\n")
	}
}

// writeCell cuts one cell counter-clockwise starting at its bottom-left
// corner. With a blade offset, each corner is overshot by the offset and
// turned with an arc around the corner so the trailing tip swings onto the
// next edge.
func (g *Generator) writeCell(b *strings.Builder, grid model.Grid, c model.Cell, n int) {
	p := g.profile
	x0, y0, x1, y1 := machineRect(grid, c)
	x0 += g.Settings.OriginX
	x1 += g.Settings.OriginX
	y0 += g.Settings.OriginY
	y1 += g.Settings.OriginY

	b.WriteString(g.comment(fmt.Sprintf("--- Photo %d (%.1f x %.1f) ---", n, c.Width, c.Height)))

	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(x0), g.format(y0)))
	b.WriteString(g.substitute(p.ToolDown) + "\n")

	o := g.Settings.BladeOffset
	corners := [4][2]float64{{x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	headings := [4][2]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

	for k, corner := range corners {
		h := headings[k]
		if o <= 0 {
			b.WriteString(g.feed(corner[0], corner[1], k == 0))
			continue
		}
		next := headings[(k+1)%4]
		b.WriteString(g.feed(corner[0]+h[0]*o, corner[1]+h[1]*o, k == 0))
		b.WriteString(fmt.Sprintf("%s X%s Y%s I%s J%s\n", p.ArcCCW,
			g.format(corner[0]+next[0]*o), g.format(corner[1]+next[1]*o),
			g.format(-h[0]*o), g.format(-h[1]*o)))
	}

	if g.Settings.Overcut > 0 {
		b.WriteString(g.comment("Overcut"))
		b.WriteString(g.feed(x0+o+g.Settings.Overcut, y0, false))
	}

	b.WriteString(g.substitute(p.ToolUp) + "\n")
	b.WriteString("\n")
}

// machineRect converts a cell from sheet coordinates (Y down from the top
// edge) to machine coordinates (Y up from the bottom edge).
func machineRect(grid model.Grid, c model.Cell) (x0, y0, x1, y1 float64) {
	return c.X, grid.Sheet.Height - c.Bottom(), c.Right(), grid.Sheet.Height - c.Y
}

func (g *Generator) feed(x, y float64, withRate bool) string {
	if withRate {
		return fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove, g.format(x), g.format(y), g.format(g.Settings.FeedRate))
	}
	return fmt.Sprintf("%s X%s Y%s\n", g.profile.FeedMove, g.format(x), g.format(y))
}

func (g *Generator) substitute(code string) string {
	return strings.NewReplacer(
		"[SafeZ]", g.format(g.Settings.SafeZ),
		"[CutZ]", g.format(g.Settings.CutZ),
		"[PlungeRate]", g.format(g.Settings.PlungeRate),
	).Replace(code)
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	if v == 0 {
		v = 0 // no "-0.000"
	}
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}
