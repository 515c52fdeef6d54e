package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// PhysicalSize is a rectangle in real-world millimetres.
type PhysicalSize struct {
	Width  float64 `json:"width"`  // mm
	Height float64 `json:"height"` // mm
}

// Validate reports an error when either side is not strictly positive.
func (s PhysicalSize) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("size %.1fx%.1f mm: width and height must be > 0", s.Width, s.Height)
	}
	return nil
}

// Aspect returns width divided by height.
func (s PhysicalSize) Aspect() float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

// Swap returns the size with width and height exchanged.
func (s PhysicalSize) Swap() PhysicalSize {
	return PhysicalSize{Width: s.Height, Height: s.Width}
}

func (s PhysicalSize) String() string {
	return fmt.Sprintf("%gx%g mm", s.Width, s.Height)
}

// ParsePhysicalSize parses "30x40" (or "30X40", "30*40") into a size in mm.
func ParsePhysicalSize(s string) (PhysicalSize, error) {
	norm := strings.NewReplacer("X", "x", "*", "x", "×", "x", " ", "").Replace(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, "mm")
	parts := strings.Split(norm, "x")
	if len(parts) != 2 {
		return PhysicalSize{}, fmt.Errorf("invalid size %q: expected WIDTHxHEIGHT in mm", s)
	}
	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return PhysicalSize{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return PhysicalSize{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	size := PhysicalSize{Width: w, Height: h}
	if err := size.Validate(); err != nil {
		return PhysicalSize{}, err
	}
	return size, nil
}

// Orientation is the rotation state of a sheet.
type Orientation int

const (
	OrientationPortrait  Orientation = iota // Sheet used as defined
	OrientationLandscape                    // Sheet width and height swapped
)

func (o Orientation) String() string {
	switch o {
	case OrientationLandscape:
		return "landscape"
	default:
		return "portrait"
	}
}

// Apply returns the sheet size as laid out in this orientation.
func (o Orientation) Apply(sheet PhysicalSize) PhysicalSize {
	if o == OrientationLandscape {
		return sheet.Swap()
	}
	return sheet
}

// MarshalText encodes the orientation as "portrait" or "landscape".
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes "portrait" or "landscape".
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOrientation accepts "portrait"/"p" and "landscape"/"l".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "portrait":
		return OrientationPortrait, nil
	case "l", "landscape":
		return OrientationLandscape, nil
	default:
		return OrientationPortrait, fmt.Errorf("invalid orientation %q (must be 'portrait' or 'landscape')", s)
	}
}

// TargetKind selects the render path for an export.
type TargetKind int

const (
	TargetRaster    TargetKind = iota // Flat pixel image at a fixed DPI
	TargetPaginated                   // Millimetre-addressed document page
)

func (k TargetKind) String() string {
	if k == TargetPaginated {
		return "paginated"
	}
	return "raster"
}

// ExportFormat is the requested output format of a sheet.
type ExportFormat string

const (
	FormatJPG ExportFormat = "JPG" // Lossy raster
	FormatPNG ExportFormat = "PNG" // Lossless raster
	FormatPDF ExportFormat = "PDF" // Paginated document
)

// ParseExportFormat accepts jpg/jpeg/png/pdf in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "jpg", "jpeg":
		return FormatJPG, nil
	case "png":
		return FormatPNG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("invalid format %q (must be 'jpg', 'png', or 'pdf')", s)
	}
}

// Target returns the render path that produces this format.
func (f ExportFormat) Target() TargetKind {
	if f == FormatPDF {
		return TargetPaginated
	}
	return TargetRaster
}

// MIMEType returns the content type of an encoded sheet in this format.
func (f ExportFormat) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

// Ext returns the lowercase file extension without the dot.
func (f ExportFormat) Ext() string {
	if f == "" {
		return "jpg"
	}
	return strings.ToLower(string(f))
}

// Cell is one placed photo on a sheet. Units depend on the grid: millimetres
// as produced by the packer, pixels after Grid.Scaled.
type Cell struct {
	X      float64 `json:"x"` // Left edge from sheet origin
	Y      float64 `json:"y"` // Top edge from sheet origin
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the cell's far edge.
func (c Cell) Right() float64 { return c.X + c.Width }

// Bottom returns the y coordinate of the cell's far edge.
func (c Cell) Bottom() float64 { return c.Y + c.Height }

// Grid is the full set of cell placements for one sheet, in row-major order.
// A grid with zero cells is a valid result: the photo does not fit.
type Grid struct {
	Sheet PhysicalSize `json:"sheet"` // Post-orientation sheet extent
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells []Cell       `json:"cells"`
}

// Empty reports whether no cell was placed.
func (g Grid) Empty() bool { return len(g.Cells) == 0 }

// Scaled returns a copy of the grid with every coordinate multiplied by factor.
func (g Grid) Scaled(factor float64) Grid {
	out := Grid{
		Sheet: PhysicalSize{Width: g.Sheet.Width * factor, Height: g.Sheet.Height * factor},
		Rows:  g.Rows,
		Cols:  g.Cols,
		Cells: make([]Cell, len(g.Cells)),
	}
	for i, c := range g.Cells {
		out.Cells[i] = Cell{X: c.X * factor, Y: c.Y * factor, Width: c.Width * factor, Height: c.Height * factor}
	}
	return out
}

// UsedArea returns the total area covered by cells.
func (g Grid) UsedArea() float64 {
	var total float64
	for _, c := range g.Cells {
		total += c.Width * c.Height
	}
	return total
}

// Efficiency returns the share of the sheet covered by cells, in percent.
func (g Grid) Efficiency() float64 {
	ta := g.Sheet.Width * g.Sheet.Height
	if ta == 0 {
		return 0
	}
	return (g.UsedArea() / ta) * 100.0
}

// LayoutSettings holds the numeric constants of the sheet pipeline.
type LayoutSettings struct {
	// Packing (same unit as the sheet, mm)
	MarginMM  float64 `json:"margin_mm"`  // Inset from every sheet edge
	SpacingMM float64 `json:"spacing_mm"` // Gap between adjacent cells

	// Raster output
	DPI         float64     `json:"dpi"`          // Raster resolution
	JPEGQuality int         `json:"jpeg_quality"` // 1-100
	GuideColor  color.NRGBA `json:"-"`            // 1 px border around raster cells

	// Crop
	CropWidthPx int `json:"crop_width_px"` // Width of the cropped working photo

	// AI preprocessing
	AIMaxPx   int `json:"ai_max_px"`  // Longest side sent to the AI editor
	AIQuality int `json:"ai_quality"` // JPEG quality of the AI upload

	// Paginated output
	JobTag bool `json:"job_tag"` // QR code with job metadata in the margin
}

// DefaultLayoutSettings returns the standard document-photo constants.
func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		MarginMM:    10,
		SpacingMM:   2,
		DPI:         300,
		JPEGQuality: 95,
		GuideColor:  color.NRGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF},
		CropWidthPx: 1200,
		AIMaxPx:     1024,
		AIQuality:   80,
		JobTag:      false,
	}
}

// Validate checks that the settings can drive the pipeline.
func (s LayoutSettings) Validate() error {
	switch {
	case s.MarginMM < 0:
		return fmt.Errorf("margin must be >= 0, got %.2f", s.MarginMM)
	case s.SpacingMM < 0:
		return fmt.Errorf("spacing must be >= 0, got %.2f", s.SpacingMM)
	case s.DPI <= 0:
		return fmt.Errorf("dpi must be > 0, got %.2f", s.DPI)
	case s.JPEGQuality < 1 || s.JPEGQuality > 100:
		return fmt.Errorf("jpeg quality must be in 1..100, got %d", s.JPEGQuality)
	case s.CropWidthPx <= 0:
		return fmt.Errorf("crop width must be > 0, got %d", s.CropWidthPx)
	case s.AIMaxPx <= 0:
		return fmt.Errorf("ai max size must be > 0, got %d", s.AIMaxPx)
	case s.AIQuality < 1 || s.AIQuality > 100:
		return fmt.Errorf("ai quality must be in 1..100, got %d", s.AIQuality)
	}
	return nil
}
