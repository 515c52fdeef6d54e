package model

import (
	"fmt"
	"strings"
)

// PhotoSize is a named document-photo format.
type PhotoSize struct {
	Label     string       `json:"label"`
	Size      PhysicalSize `json:"size"`
	IsBuiltIn bool         `json:"-"`
}

// SheetSize is a named printable sheet.
type SheetSize struct {
	Label     string       `json:"label"`
	Size      PhysicalSize `json:"size"`
	IsBuiltIn bool         `json:"-"`
}

// Background is a named solid colour requested from the AI editor.
type Background struct {
	Label string `json:"label"`
	Hex   string `json:"hex"`
}

// Built-in photo sizes.
var PhotoSizes = []PhotoSize{
	{Label: "3x4", Size: PhysicalSize{Width: 30, Height: 40}, IsBuiltIn: true},
	{Label: "3.5x4.5", Size: PhysicalSize{Width: 35, Height: 45}, IsBuiltIn: true},
	{Label: "4x6", Size: PhysicalSize{Width: 40, Height: 60}, IsBuiltIn: true},
	{Label: "9x12", Size: PhysicalSize{Width: 90, Height: 120}, IsBuiltIn: true},
}

// Built-in sheet sizes (ISO 216).
var SheetSizes = []SheetSize{
	{Label: "A4", Size: PhysicalSize{Width: 210, Height: 297}, IsBuiltIn: true},
	{Label: "A5", Size: PhysicalSize{Width: 148, Height: 210}, IsBuiltIn: true},
	{Label: "A6", Size: PhysicalSize{Width: 105, Height: 148}, IsBuiltIn: true},
}

// Backgrounds offered to the AI editor.
var Backgrounds = []Background{
	{Label: "white", Hex: "#FFFFFF"},
	{Label: "grey", Hex: "#E5E7EB"},
	{Label: "blue", Hex: "#1E40AF"},
}

// User-defined presets loaded at startup. They extend the built-ins and
// may shadow them by label.
var (
	CustomPhotoSizes []PhotoSize
	CustomSheetSizes []SheetSize
)

// AllPhotoSizes returns custom photo sizes followed by the built-ins.
func AllPhotoSizes() []PhotoSize {
	all := make([]PhotoSize, 0, len(CustomPhotoSizes)+len(PhotoSizes))
	all = append(all, CustomPhotoSizes...)
	return append(all, PhotoSizes...)
}

// AllSheetSizes returns custom sheet sizes followed by the built-ins.
func AllSheetSizes() []SheetSize {
	all := make([]SheetSize, 0, len(CustomSheetSizes)+len(SheetSizes))
	all = append(all, CustomSheetSizes...)
	return append(all, SheetSizes...)
}

// normLabel makes "3.5 x 4.5 cm" and "3.5x4.5" compare equal.
func normLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "cm")
	return strings.NewReplacer(" ", "", "×", "x", "*", "x").Replace(s)
}

// LookupPhotoSize resolves a preset label, or an explicit "WxH" size in mm.
func LookupPhotoSize(s string) (PhotoSize, error) {
	for _, p := range AllPhotoSizes() {
		if normLabel(p.Label) == normLabel(s) {
			return p, nil
		}
	}
	size, err := ParsePhysicalSize(s)
	if err != nil {
		return PhotoSize{}, fmt.Errorf("unknown photo size %q: %w", s, err)
	}
	return PhotoSize{Label: fmt.Sprintf("%gx%gmm", size.Width, size.Height), Size: size}, nil
}

// LookupSheetSize resolves a preset label, or an explicit "WxH" size in mm.
func LookupSheetSize(s string) (SheetSize, error) {
	for _, p := range AllSheetSizes() {
		if normLabel(p.Label) == normLabel(s) {
			return p, nil
		}
	}
	size, err := ParsePhysicalSize(s)
	if err != nil {
		return SheetSize{}, fmt.Errorf("unknown sheet size %q: %w", s, err)
	}
	return SheetSize{Label: fmt.Sprintf("%gx%gmm", size.Width, size.Height), Size: size}, nil
}

// GetBackground returns a background by label or hex value, or white if not found.
func GetBackground(name string) Background {
	for _, b := range Backgrounds {
		if strings.EqualFold(b.Label, name) || strings.EqualFold(b.Hex, name) {
			return b
		}
	}
	if strings.HasPrefix(name, "#") && (len(name) == 7 || len(name) == 4) {
		return Background{Label: name, Hex: strings.ToUpper(name)}
	}
	return Backgrounds[0]
}

// PhotoSizeLabels returns the labels of all photo sizes.
func PhotoSizeLabels() []string {
	var names []string
	for _, p := range AllPhotoSizes() {
		names = append(names, p.Label)
	}
	return names
}

// SheetSizeLabels returns the labels of all sheet sizes.
func SheetSizeLabels() []string {
	var names []string
	for _, s := range AllSheetSizes() {
		names = append(names, s.Label)
	}
	return names
}
