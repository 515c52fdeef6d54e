package model

import "math"

// mmPerInch is the number of millimetres in one inch.
const mmPerInch = 25.4

// MMToPx converts a millimetre length to pixels at the given density.
func MMToPx(mm, dpi float64) float64 {
	return mm * dpi / mmPerInch
}

// PxToMM converts a pixel length to millimetres at the given density.
func PxToMM(px, dpi float64) float64 {
	return px * mmPerInch / dpi
}

// pxEpsilon absorbs float noise so that exact products such as
// 25.4mm at 300 DPI land on 300 rather than 299.
const pxEpsilon = 1e-9

// MMToPxFloor converts an extent to whole pixels, truncating. Extents that
// round down can only under-fit the space they were computed for.
func MMToPxFloor(mm, dpi float64) int {
	return int(math.Floor(MMToPx(mm, dpi) + pxEpsilon))
}

// MMToPxRound converts a position to the nearest whole pixel.
func MMToPxRound(mm, dpi float64) int {
	return int(math.Round(MMToPx(mm, dpi)))
}

// PxPerMM returns the scale factor from millimetres to pixels.
func PxPerMM(dpi float64) float64 {
	return dpi / mmPerInch
}
