package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/DocPhoto/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// JobTag holds the data encoded into the QR code printed in the sheet margin.
type JobTag struct {
	JobID       string  `json:"id"`
	Photo       string  `json:"photo"`
	PhotoWidth  float64 `json:"photo_w_mm"`
	PhotoHeight float64 `json:"photo_h_mm"`
	Sheet       string  `json:"sheet"`
	Orientation string  `json:"orientation"`
	Copies      int     `json:"copies"`
}

// Job tag layout in mm.
const (
	jobTagSize     = 8.0
	jobTagPadding  = 1.5
	jobTagFontSize = 5.0
)

// NewJobTag collects the tag data for a job and its packed grid.
func NewJobTag(job model.Job, grid model.Grid) JobTag {
	return JobTag{
		JobID:       job.ID,
		Photo:       job.Photo.Label,
		PhotoWidth:  job.Photo.Size.Width,
		PhotoHeight: job.Photo.Size.Height,
		Sheet:       job.Sheet.Label,
		Orientation: job.Orientation.String(),
		Copies:      len(grid.Cells),
	}
}

// jobTagFits reports whether the band below the lowest cell can hold the tag.
func jobTagFits(grid model.Grid) bool {
	lowest := 0.0
	for _, c := range grid.Cells {
		lowest = math.Max(lowest, c.Bottom())
	}
	return grid.Sheet.Height-lowest >= jobTagSize+2*jobTagPadding &&
		grid.Sheet.Width >= jobTagSize+2*jobTagPadding
}

// drawJobTag places the QR code in the bottom-right corner of the page with
// the job ID printed to its left. It draws nothing when the tag would
// overlap a photo.
func drawJobTag(pdf *fpdf.Fpdf, grid model.Grid, tag JobTag) error {
	if !jobTagFits(grid) {
		return nil
	}

	qrData, err := json.Marshal(tag)
	if err != nil {
		return fmt.Errorf("failed to marshal job tag: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "jobtag_" + tag.JobID
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPNG))

	qrX := grid.Sheet.Width - jobTagPadding - jobTagSize
	qrY := grid.Sheet.Height - jobTagPadding - jobTagSize
	pdf.ImageOptions(imgName, qrX, qrY, jobTagSize, jobTagSize, false, opts, 0, "")

	text := fmt.Sprintf("DocPhoto %s  %s on %s", tag.JobID, tag.Photo, tag.Sheet)
	pdf.SetFont("Helvetica", "", jobTagFontSize)
	pdf.SetTextColor(120, 120, 120)
	textW := pdf.GetStringWidth(text)
	if textW < qrX-2*jobTagPadding {
		pdf.SetXY(qrX-jobTagPadding-textW, qrY+jobTagSize-3)
		pdf.CellFormat(textW, 3, text, "", 0, "R", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	return nil
}
