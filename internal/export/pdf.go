package export

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/DocPhoto/internal/model"
)

const sheetPhotoName = "photo"

// RenderPDF lays the grid out on a single PDF page the size of the sheet,
// addressed in millimetres. The photo is embedded once and placed at every
// cell's exact position and size. An empty grid yields one blank page.
// tag, when non-nil, is drawn in the bottom margin if it fits there.
func RenderPDF(ctx context.Context, photo image.Image, grid model.Grid, orientation model.Orientation, tag *JobTag) ([]byte, error) {
	if err := grid.Sheet.Validate(); err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}

	// fpdf swaps the page for "L", so hand it the sheet as defined.
	defined := orientation.Apply(grid.Sheet)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: pdfOrientation(orientation),
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: defined.Width, Ht: defined.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("DocPhoto", true)
	pdf.AddPage()

	if !grid.Empty() {
		var png bytes.Buffer
		if err := imaging.Encode(&png, photo, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encoding photo: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(sheetPhotoName, opts, &png)

		for _, c := range grid.Cells {
			pdf.ImageOptions(sheetPhotoName, c.X, c.Y, c.Width, c.Height, false, opts, 0, "")
		}
	}

	if tag != nil {
		if err := drawJobTag(pdf, grid, *tag); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return out.Bytes(), nil
}

func pdfOrientation(o model.Orientation) string {
	if o == model.OrientationLandscape {
		return "L"
	}
	return "P"
}
