package photo

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/piwi3910/DocPhoto/internal/model"
)

// CropRect returns the largest rectangle with the target's aspect ratio that
// fits in a srcW x srcH image. Along the axis with slack the rectangle is
// centred on anchor and clamped to the image. Coordinates are relative to
// the image's top-left corner. Degenerate input gives an empty rectangle.
func CropRect(srcW, srcH int, target model.PhysicalSize, anchor image.Point) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || target.Validate() != nil {
		return image.Rectangle{}
	}

	ratio := target.Aspect()
	imgRatio := float64(srcW) / float64(srcH)

	w, h := srcW, srcH
	if imgRatio > ratio {
		w = clampInt(int(math.Round(float64(srcH)*ratio)), 1, srcW)
	} else {
		h = clampInt(int(math.Round(float64(srcW)/ratio)), 1, srcH)
	}

	x := clampInt(anchor.X-w/2, 0, srcW-w)
	y := clampInt(anchor.Y-h/2, 0, srcH-h)
	return image.Rect(x, y, x+w, y+h)
}

// OutputSize returns the pixel size of the cropped working photo: the
// configured width and a height that keeps the target's aspect ratio.
func OutputSize(target model.PhysicalSize, widthPx int) (int, int) {
	h := int(math.Round(float64(widthPx) * target.Height / target.Width))
	if h < 1 {
		h = 1
	}
	return widthPx, h
}

// ResizeAndCrop crops img to the target aspect ratio around the anchor
// chosen by anchorer (centre when nil) and resamples the result to
// settings.CropWidthPx wide. The output is opaque: transparent source
// pixels are composited over white.
func ResizeAndCrop(ctx context.Context, img image.Image, target model.PhysicalSize, settings model.LayoutSettings, anchorer Anchorer) (*image.NRGBA, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("crop target: %w", err)
	}
	if settings.CropWidthPx <= 0 {
		return nil, fmt.Errorf("crop width must be > 0, got %d", settings.CropWidthPx)
	}
	if anchorer == nil {
		anchorer = CenterAnchor{}
	}

	b := img.Bounds()
	anchor, err := anchorer.Anchor(ctx, img, target)
	if err != nil {
		return nil, fmt.Errorf("finding crop anchor: %w", err)
	}

	rect := CropRect(b.Dx(), b.Dy(), target, anchor)
	if rect.Empty() {
		return nil, fmt.Errorf("%w: cannot crop %dx%d image", ErrDecode, b.Dx(), b.Dy())
	}
	cropped := imaging.Crop(img, rect.Add(b.Min))

	outW, outH := OutputSize(target, settings.CropWidthPx)
	resized := resizeWithContext(ctx, cropped, outW, outH, imaging.Lanczos)
	if resized == nil {
		return nil, ctx.Err()
	}

	backing := imaging.New(outW, outH, color.White)
	return imaging.Overlay(backing, resized, image.Pt(0, 0), 1.0), nil
}

// resizeWithContext runs the resample in a goroutine so that a cancelled
// context returns promptly. It returns nil when ctx is done first.
func resizeWithContext(ctx context.Context, img image.Image, w, h int, filter imaging.ResampleFilter) *image.NRGBA {
	result := make(chan *image.NRGBA, 1)
	go func() {
		result <- imaging.Resize(img, w, h, filter)
	}()

	select {
	case <-ctx.Done():
		return nil
	case r := <-result:
		return r
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
