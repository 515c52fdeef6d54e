package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/piwi3910/DocPhoto/internal/model"
)

// AIMIMEType is the content type produced by PrepareForAI.
const AIMIMEType = "image/jpeg"

// PrepareForAI scales img down so its longest side is at most
// settings.AIMaxPx (never up) and encodes it as JPEG at settings.AIQuality.
// It keeps uploads to the AI editor small.
func PrepareForAI(ctx context.Context, img image.Image, settings model.LayoutSettings) ([]byte, error) {
	if settings.AIMaxPx <= 0 {
		return nil, fmt.Errorf("ai max size must be > 0, got %d", settings.AIMaxPx)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() > settings.AIMaxPx || b.Dy() > settings.AIMaxPx {
		img = imaging.Fit(img, settings.AIMaxPx, settings.AIMaxPx, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(settings.AIQuality)); err != nil {
		return nil, fmt.Errorf("encoding ai upload: %w", err)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes a working photo losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
