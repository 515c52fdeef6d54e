// Package photo turns an uploaded portrait into the working photo that is
// tiled onto a sheet: decoding, anchoring, cropping and AI pre-scaling.
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// ErrDecode is returned when the input is not a readable image.
var ErrDecode = errors.New("decode image")

// Decode reads an image in any registered format and applies its EXIF
// orientation. The returned string is the format name ("jpeg", "png", ...).
func Decode(ctx context.Context, r io.Reader) (image.Image, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading input: %v", ErrDecode, err)
	}
	return DecodeBytes(ctx, data)
}

// DecodeBytes is Decode for an in-memory image.
func DecodeBytes(ctx context.Context, data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, format, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// MIMEType maps a decoder format name to its content type.
func MIMEType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
