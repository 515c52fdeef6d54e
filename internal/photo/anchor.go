package photo

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
	"github.com/muesli/smartcrop"
	"github.com/piwi3910/DocPhoto/internal/model"
)

// Anchorer picks the point a crop is centred on. The point is relative to
// the image's top-left corner.
type Anchorer interface {
	Anchor(ctx context.Context, img image.Image, target model.PhysicalSize) (image.Point, error)
}

// Anchor strategy names, as used in config files and flags.
const (
	AnchorCenter = "center"
	AnchorFace   = "face"
	AnchorSmart  = "smart"
)

// NewAnchorer builds the strategy with the given name. cascadePath is only
// read for the face strategy.
func NewAnchorer(name, cascadePath string) (Anchorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AnchorCenter:
		return CenterAnchor{}, nil
	case AnchorSmart:
		return NewSmartAnchor(), nil
	case AnchorFace:
		if cascadePath == "" {
			return nil, fmt.Errorf("face anchor needs a cascade file (layout.face_cascade)")
		}
		return LoadFaceAnchor(cascadePath)
	default:
		return nil, fmt.Errorf("unknown anchor %q (must be 'center', 'face', or 'smart')", name)
	}
}

// CenterAnchor centres the crop on the middle of the image.
type CenterAnchor struct{}

func (CenterAnchor) Anchor(_ context.Context, img image.Image, _ model.PhysicalSize) (image.Point, error) {
	b := img.Bounds()
	return image.Pt(b.Dx()/2, b.Dy()/2), nil
}

// FaceAnchor centres the crop on the most prominent detected face, and on
// the image centre when no face is confident enough.
type FaceAnchor struct {
	classifier *pigo.Pigo

	MinQ        float32 // Detections below this score are ignored
	MinSizePct  int     // Smallest face, in percent of the short image side
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64 // Clustering overlap threshold
}

// NewFaceAnchor unpacks a pigo facefinder cascade.
func NewFaceAnchor(cascade []byte) (*FaceAnchor, error) {
	if len(cascade) == 0 {
		return nil, fmt.Errorf("empty face cascade")
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpacking face cascade: %w", err)
	}
	return &FaceAnchor{
		classifier:  classifier,
		MinQ:        10,
		MinSizePct:  5,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoU:         0.2,
	}, nil
}

// LoadFaceAnchor reads a cascade file and unpacks it.
func LoadFaceAnchor(path string) (*FaceAnchor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading face cascade: %w", err)
	}
	return NewFaceAnchor(data)
}

func (f *FaceAnchor) Anchor(ctx context.Context, img image.Image, target model.PhysicalSize) (image.Point, error) {
	if err := checkContext(ctx); err != nil {
		return image.Point{}, err
	}
	if face, ok := f.findBestFace(img); ok {
		return face, nil
	}
	return CenterAnchor{}.Anchor(ctx, img, target)
}

// findBestFace returns the centre of the largest confident detection.
func (f *FaceAnchor) findBestFace(img image.Image) (image.Point, bool) {
	src := imaging.Clone(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()

	minDim := cols
	if rows < minDim {
		minDim = rows
	}
	minSize := minDim * f.MinSizePct / 100
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     minDim,
		ShiftFactor: f.ShiftFactor,
		ScaleFactor: f.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := f.classifier.RunCascade(params, 0.0)
	dets = f.classifier.ClusterDetections(dets, f.IoU)

	best := -1
	for i, d := range dets {
		if d.Q < f.MinQ {
			continue
		}
		if best < 0 || d.Scale > dets[best].Scale || (d.Scale == dets[best].Scale && d.Q > dets[best].Q) {
			best = i
		}
	}
	if best < 0 {
		return image.Point{}, false
	}
	return image.Pt(dets[best].Col, dets[best].Row), true
}

// SmartAnchor centres the crop on the region smartcrop scores highest.
type SmartAnchor struct {
	resampler imaging.ResampleFilter
}

func NewSmartAnchor() *SmartAnchor {
	return &SmartAnchor{resampler: imaging.Lanczos}
}

func (s *SmartAnchor) Anchor(ctx context.Context, img image.Image, target model.PhysicalSize) (image.Point, error) {
	if err := target.Validate(); err != nil {
		return image.Point{}, err
	}
	if err := checkContext(ctx); err != nil {
		return image.Point{}, err
	}
	analyzer := smartcrop.NewAnalyzer(&resizer{resampler: s.resampler})

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	// Ratio only; tenths of a millimetre keep fractional presets exact.
	w, h := int(target.Width*10), int(target.Height*10)
	go func() {
		crop, err := analyzer.FindBestCrop(img, w, h)
		resultChan <- cropResult{crop: crop, err: err}
	}()

	select {
	case <-ctx.Done():
		return image.Point{}, ctx.Err()
	case res := <-resultChan:
		if res.err != nil {
			return image.Point{}, fmt.Errorf("finding best crop: %w", res.err)
		}
		origin := img.Bounds().Min
		return image.Pt(
			(res.crop.Min.X+res.crop.Max.X)/2-origin.X,
			(res.crop.Min.Y+res.crop.Max.Y)/2-origin.Y,
		), nil
	}
}

// resizer implements the smartcrop resizer on top of imaging.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
