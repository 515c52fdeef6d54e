package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultPrompt is sent to the AI editor when the user gives no instruction.
const DefaultPrompt = "Professional document photo quality"

// Job is one sheet request: which photo format, on which sheet, in which
// orientation and output format.
type Job struct {
	ID          string       `json:"id"`
	Photo       PhotoSize    `json:"photo"`
	Sheet       SheetSize    `json:"sheet"`
	Orientation Orientation  `json:"orientation"`
	Format      ExportFormat `json:"format"`

	// Retouching; Retouch false skips the AI editor entirely.
	Retouch    bool       `json:"retouch"`
	Prompt     string     `json:"prompt,omitempty"`
	Background Background `json:"background"`
}

// NewJob creates a job with a generated ID and the first built-in presets.
func NewJob() Job {
	return Job{
		ID:          uuid.New().String()[:8],
		Photo:       PhotoSizes[0],
		Sheet:       SheetSizes[0],
		Orientation: OrientationPortrait,
		Format:      FormatJPG,
		Background:  Backgrounds[0],
	}
}

// Validate checks the job's sizes and format.
func (j Job) Validate() error {
	if err := j.Photo.Size.Validate(); err != nil {
		return fmt.Errorf("photo: %w", err)
	}
	if err := j.Sheet.Size.Validate(); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if _, err := ParseExportFormat(string(j.Format)); err != nil {
		return err
	}
	return nil
}

// EffectivePrompt returns the job's prompt, or DefaultPrompt when blank.
func (j Job) EffectivePrompt() string {
	if strings.TrimSpace(j.Prompt) == "" {
		return DefaultPrompt
	}
	return j.Prompt
}

// SheetLayout returns the sheet size after applying the job's orientation.
func (j Job) SheetLayout() PhysicalSize {
	return j.Orientation.Apply(j.Sheet.Size)
}

// Filename returns the suggested download name, e.g.
// DocPhoto_3x4_A4_portrait.jpg.
func (j Job) Filename() string {
	photo := strings.ReplaceAll(j.Photo.Label, " ", "")
	sheet := strings.ReplaceAll(j.Sheet.Label, " ", "")
	return fmt.Sprintf("DocPhoto_%s_%s_%s.%s", photo, sheet, j.Orientation, j.Format.Ext())
}

// JobOptions are the textual job fields accepted from flags and forms.
// Empty fields keep the base job's value.
type JobOptions struct {
	Photo       string `json:"photo"`
	Sheet       string `json:"sheet"`
	Orientation string `json:"orientation"`
	Format      string `json:"format"`
	Retouch     bool   `json:"retouch"`
	Prompt      string `json:"prompt"`
	Background  string `json:"background"`
}

// Apply resolves the options on top of base. A non-blank prompt turns
// retouching on.
func (o JobOptions) Apply(base Job) (Job, error) {
	job := base
	if o.Photo != "" {
		p, err := LookupPhotoSize(o.Photo)
		if err != nil {
			return base, err
		}
		job.Photo = p
	}
	if o.Sheet != "" {
		s, err := LookupSheetSize(o.Sheet)
		if err != nil {
			return base, err
		}
		job.Sheet = s
	}
	if o.Orientation != "" {
		or, err := ParseOrientation(o.Orientation)
		if err != nil {
			return base, err
		}
		job.Orientation = or
	}
	if o.Format != "" {
		f, err := ParseExportFormat(o.Format)
		if err != nil {
			return base, err
		}
		job.Format = f
	}
	if o.Background != "" {
		job.Background = GetBackground(o.Background)
	}
	if strings.TrimSpace(o.Prompt) != "" {
		job.Prompt = o.Prompt
	}
	job.Retouch = job.Retouch || o.Retouch || strings.TrimSpace(o.Prompt) != ""
	return job, nil
}
