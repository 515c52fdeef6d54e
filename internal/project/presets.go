package project

import (
	"fmt"
	"path/filepath"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// Presets is the on-disk set of user-defined photo and sheet sizes.
type Presets struct {
	PhotoSizes []model.PhotoSize `json:"photo_sizes"`
	SheetSizes []model.SheetSize `json:"sheet_sizes"`
}

// DefaultPresetsPath returns the default file path for custom presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets saves custom presets to a JSON file.
func SavePresets(path string, presets Presets) error {
	if err := presets.Validate(); err != nil {
		return err
	}
	return writeJSON(path, presets)
}

// LoadPresets loads custom presets from a JSON file.
// Returns empty presets if the file does not exist.
func LoadPresets(path string) (Presets, error) {
	presets := Presets{PhotoSizes: []model.PhotoSize{}, SheetSizes: []model.SheetSize{}}
	if _, err := readJSON(path, &presets); err != nil {
		return Presets{}, err
	}
	if err := presets.Validate(); err != nil {
		return Presets{}, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

// Validate checks that every preset has a label and a positive size.
func (p Presets) Validate() error {
	for i, s := range p.PhotoSizes {
		if s.Label == "" {
			return fmt.Errorf("photo size %d has no label", i+1)
		}
		if err := s.Size.Validate(); err != nil {
			return fmt.Errorf("photo size %q: %w", s.Label, err)
		}
	}
	for i, s := range p.SheetSizes {
		if s.Label == "" {
			return fmt.Errorf("sheet size %d has no label", i+1)
		}
		if err := s.Size.Validate(); err != nil {
			return fmt.Errorf("sheet size %q: %w", s.Label, err)
		}
	}
	return nil
}

// Apply installs the presets as model.CustomPhotoSizes and
// model.CustomSheetSizes.
func (p Presets) Apply() {
	model.CustomPhotoSizes = p.PhotoSizes
	model.CustomSheetSizes = p.SheetSizes
}

// LoadAndApplyPresets loads presets from path and installs them.
func LoadAndApplyPresets(path string) (Presets, error) {
	presets, err := LoadPresets(path)
	if err != nil {
		return Presets{}, err
	}
	presets.Apply()
	return presets, nil
}
