package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// DefaultProfilesPath returns the default file path for custom plotter profiles.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "plotters.json")
}

// ValidateProfile checks that a plotter profile can drive the cut guide
// generator.
func ValidateProfile(p model.PlotterProfile) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.New("plotter profile has no name")
	case p.RapidMove == "" || p.FeedMove == "":
		return fmt.Errorf("plotter profile %q: rapid and feed moves are required", p.Name)
	case p.DecimalPlaces < 0 || p.DecimalPlaces > 6:
		return fmt.Errorf("plotter profile %q: decimal places must be in 0..6, got %d", p.Name, p.DecimalPlaces)
	}
	return nil
}

// SaveCustomProfiles writes custom plotter profiles to path.
func SaveCustomProfiles(path string, profiles []model.PlotterProfile) error {
	for _, p := range profiles {
		if err := ValidateProfile(p); err != nil {
			return err
		}
	}
	return writeJSON(path, profiles)
}

// LoadCustomProfiles reads custom plotter profiles. A missing file yields
// an empty slice.
func LoadCustomProfiles(path string) ([]model.PlotterProfile, error) {
	profiles := []model.PlotterProfile{}
	if _, err := readJSON(path, &profiles); err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].IsBuiltIn = false
		if err := ValidateProfile(profiles[i]); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return profiles, nil
}

// MergeProfile returns profiles with p added, replacing a profile of the
// same name.
func MergeProfile(profiles []model.PlotterProfile, p model.PlotterProfile) []model.PlotterProfile {
	out := make([]model.PlotterProfile, 0, len(profiles)+1)
	for _, existing := range profiles {
		if !strings.EqualFold(existing.Name, p.Name) {
			out = append(out, existing)
		}
	}
	return append(out, p)
}

// ExportProfile writes one profile to path for sharing.
func ExportProfile(path string, profile model.PlotterProfile) error {
	profile.IsBuiltIn = false
	return writeJSON(path, profile)
}

// ImportProfile reads a profile written by ExportProfile.
func ImportProfile(path string) (model.PlotterProfile, error) {
	var profile model.PlotterProfile
	found, err := readJSON(path, &profile)
	if err != nil {
		return model.PlotterProfile{}, err
	}
	if !found {
		return model.PlotterProfile{}, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	profile.IsBuiltIn = false
	if err := ValidateProfile(profile); err != nil {
		return model.PlotterProfile{}, err
	}
	return profile, nil
}
