package project

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/DocPhoto/internal/model"
)

// backupVersion is written to every backup. Imports accept any non-empty
// version.
const backupVersion = "1"

// BackupData is everything a user can customise, in one file.
type BackupData struct {
	Version   string                 `json:"version"`
	CreatedAt string                 `json:"created_at"`
	Config    model.AppConfig        `json:"config"`
	Presets   Presets                `json:"presets"`
	Plotters  []model.PlotterProfile `json:"plotters,omitempty"`
}

// ExportAllData writes config, custom presets and plotter profiles to path.
func ExportAllData(path string, config model.AppConfig, presets Presets, plotters []model.PlotterProfile) error {
	return writeJSON(path, BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
		Plotters:  plotters,
	})
}

// ImportAllData reads and validates a backup. Config fields missing from
// the file keep their defaults. Nothing is applied.
func ImportAllData(path string) (BackupData, error) {
	backup := BackupData{Config: model.DefaultAppConfig()}
	found, err := readJSON(path, &backup)
	if err != nil {
		return BackupData{}, err
	}
	if !found {
		return BackupData{}, fmt.Errorf("backup %s: %w", path, os.ErrNotExist)
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	if err := backup.Presets.Validate(); err != nil {
		return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
	}
	for i := range backup.Plotters {
		backup.Plotters[i].IsBuiltIn = false
		if err := ValidateProfile(backup.Plotters[i]); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
		}
	}
	return backup, nil
}
