package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/DocPhoto/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	presets := Presets{
		PhotoSizes: []model.PhotoSize{{Label: "5x5 US", Size: model.PhysicalSize{Width: 51, Height: 51}}},
		SheetSizes: []model.SheetSize{{Label: "10x15", Size: model.PhysicalSize{Width: 102, Height: 152}}},
	}

	if err := SavePresets(path, presets); err != nil {
		t.Fatalf("SavePresets failed: %v", err)
	}
	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}

	if len(loaded.PhotoSizes) != 1 || loaded.PhotoSizes[0].Size.Width != 51 {
		t.Errorf("unexpected photo sizes %+v", loaded.PhotoSizes)
	}
	if len(loaded.SheetSizes) != 1 || loaded.SheetSizes[0].Label != "10x15" {
		t.Errorf("unexpected sheet sizes %+v", loaded.SheetSizes)
	}
	if loaded.SheetSizes[0].IsBuiltIn {
		t.Error("loaded presets must not be marked built-in")
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if presets.PhotoSizes == nil || presets.SheetSizes == nil {
		t.Error("expected non-nil empty slices")
	}
}

func TestSavePresetsRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	err := SavePresets(path, Presets{PhotoSizes: []model.PhotoSize{{Label: "", Size: model.PhysicalSize{Width: 1, Height: 1}}}})
	if err == nil {
		t.Error("expected error for missing label")
	}
	err = SavePresets(path, Presets{SheetSizes: []model.SheetSize{{Label: "bad", Size: model.PhysicalSize{Width: 0, Height: 10}}}})
	if err == nil {
		t.Error("expected error for zero width")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("invalid presets must not be written")
	}
}

func TestLoadPresetsInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(`{"photo_sizes":[{"label":"x","size":{"width":-1,"height":2}}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadAndApplyPresets(t *testing.T) {
	defer Presets{}.Apply()

	path := filepath.Join(t.TempDir(), "presets.json")
	presets := Presets{SheetSizes: []model.SheetSize{{Label: "Postcard", Size: model.PhysicalSize{Width: 100, Height: 148}}}}
	if err := SavePresets(path, presets); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAndApplyPresets(path); err != nil {
		t.Fatalf("LoadAndApplyPresets failed: %v", err)
	}
	sheet, err := model.LookupSheetSize("postcard")
	if err != nil {
		t.Fatalf("expected custom sheet to resolve: %v", err)
	}
	if sheet.Size.Width != 100 {
		t.Errorf("expected width 100, got %f", sheet.Size.Width)
	}
}
