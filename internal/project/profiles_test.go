package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/DocPhoto/internal/model"
)

func TestSaveAndLoadCustomProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotters.json")

	profiles := []model.PlotterProfile{
		{
			Name:          "Cricut-ish",
			Description:   "Test profile one",
			StartCode:     []string{"G21", "G90"},
			EndCode:       []string{"M2"},
			RapidMove:     "G0",
			FeedMove:      "G1",
			ArcCCW:        "G3",
			ToolDown:      "M3 S60",
			ToolUp:        "M5",
			CommentPrefix: ";",
			DecimalPlaces: 2,
			IsBuiltIn:     true,
		},
		{
			Name:          "Fanuc knife",
			RapidMove:     "G00",
			FeedMove:      "G01",
			ArcCCW:        "G03",
			ToolDown:      "G01 Z[CutZ]",
			ToolUp:        "G00 Z[SafeZ]",
			CommentPrefix: "(",
			CommentSuffix: ")",
			DecimalPlaces: 4,
		},
	}

	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	loaded, err := LoadCustomProfiles(path)
	if err != nil {
		t.Fatalf("LoadCustomProfiles failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(loaded))
	}
	if loaded[0].Name != "Cricut-ish" || loaded[0].ToolDown != "M3 S60" {
		t.Errorf("unexpected first profile %+v", loaded[0])
	}
	if loaded[0].IsBuiltIn {
		t.Error("loaded profiles must not be marked built-in")
	}
	if loaded[1].CommentSuffix != ")" || loaded[1].DecimalPlaces != 4 {
		t.Errorf("unexpected second profile %+v", loaded[1])
	}
}

func TestLoadCustomProfilesMissingFile(t *testing.T) {
	profiles, err := LoadCustomProfiles(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Errorf("expected empty slice, got %v", profiles)
	}
}

func TestLoadCustomProfilesInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotters.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCustomProfiles(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestExportAndImportProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.json")
	builtIn := model.GetPlotterProfile("GRBL Servo")

	if err := ExportProfile(path, builtIn); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}
	imported, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if imported.Name != "GRBL Servo" || imported.IsBuiltIn {
		t.Errorf("unexpected imported profile %+v", imported)
	}
	if imported.ToolDown != builtIn.ToolDown {
		t.Errorf("expected tool-down %q, got %q", builtIn.ToolDown, imported.ToolDown)
	}
}

func TestImportProfileNoName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.json")
	if err := os.WriteFile(path, []byte(`{"feed_move":"G1"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportProfile(path); err == nil {
		t.Error("expected error for profile without a name")
	}
}

func TestValidateProfile(t *testing.T) {
	valid := model.PlotterProfile{Name: "Knife", RapidMove: "G0", FeedMove: "G1", DecimalPlaces: 3}
	if err := ValidateProfile(valid); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*model.PlotterProfile)
	}{
		{"blank name", func(p *model.PlotterProfile) { p.Name = "  " }},
		{"no rapid move", func(p *model.PlotterProfile) { p.RapidMove = "" }},
		{"no feed move", func(p *model.PlotterProfile) { p.FeedMove = "" }},
		{"too many decimals", func(p *model.PlotterProfile) { p.DecimalPlaces = 9 }},
	}
	for _, tt := range tests {
		p := valid
		tt.mutate(&p)
		if err := ValidateProfile(p); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	for _, name := range model.PlotterProfileNames() {
		if err := ValidateProfile(model.GetPlotterProfile(name)); err != nil {
			t.Errorf("built-in profile %q invalid: %v", name, err)
		}
	}
}

func TestMergeProfile(t *testing.T) {
	profiles := []model.PlotterProfile{
		{Name: "A", FeedMove: "G1"},
		{Name: "B", FeedMove: "G1"},
	}
	merged := MergeProfile(profiles, model.PlotterProfile{Name: "a", FeedMove: "G01"})
	if len(merged) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(merged))
	}
	if merged[0].Name != "B" || merged[1].FeedMove != "G01" {
		t.Errorf("unexpected merge result %+v", merged)
	}
	if len(profiles) != 2 || profiles[0].Name != "A" {
		t.Error("MergeProfile modified its input")
	}

	merged = MergeProfile(nil, model.PlotterProfile{Name: "C"})
	if len(merged) != 1 {
		t.Errorf("expected 1 profile, got %d", len(merged))
	}
}

func TestImportProfileMissingFile(t *testing.T) {
	_, err := ImportProfile(filepath.Join(t.TempDir(), "none.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
