package model

import "testing"

func TestBuiltInPresets(t *testing.T) {
	if len(PhotoSizes) != 4 {
		t.Errorf("expected 4 built-in photo sizes, got %d", len(PhotoSizes))
	}
	if len(SheetSizes) != 3 {
		t.Errorf("expected 3 built-in sheet sizes, got %d", len(SheetSizes))
	}
	for _, p := range PhotoSizes {
		if err := p.Size.Validate(); err != nil || !p.IsBuiltIn {
			t.Errorf("bad built-in photo size %+v: %v", p, err)
		}
	}
}

func TestLookupPhotoSize(t *testing.T) {
	p, err := LookupPhotoSize("3.5 x 4.5 cm")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Size != (PhysicalSize{Width: 35, Height: 45}) {
		t.Errorf("unexpected size %v", p.Size)
	}

	p, err = LookupPhotoSize("25x35")
	if err != nil {
		t.Fatalf("explicit size: %v", err)
	}
	if p.Size != (PhysicalSize{Width: 25, Height: 35}) || p.IsBuiltIn {
		t.Errorf("unexpected explicit size %+v", p)
	}

	if _, err := LookupPhotoSize("passport"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestLookupSheetSize(t *testing.T) {
	s, err := LookupSheetSize("a5")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if s.Size != (PhysicalSize{Width: 148, Height: 210}) {
		t.Errorf("unexpected A5 size %v", s.Size)
	}
	if _, err := LookupSheetSize("B5"); err == nil {
		t.Error("expected error for unknown sheet")
	}
}

func TestCustomPresetsComeFirst(t *testing.T) {
	CustomPhotoSizes = []PhotoSize{{Label: "3x4", Size: PhysicalSize{Width: 31, Height: 41}}}
	CustomSheetSizes = []SheetSize{{Label: "Letter", Size: PhysicalSize{Width: 215.9, Height: 279.4}}}
	defer func() {
		CustomPhotoSizes = nil
		CustomSheetSizes = nil
	}()

	if got := len(AllPhotoSizes()); got != len(PhotoSizes)+1 {
		t.Errorf("expected %d photo sizes, got %d", len(PhotoSizes)+1, got)
	}
	p, err := LookupPhotoSize("3x4")
	if err != nil {
		t.Fatal(err)
	}
	if p.Size.Width != 31 {
		t.Errorf("custom preset should shadow built-in, got %v", p.Size)
	}
	if _, err := LookupSheetSize("letter"); err != nil {
		t.Errorf("custom sheet not found: %v", err)
	}
	if labels := SheetSizeLabels(); labels[0] != "Letter" {
		t.Errorf("expected custom sheet first, got %v", labels)
	}
}

func TestGetBackground(t *testing.T) {
	if b := GetBackground("Blue"); b.Hex != "#1E40AF" {
		t.Errorf("expected blue, got %+v", b)
	}
	if b := GetBackground("#e5e7eb"); b.Label != "grey" {
		t.Errorf("expected grey by hex, got %+v", b)
	}
	if b := GetBackground("#ff0000"); b.Hex != "#FF0000" {
		t.Errorf("expected custom hex, got %+v", b)
	}
	if b := GetBackground("chartreuse"); b.Label != "white" {
		t.Errorf("expected white fallback, got %+v", b)
	}
}
