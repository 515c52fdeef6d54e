package model

import "testing"

func TestGetPlotterProfile(t *testing.T) {
	if p := GetPlotterProfile("GRBL Servo"); p.Name != "GRBL Servo" {
		t.Errorf("expected GRBL Servo, got %q", p.Name)
	}
	if p := GetPlotterProfile("missing"); p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %q", p.Name)
	}
}

func TestGetPlotterProfile_CustomShadowsBuiltIn(t *testing.T) {
	CustomPlotterProfiles = []PlotterProfile{{Name: "Generic", DecimalPlaces: 1}}
	defer func() { CustomPlotterProfiles = nil }()

	if p := GetPlotterProfile("Generic"); p.DecimalPlaces != 1 || p.IsBuiltIn {
		t.Errorf("expected custom Generic, got %+v", p)
	}
	names := PlotterProfileNames()
	if len(names) != len(PlotterProfiles)+1 || names[0] != "Generic" {
		t.Errorf("expected custom names first, got %v", names)
	}
}

func TestDefaultCutGuideSettings(t *testing.T) {
	s := DefaultCutGuideSettings()
	if s.CutZ >= 0 {
		t.Errorf("cut depth must be below the surface, got %v", s.CutZ)
	}
	if s.SafeZ <= 0 || s.FeedRate <= 0 || s.BladeOffset < 0 {
		t.Errorf("unexpected defaults %+v", s)
	}
	if GetPlotterProfile(s.Profile).Name != s.Profile {
		t.Errorf("default profile %q is not built in", s.Profile)
	}
}
