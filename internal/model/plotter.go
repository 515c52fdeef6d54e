package model

// PlotterProfile describes the G-code dialect of a cutting plotter or a
// drag-knife attachment on a small CNC.
type PlotterProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	StartCode []string `json:"start_code"` // Commands at start of file
	EndCode   []string `json:"end_code"`   // Commands at end of file; [SafeZ] is substituted

	RapidMove string `json:"rapid_move"` // G0 or equivalent
	FeedMove  string `json:"feed_move"`  // G1 or equivalent
	ArcCCW    string `json:"arc_ccw"`    // G3 or equivalent

	// Blade control. [CutZ], [SafeZ] and [PlungeRate] are substituted.
	ToolDown string `json:"tool_down"`
	ToolUp   string `json:"tool_up"`

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"`
	DecimalPlaces int    `json:"decimal_places"`

	IsBuiltIn bool `json:"-"`
}

// PlotterProfiles are the built-in dialects. Generic must stay last.
var PlotterProfiles = []PlotterProfile{
	{
		Name:          "GRBL Drag Knife",
		Description:   "Z-axis drag knife on a GRBL router",
		StartCode:     []string{"G21", "G90", "G17"},
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M2"},
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCCW:        "G3",
		ToolDown:      "G1 Z[CutZ] F[PlungeRate]",
		ToolUp:        "G0 Z[SafeZ]",
		CommentPrefix: ";",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
	{
		Name:          "GRBL Servo",
		Description:   "Servo-lifted blade on a GRBL pen plotter",
		StartCode:     []string{"G21", "G90", "M5"},
		EndCode:       []string{"M5", "G0 X0 Y0", "M2"},
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCCW:        "G3",
		ToolDown:      "M3 S90\nG4 P0.2",
		ToolUp:        "M5\nG4 P0.2",
		CommentPrefix: ";",
		DecimalPlaces: 2,
		IsBuiltIn:     true,
	},
	{
		Name:          "Generic",
		Description:   "Plain RS-274 with Z blade control",
		StartCode:     []string{"G21", "G90"},
		EndCode:       []string{"G0 Z[SafeZ]", "M30"},
		RapidMove:     "G0",
		FeedMove:      "G1",
		ArcCCW:        "G3",
		ToolDown:      "G1 Z[CutZ] F[PlungeRate]",
		ToolUp:        "G0 Z[SafeZ]",
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 3,
		IsBuiltIn:     true,
	},
}

// CustomPlotterProfiles are user-defined dialects loaded at startup.
var CustomPlotterProfiles []PlotterProfile

// GetPlotterProfile returns the profile with the given name, custom profiles
// first. Unknown names fall back to Generic.
func GetPlotterProfile(name string) PlotterProfile {
	for _, p := range CustomPlotterProfiles {
		if p.Name == name {
			return p
		}
	}
	for _, p := range PlotterProfiles {
		if p.Name == name {
			return p
		}
	}
	return PlotterProfiles[len(PlotterProfiles)-1]
}

// PlotterProfileNames returns the names of all available profiles.
func PlotterProfileNames() []string {
	var names []string
	for _, p := range CustomPlotterProfiles {
		names = append(names, p.Name)
	}
	for _, p := range PlotterProfiles {
		names = append(names, p.Name)
	}
	return names
}

// CutGuideSettings configures trim-path output for a printed sheet.
type CutGuideSettings struct {
	Profile     string  `toml:"profile" json:"profile"`
	FeedRate    float64 `toml:"feed_rate" json:"feed_rate"`       // mm/min while cutting
	PlungeRate  float64 `toml:"plunge_rate" json:"plunge_rate"`   // mm/min lowering the blade
	CutZ        float64 `toml:"cut_z" json:"cut_z"`               // Blade depth, negative
	SafeZ       float64 `toml:"safe_z" json:"safe_z"`             // Travel height
	BladeOffset float64 `toml:"blade_offset" json:"blade_offset"` // Tip trail behind the pivot, mm; 0 for a tangential knife
	Overcut     float64 `toml:"overcut" json:"overcut"`           // Extra cut past the start point, mm
	OriginX     float64 `toml:"origin_x" json:"origin_x"`         // Sheet corner on the machine bed
	OriginY     float64 `toml:"origin_y" json:"origin_y"`
}

// DefaultCutGuideSettings returns settings for a 0.25 mm offset drag knife.
func DefaultCutGuideSettings() CutGuideSettings {
	return CutGuideSettings{
		Profile:     "GRBL Drag Knife",
		FeedRate:    800,
		PlungeRate:  200,
		CutZ:        -0.3,
		SafeZ:       3,
		BladeOffset: 0.25,
		Overcut:     1,
	}
}
