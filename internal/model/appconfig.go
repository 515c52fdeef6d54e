package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	Layout   LayoutConfig     `toml:"layout" json:"layout"`
	Defaults DefaultsConfig   `toml:"defaults" json:"defaults"`
	Retouch  RetouchConfig    `toml:"retouch" json:"retouch"`
	Log      LogConfig        `toml:"log" json:"log"`
	Server   ServerConfig     `toml:"server" json:"server"`
	CutGuide CutGuideSettings `toml:"cutguide" json:"cutguide"`
}

// LayoutConfig mirrors LayoutSettings with documented units.
type LayoutConfig struct {
	MarginMM    float64 `toml:"margin_mm" json:"margin_mm"`
	SpacingMM   float64 `toml:"spacing_mm" json:"spacing_mm"`
	DPI         float64 `toml:"dpi" json:"dpi"`
	JPEGQuality int     `toml:"jpeg_quality" json:"jpeg_quality"`
	CropWidthPx int     `toml:"crop_width_px" json:"crop_width_px"`
	AIMaxPx     int     `toml:"ai_max_px" json:"ai_max_px"`
	AIQuality   int     `toml:"ai_quality" json:"ai_quality"`
	JobTag      bool    `toml:"job_tag" json:"job_tag"`
	Anchor      string  `toml:"anchor" json:"anchor"`             // "center", "face", "smart"
	FaceCascade string  `toml:"face_cascade" json:"face_cascade"` // pigo facefinder file, for anchor=face
}

// DefaultsConfig are the presets pre-selected for a new job.
type DefaultsConfig struct {
	Photo       string `toml:"photo" json:"photo"`
	Sheet       string `toml:"sheet" json:"sheet"`
	Orientation string `toml:"orientation" json:"orientation"`
	Format      string `toml:"format" json:"format"`
	Background  string `toml:"background" json:"background"`
}

// RetouchConfig configures the remote AI editor.
type RetouchConfig struct {
	Model          string  `toml:"model" json:"model"`
	APIKeyEnv      string  `toml:"api_key_env" json:"api_key_env"`           // Env var checked before the keyring
	RequestsPerMin float64 `toml:"requests_per_min" json:"requests_per_min"` // Shared limit for batch runs
	TimeoutSec     int     `toml:"timeout_sec" json:"timeout_sec"`
}

// LogConfig configures the optional rotating log file.
type LogConfig struct {
	File       string `toml:"file" json:"file"` // Empty disables file logging
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string `toml:"addr" json:"addr"`
	MaxUploadMB    int    `toml:"max_upload_mb" json:"max_upload_mb"`
	RequestTimeout int    `toml:"request_timeout_sec" json:"request_timeout_sec"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultLayoutSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultLayoutSettings()
	return AppConfig{
		Layout: LayoutConfig{
			MarginMM:    defaults.MarginMM,
			SpacingMM:   defaults.SpacingMM,
			DPI:         defaults.DPI,
			JPEGQuality: defaults.JPEGQuality,
			CropWidthPx: defaults.CropWidthPx,
			AIMaxPx:     defaults.AIMaxPx,
			AIQuality:   defaults.AIQuality,
			JobTag:      defaults.JobTag,
			Anchor:      "center",
		},
		Defaults: DefaultsConfig{
			Photo:       PhotoSizes[0].Label,
			Sheet:       SheetSizes[0].Label,
			Orientation: OrientationPortrait.String(),
			Format:      FormatJPG.Ext(),
			Background:  Backgrounds[0].Label,
		},
		Retouch: RetouchConfig{
			Model:          "gemini-2.5-flash-image",
			APIKeyEnv:      "GEMINI_API_KEY",
			RequestsPerMin: 10,
			TimeoutSec:     120,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 2,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			MaxUploadMB:    20,
			RequestTimeout: 180,
		},
		CutGuide: DefaultCutGuideSettings(),
	}
}

// ApplyToSettings copies the layout values from AppConfig into a LayoutSettings struct.
// The guide colour is not configurable and is left untouched.
func (c AppConfig) ApplyToSettings(s *LayoutSettings) {
	l := c.Layout
	s.MarginMM = l.MarginMM
	s.SpacingMM = l.SpacingMM
	s.DPI = l.DPI
	s.JPEGQuality = l.JPEGQuality
	s.CropWidthPx = l.CropWidthPx
	s.AIMaxPx = l.AIMaxPx
	s.AIQuality = l.AIQuality
	s.JobTag = l.JobTag
}

// NewJob creates a job pre-filled from the configured defaults. Unknown
// preset names fall back to the first built-in.
func (c AppConfig) NewJob() Job {
	job := NewJob()
	if p, err := LookupPhotoSize(c.Defaults.Photo); err == nil {
		job.Photo = p
	}
	if s, err := LookupSheetSize(c.Defaults.Sheet); err == nil {
		job.Sheet = s
	}
	if o, err := ParseOrientation(c.Defaults.Orientation); err == nil {
		job.Orientation = o
	}
	if f, err := ParseExportFormat(c.Defaults.Format); err == nil {
		job.Format = f
	}
	if c.Defaults.Background != "" {
		job.Background = GetBackground(c.Defaults.Background)
	}
	return job
}
