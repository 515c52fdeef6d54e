// Package cli implements the docphoto command-line interface.
//
// Every command reads the TOML config (see project.LoadAppConfig) before it
// runs, so config defaults apply unless a flag overrides them. Custom photo
// and sheet presets and plotter profiles are loaded from files next to the
// config.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/photo"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
	"github.com/piwi3910/DocPhoto/internal/project"
	"github.com/piwi3910/DocPhoto/internal/retouch"
)

const appName = "docphoto"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information shown by --version. main calls
// it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// EditorFactory builds the remote AI editor from an API key and model name.
type EditorFactory func(ctx context.Context, apiKey, model string) (retouch.Editor, error)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // Command output that is not logging
	Config model.AppConfig

	// NewEditor builds the AI editor; tests replace it.
	NewEditor EditorFactory

	configPath string
	verbose    bool
	logCloser  io.Closer
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Out:        os.Stdout,
		Config:     model.DefaultAppConfig(),
		NewEditor:  geminiEditor,
		configPath: project.DefaultConfigPath(),
	}
}

func geminiEditor(ctx context.Context, apiKey, model string) (retouch.Editor, error) {
	return retouch.NewGeminiEditor(ctx, apiKey, model)
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logCloser != nil {
		return c.logCloser.Close()
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "DocPhoto lays out document photos on printable sheets",
		Long: `DocPhoto crops a portrait to a document-photo format (3x4, 3.5x4.5, ...),
optionally retouches it with an AI image editor, and tiles as many copies
as fit onto a printable sheet rendered as JPG, PNG or PDF.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "config file")

	root.AddCommand(c.sheetCommand())
	root.AddCommand(c.cropCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.cutguideCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.keyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())

	return root
}

// configDir is where presets and plotter profiles live: next to the config.
func (c *CLI) configDir() string {
	return filepath.Dir(c.configPath)
}

func (c *CLI) presetsPath() string {
	return filepath.Join(c.configDir(), filepath.Base(project.DefaultPresetsPath()))
}

func (c *CLI) profilesPath() string {
	return filepath.Join(c.configDir(), filepath.Base(project.DefaultProfilesPath()))
}

// loadConfig reads the config, custom presets and plotter profiles, and
// attaches the log file.
func (c *CLI) loadConfig() error {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if _, err := project.LoadAndApplyPresets(c.presetsPath()); err != nil {
		return err
	}
	profiles, err := project.LoadCustomProfiles(c.profilesPath())
	if err != nil {
		return err
	}
	model.CustomPlotterProfiles = profiles

	if lj := logFile(cfg.Log); lj != nil && c.logCloser == nil {
		c.Logger.SetOutput(io.MultiWriter(os.Stderr, lj))
		c.logCloser = lj
	}
	c.Logger.Debug("loaded config", "path", c.configPath,
		"photo_presets", len(model.CustomPhotoSizes), "sheet_presets", len(model.CustomSheetSizes), "plotters", len(profiles))
	return nil
}

// settings returns the layout settings from config with flag overrides applied.
func (c *CLI) settings(lf *layoutFlags, cmd *cobra.Command) (model.LayoutSettings, error) {
	s := model.DefaultLayoutSettings()
	c.Config.ApplyToSettings(&s)
	if lf != nil {
		lf.apply(cmd, &s)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %v", pipeline.ErrInvalidInput, err)
	}
	return s, nil
}

// newPipeline builds a pipeline from config. withRetouch attaches the AI
// editor; without an API key that is an error unless optional is set.
func (c *CLI) newPipeline(ctx context.Context, settings model.LayoutSettings, anchor string, withRetouch, optional bool) (*pipeline.Pipeline, error) {
	p := pipeline.New(settings, c.Logger)
	if optional {
		p.Policy = pipeline.RetouchOptional
	}

	if anchor == "" {
		anchor = c.Config.Layout.Anchor
	}
	anchorer, err := photo.NewAnchorer(anchor, c.Config.Layout.FaceCascade)
	if err != nil {
		return nil, err
	}
	p.Anchorer = anchorer

	if !withRetouch {
		return p, nil
	}
	key, err := retouch.LookupAPIKey(c.Config.Retouch.APIKeyEnv)
	if err != nil {
		if optional {
			c.Logger.Warn("retouch disabled", "err", err)
			return p, nil
		}
		return nil, fmt.Errorf("retouch: %w (set %s or run '%s key set')", err, c.Config.Retouch.APIKeyEnv, appName)
	}
	editor, err := c.NewEditor(ctx, key, c.Config.Retouch.Model)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(c.Config.Retouch.TimeoutSec) * time.Second
	p.Retoucher = retouch.NewService(editor, settings, c.Config.Retouch.RequestsPerMin, timeout)
	return p, nil
}
