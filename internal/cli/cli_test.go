package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/retouch"
)

// testCLI runs commands against a config directory of its own.
type testCLI struct {
	t   *testing.T
	dir string

	// NewEditor replaces the AI editor for every run.
	NewEditor EditorFactory
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Cleanup(func() {
		model.CustomPhotoSizes = nil
		model.CustomSheetSizes = nil
		model.CustomPlotterProfiles = nil
	})
	return &testCLI{t: t, dir: t.TempDir()}
}

func (tc *testCLI) configPath() string {
	return filepath.Join(tc.dir, "config.toml")
}

func (tc *testCLI) run(args ...string) (string, error) {
	tc.t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	if tc.NewEditor != nil {
		c.NewEditor = tc.NewEditor
	}
	defer c.Close()

	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", tc.configPath()}, args...))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writePortrait(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "portrait.png")
	img := imaging.New(300, 400, color.NRGBA{R: 200, G: 160, B: 140, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSetVersion(t *testing.T) {
	v, c, d := version, commit, date
	t.Cleanup(func() { SetVersion(v, c, d) })

	SetVersion("1.2.3", "abc123", "2026-01-01")
	if version != "1.2.3" || commit != "abc123" || date != "2026-01-01" {
		t.Errorf("SetVersion() = %q %q %q", version, commit, date)
	}

	out, err := newTestCLI(t).run("--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "docphoto 1.2.3") || !strings.Contains(out, "commit: abc123") {
		t.Errorf("--version output = %q", out)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"sheet", "crop", "layout", "batch", "cutguide", "presets", "key", "config", "serve", "preview"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLayout(t *testing.T) {
	out, err := newTestCLI(t).run("layout", "-p", "3x4", "-s", "A6")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if !strings.Contains(out, "6 copies: 2 columns x 3 rows") {
		t.Errorf("layout output = %q", out)
	}
}

func TestLayout_JSON(t *testing.T) {
	out, err := newTestCLI(t).run("layout", "-p", "3x4", "-s", "A6", "--orientation", "landscape", "--json")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	var grid model.Grid
	if err := json.Unmarshal([]byte(out), &grid); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if len(grid.Cells) != 8 {
		t.Errorf("cells = %d, want 8", len(grid.Cells))
	}
	if grid.Sheet.Width != 148 || grid.Sheet.Height != 105 {
		t.Errorf("sheet = %v, want 148x105", grid.Sheet)
	}
}

func TestLayout_InvalidInput(t *testing.T) {
	tc := newTestCLI(t)
	for _, args := range [][]string{
		{"layout", "-p", "nope"},
		{"layout", "-s", "B99"},
		{"layout", "--margin", "-1"},
	} {
		if _, err := tc.run(args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestSheet(t *testing.T) {
	tc := newTestCLI(t)
	src := writePortrait(t, tc.dir)
	out := filepath.Join(tc.dir, "out", "sheet.png")

	if _, err := tc.run("sheet", src, "-p", "3x4", "-s", "A6", "-o", out); err != nil {
		t.Fatalf("sheet: %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := img.Bounds().Dx(), model.MMToPxFloor(105, 300); got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
}

func TestSheet_DefaultOutput(t *testing.T) {
	tc := newTestCLI(t)
	src := writePortrait(t, tc.dir)

	if _, err := tc.run("sheet", src, "-p", "3x4", "-s", "A6", "-f", "pdf"); err != nil {
		t.Fatalf("sheet: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tc.dir, "DocPhoto_3x4_A6_portrait.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestSheet_Retouch(t *testing.T) {
	tc := newTestCLI(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	var gotKey, gotPrompt string
	tc.NewEditor = func(_ context.Context, apiKey, _ string) (retouch.Editor, error) {
		gotKey = apiKey
		return retouch.EditorFunc(func(_ context.Context, image []byte, _, prompt string) ([]byte, error) {
			gotPrompt = prompt
			return image, nil
		}), nil
	}

	src := writePortrait(t, tc.dir)
	out := filepath.Join(tc.dir, "retouched.jpg")
	if _, err := tc.run("sheet", src, "-s", "A6", "--prompt", "neutral expression", "-o", out); err != nil {
		t.Fatalf("sheet: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key = %q", gotKey)
	}
	if !strings.Contains(gotPrompt, "neutral expression") {
		t.Errorf("prompt = %q", gotPrompt)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
}

func TestCrop(t *testing.T) {
	tc := newTestCLI(t)
	src := writePortrait(t, tc.dir)

	if _, err := tc.run("crop", src, "-p", "3.5x4.5"); err != nil {
		t.Fatalf("crop: %v", err)
	}
	img, err := imaging.Open(filepath.Join(tc.dir, "portrait_3.5x4.5.png"))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != model.DefaultLayoutSettings().CropWidthPx {
		t.Errorf("crop width = %d", img.Bounds().Dx())
	}
}

func TestCutguide(t *testing.T) {
	tc := newTestCLI(t)
	gcode := filepath.Join(tc.dir, "a6.gcode")
	dxf := filepath.Join(tc.dir, "a6.dxf")

	if _, err := tc.run("cutguide", "-p", "3x4", "-s", "A6", "-o", gcode); err != nil {
		t.Fatalf("cutguide: %v", err)
	}
	data, err := os.ReadFile(gcode)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Photo 6") || strings.Contains(string(data), "Photo 7") {
		t.Error("expected exactly 6 photo blocks")
	}

	if _, err := tc.run("cutguide", "-p", "3x4", "-s", "A6", "--type", "dxf", "-o", dxf); err != nil {
		t.Fatalf("cutguide dxf: %v", err)
	}
	if _, err := os.Stat(dxf); err != nil {
		t.Error(err)
	}

	if _, err := tc.run("cutguide", "-p", "9x12", "-s", "A6"); err == nil {
		t.Error("expected error for a photo that does not fit")
	}
	if _, err := tc.run("cutguide", "--type", "svg"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestConfig(t *testing.T) {
	tc := newTestCLI(t)

	out, err := tc.run("config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != tc.configPath() {
		t.Errorf("config path = %q, want %q", out, tc.configPath())
	}

	if _, err := tc.run("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := tc.run("config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := tc.run("config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}

	out, err = tc.run("config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, section := range []string{"[layout]", "[defaults]", "[retouch]", "[server]"} {
		if !strings.Contains(out, section) {
			t.Errorf("config show missing %s", section)
		}
	}
}

func TestConfig_DefaultsApply(t *testing.T) {
	tc := newTestCLI(t)
	toml := "[defaults]\nsheet = \"A6\"\norientation = \"landscape\"\n"
	if err := os.WriteFile(tc.configPath(), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := tc.run("layout", "-p", "3x4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "8 copies") {
		t.Errorf("layout with config defaults = %q", out)
	}
}

func TestPresets(t *testing.T) {
	tc := newTestCLI(t)

	if _, err := tc.run("presets", "add", "photo", "5x5", "50x50"); err != nil {
		t.Fatalf("presets add: %v", err)
	}
	out, err := tc.run("presets")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "5x5") || !strings.Contains(out, "(custom)") {
		t.Errorf("presets list = %q", out)
	}

	out, err = tc.run("layout", "-p", "5x5", "-s", "A6")
	if err != nil {
		t.Fatalf("layout with custom preset: %v", err)
	}
	if !strings.Contains(out, "5x5") {
		t.Errorf("layout = %q", out)
	}

	if _, err := tc.run("presets", "remove", "5x5"); err != nil {
		t.Fatalf("presets remove: %v", err)
	}
	if _, err := tc.run("presets", "remove", "5x5"); err == nil {
		t.Error("removing a missing preset should fail")
	}
	if _, err := tc.run("presets", "add", "poster", "x", "10x10"); err == nil {
		t.Error("unknown preset kind should fail")
	}
}

func TestOutputFor(t *testing.T) {
	job := model.NewJob()
	if got := outputFor("given.png", "dir/photo.jpg", job); got != "given.png" {
		t.Errorf("outputFor() = %q", got)
	}
	want := filepath.Join("dir", job.Filename())
	if got := outputFor("", "dir/photo.jpg", job); got != want {
		t.Errorf("outputFor() = %q, want %q", got, want)
	}
}

func TestInferFormat(t *testing.T) {
	f := jobFlags{}
	inferFormat(&f, "sheet.pdf")
	if f.format != "pdf" {
		t.Errorf("format = %q, want pdf", f.format)
	}

	f = jobFlags{format: "png"}
	inferFormat(&f, "sheet.pdf")
	if f.format != "png" {
		t.Errorf("explicit format overridden: %q", f.format)
	}

	f = jobFlags{}
	inferFormat(&f, "sheet.gif")
	if f.format != "" {
		t.Errorf("format = %q, want empty", f.format)
	}
}
