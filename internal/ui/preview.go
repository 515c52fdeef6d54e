package ui

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/DocPhoto/internal/cutguide"
	"github.com/piwi3910/DocPhoto/internal/export"
	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/pipeline"
	"github.com/piwi3910/DocPhoto/internal/ui/widgets"
)

const (
	previewWidth  = 520
	previewHeight = 640
)

// Preview is a window that lays out one photo and re-packs it as the job
// and layout settings change. The sheet is only rendered when saved.
type Preview struct {
	window   fyne.Window
	pipeline *pipeline.Pipeline
	source   image.Image
	job      model.Job
	guide    model.CutGuideSettings

	// Working state; cropped tracks the photo size it was cut for.
	cropped    *image.NRGBA
	croppedFor model.PhysicalSize
	grid       model.Grid

	sheetCanvas *widgets.SheetCanvas
	guideHolder *fyne.Container
	status      *widget.Label
}

// NewPreview creates a preview for the decoded source photo. The job's
// retouch flag is ignored: source is expected to be final.
func NewPreview(window fyne.Window, p *pipeline.Pipeline, source image.Image, job model.Job, guide model.CutGuideSettings) *Preview {
	job.Retouch = false
	return &Preview{
		window:   window,
		pipeline: p,
		source:   source,
		job:      job,
		guide:    guide,
	}
}

// Job returns the job as currently configured.
func (pv *Preview) Job() model.Job { return pv.job }

// Grid returns the current layout.
func (pv *Preview) Grid() model.Grid { return pv.grid }

// SetJob replaces the job and re-lays the sheet.
func (pv *Preview) SetJob(job model.Job) error {
	job.Retouch = false
	pv.job = job
	return pv.refresh()
}

// Build creates the window content.
func (pv *Preview) Build() fyne.CanvasObject {
	pv.sheetCanvas = widgets.NewSheetCanvas(model.Grid{}, nil, pv.pipeline.Settings.MarginMM, previewWidth, previewHeight)
	pv.guideHolder = container.NewStack()
	pv.status = widget.NewLabel("")
	if err := pv.refresh(); err != nil {
		pv.status.SetText("Error: " + err.Error())
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Sheet", container.NewCenter(pv.sheetCanvas)),
		container.NewTabItem("Cut guide", container.NewCenter(pv.guideHolder)),
	)
	tabs.SetTabLocation(container.TabLocationTop)

	toolbar := container.NewHBox(
		toolbarButton(theme.DocumentSaveIcon(), "Save sheet", pv.saveSheetDialog),
		toolbarButton(theme.ContentCutIcon(), "Export cut guide (G-code)", pv.saveGuideDialog),
		layout.NewSpacer(),
		pv.status,
	)

	content := container.NewBorder(toolbar, nil, container.NewVScroll(pv.buildSidebar()), nil, tabs)
	if pv.window == nil {
		return content
	}
	return fynetooltip.AddWindowToolTipLayer(content, pv.window.Canvas())
}

func (pv *Preview) buildSidebar() fyne.CanvasObject {
	photoSelect := widget.NewSelect(model.PhotoSizeLabels(), func(label string) {
		pv.update(func(job *model.Job) error {
			p, err := model.LookupPhotoSize(label)
			job.Photo = p
			return err
		})
	})
	photoSelect.SetSelected(pv.job.Photo.Label)

	sheetSelect := widget.NewSelect(model.SheetSizeLabels(), func(label string) {
		pv.update(func(job *model.Job) error {
			s, err := model.LookupSheetSize(label)
			job.Sheet = s
			return err
		})
	})
	sheetSelect.SetSelected(pv.job.Sheet.Label)

	orientation := widget.NewRadioGroup([]string{model.OrientationPortrait.String(), model.OrientationLandscape.String()}, func(v string) {
		pv.update(func(job *model.Job) error {
			o, err := model.ParseOrientation(v)
			job.Orientation = o
			return err
		})
	})
	orientation.Horizontal = true
	orientation.SetSelected(pv.job.Orientation.String())

	format := widget.NewSelect([]string{string(model.FormatJPG), string(model.FormatPNG), string(model.FormatPDF)}, func(v string) {
		pv.update(func(job *model.Job) error {
			f, err := model.ParseExportFormat(v)
			job.Format = f
			return err
		})
	})
	format.SetSelected(string(pv.job.Format))

	jobCard := widget.NewCard("Job", "", container.NewVBox(
		widget.NewLabel("Photo size"), photoSelect,
		widget.NewLabel("Sheet"), sheetSelect,
		orientation,
		widget.NewLabel("Format"), format,
	))

	settings := &pv.pipeline.Settings
	layoutCard := widget.NewCard("Layout", "", container.NewGridWithColumns(2,
		widget.NewLabel("Margin (mm)"), pv.floatEntry(&settings.MarginMM),
		widget.NewLabel("Spacing (mm)"), pv.floatEntry(&settings.SpacingMM),
		widget.NewLabel("DPI"), pv.floatEntry(&settings.DPI),
	))

	profile := widget.NewSelect(model.PlotterProfileNames(), func(name string) {
		pv.guide.Profile = name
		pv.refreshGuide()
	})
	profile.SetSelected(model.GetPlotterProfile(pv.guide.Profile).Name)

	guideCard := widget.NewCard("Cut guide", "", container.NewGridWithColumns(2,
		widget.NewLabel("Plotter"), profile,
		widget.NewLabel("Blade offset (mm)"), pv.guideEntry(&pv.guide.BladeOffset),
		widget.NewLabel("Overcut (mm)"), pv.guideEntry(&pv.guide.Overcut),
	))

	return container.NewVBox(jobCard, layoutCard, guideCard)
}

// floatEntry binds a layout setting. Values that fail validation are
// reverted.
func (pv *Preview) floatEntry(target *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*target, 'f', -1, 64))
	e.OnChanged = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return
		}
		old := *target
		*target = v
		if err := pv.pipeline.Settings.Validate(); err != nil {
			*target = old
			pv.status.SetText("Error: " + err.Error())
			return
		}
		pv.sheetCanvas.SetMargin(pv.pipeline.Settings.MarginMM)
		pv.update(func(*model.Job) error { return nil })
	}
	return e
}

func (pv *Preview) guideEntry(target *float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(*target, 'f', -1, 64))
	e.OnChanged = func(s string) {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 {
			*target = v
			pv.refreshGuide()
		}
	}
	return e
}

func (pv *Preview) update(change func(*model.Job) error) {
	job := pv.job
	if err := change(&job); err != nil {
		pv.status.SetText("Error: " + err.Error())
		return
	}
	if err := pv.SetJob(job); err != nil {
		pv.status.SetText("Error: " + err.Error())
	}
}

// relayout re-crops when the photo size changed and re-packs the sheet.
func (pv *Preview) relayout() error {
	if err := pv.job.Validate(); err != nil {
		return err
	}
	if pv.cropped == nil || pv.croppedFor != pv.job.Photo.Size {
		cropped, _, err := pv.pipeline.Prepare(context.Background(), pv.source, pv.job)
		if err != nil {
			return err
		}
		pv.cropped = cropped
		pv.croppedFor = pv.job.Photo.Size
	}
	pv.grid = pv.pipeline.Layout(pv.job)
	return nil
}

func (pv *Preview) refresh() error {
	if err := pv.relayout(); err != nil {
		return err
	}
	if pv.sheetCanvas != nil {
		pv.sheetCanvas.SetGrid(pv.grid, pv.cropped)
	}
	pv.refreshGuide()
	return nil
}

func (pv *Preview) refreshGuide() {
	if pv.guideHolder != nil {
		pv.guideHolder.Objects = []fyne.CanvasObject{
			widgets.NewCutGuidePreview(pv.grid, pv.guide, previewWidth, previewHeight),
		}
		pv.guideHolder.Refresh()
	}
	if pv.status != nil {
		pv.status.SetText(pv.Summary())
	}
}

// Summary describes the current layout in one line.
func (pv *Preview) Summary() string {
	if pv.grid.Empty() {
		return fmt.Sprintf("%s does not fit on %s %s", pv.job.Photo.Label, pv.job.Sheet.Label, pv.job.Orientation)
	}
	return fmt.Sprintf("%d copies of %s on %s %s (%d x %d, %.0f%% used)",
		len(pv.grid.Cells), pv.job.Photo.Label, pv.job.Sheet.Label, pv.job.Orientation,
		pv.grid.Cols, pv.grid.Rows, pv.grid.Efficiency())
}

// RenderSheet encodes the current layout in the job's format. A layout with
// no cells renders a blank sheet.
func (pv *Preview) RenderSheet(ctx context.Context) (export.Result, error) {
	return export.Render(ctx, pv.cropped, pv.grid, pv.job.Orientation, pv.job.Format, pv.pipeline.Settings,
		export.WithJobTag(export.NewJobTag(pv.job, pv.grid)))
}

// CutGuide returns the plotter program for the current layout.
func (pv *Preview) CutGuide() string {
	return cutguide.New(pv.guide).Generate(pv.grid, pv.job.Filename())
}

func (pv *Preview) saveSheetDialog() {
	res, err := pv.RenderSheet(context.Background())
	if err != nil {
		dialog.ShowError(err, pv.window)
		return
	}
	pv.saveDialog(res.Filename(pv.job), "."+pv.job.Format.Ext(), res.Data)
}

func (pv *Preview) saveGuideDialog() {
	if pv.grid.Empty() {
		dialog.ShowError(fmt.Errorf("%w: nothing to cut", pipeline.ErrInvalidInput), pv.window)
		return
	}
	name := strings.TrimSuffix(pv.job.Filename(), pv.job.Format.Ext()) + "gcode"
	pv.saveDialog(name, ".gcode", []byte(pv.CutGuide()))
}

func (pv *Preview) saveDialog(name, ext string, data []byte) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, pv.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, pv.window)
			return
		}
		pv.status.SetText("Saved " + writer.URI().Name())
	}, pv.window)
	d.SetFileName(name)
	d.SetFilter(storage.NewExtensionFileFilter([]string{ext}))
	d.Show()
}
