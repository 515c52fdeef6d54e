package cli

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/ui"
)

const appID = "com.piwi3910.docphoto"

type previewOpts struct {
	jobFlags
	layoutFlags
	theme string
}

// previewCommand opens a window to try presets on a photo before saving.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview <photo>",
		Short: "Open an interactive sheet preview for a portrait",
		Long: `Preview shows the packed sheet and the cut guide for a photo and
re-packs them as presets, margins and plotter settings change. The sheet
and the G-code can be saved from the window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			job, err := opts.job(c.Config)
			if err != nil {
				return err
			}
			settings, err := c.settings(&opts.layoutFlags, cmd)
			if err != nil {
				return err
			}
			p, err := c.newPipeline(ctx, settings, opts.anchor, false, false)
			if err != nil {
				return err
			}
			img, err := decodeFile(ctx, args[0])
			if err != nil {
				return err
			}

			a := app.NewWithID(appID)
			a.Settings().SetTheme(ui.NewDocPhotoTheme(opts.theme))
			w := a.NewWindow("DocPhoto - " + args[0])

			preview := ui.NewPreview(w, p, img, job, c.Config.CutGuide)
			w.SetContent(preview.Build())
			w.Resize(fyne.NewSize(960, 720))
			c.Logger.Debug("opening preview", "photo", args[0], "job", job.ID)
			w.ShowAndRun()
			return nil
		},
	}

	opts.jobFlags.register(cmd, false)
	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVar(&opts.theme, "theme", "", "window theme: light, dark or system")
	return cmd
}
