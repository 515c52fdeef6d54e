package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/project"
)

// presetsCommand lists and edits the photo and sheet size presets.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List photo sizes, sheet sizes, backgrounds and plotter profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(c.Out)
		},
	}
	cmd.AddCommand(c.presetsAddCommand())
	cmd.AddCommand(c.presetsRemoveCommand())
	return cmd
}

func (c *CLI) presetsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <photo|sheet> <label> <WxH>",
		Short: "Add or replace a custom preset (sizes in mm)",
		Example: `  docphoto presets add photo "5x5 US" 51x51
  docphoto presets add sheet 10x15 102x152`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := model.ParsePhysicalSize(args[2])
			if err != nil {
				return err
			}
			presets, err := project.LoadPresets(c.presetsPath())
			if err != nil {
				return err
			}
			label := args[1]
			switch strings.ToLower(args[0]) {
			case "photo":
				presets.PhotoSizes = removePhoto(presets.PhotoSizes, label)
				presets.PhotoSizes = append(presets.PhotoSizes, model.PhotoSize{Label: label, Size: size})
			case "sheet":
				presets.SheetSizes = removeSheet(presets.SheetSizes, label)
				presets.SheetSizes = append(presets.SheetSizes, model.SheetSize{Label: label, Size: size})
			default:
				return fmt.Errorf("unknown preset kind %q (must be 'photo' or 'sheet')", args[0])
			}
			if err := project.SavePresets(c.presetsPath(), presets); err != nil {
				return err
			}
			c.Logger.Info("Saved preset", "kind", args[0], "label", label, "size", size)
			return nil
		},
	}
}

func (c *CLI) presetsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <label>",
		Short: "Remove a custom photo or sheet preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := project.LoadPresets(c.presetsPath())
			if err != nil {
				return err
			}
			n := len(presets.PhotoSizes) + len(presets.SheetSizes)
			presets.PhotoSizes = removePhoto(presets.PhotoSizes, args[0])
			presets.SheetSizes = removeSheet(presets.SheetSizes, args[0])
			if len(presets.PhotoSizes)+len(presets.SheetSizes) == n {
				return fmt.Errorf("no custom preset named %q", args[0])
			}
			return project.SavePresets(c.presetsPath(), presets)
		},
	}
}

func removePhoto(sizes []model.PhotoSize, label string) []model.PhotoSize {
	out := sizes[:0]
	for _, s := range sizes {
		if !strings.EqualFold(s.Label, label) {
			out = append(out, s)
		}
	}
	return out
}

func removeSheet(sizes []model.SheetSize, label string) []model.SheetSize {
	out := sizes[:0]
	for _, s := range sizes {
		if !strings.EqualFold(s.Label, label) {
			out = append(out, s)
		}
	}
	return out
}

func printPresets(w io.Writer) error {
	fmt.Fprintln(w, "Photo sizes:")
	for _, p := range model.AllPhotoSizes() {
		fmt.Fprintf(w, "  %-12s %s%s\n", p.Label, p.Size, customMark(p.IsBuiltIn))
	}
	fmt.Fprintln(w, "Sheet sizes:")
	for _, s := range model.AllSheetSizes() {
		fmt.Fprintf(w, "  %-12s %s%s\n", s.Label, s.Size, customMark(s.IsBuiltIn))
	}
	fmt.Fprintln(w, "Backgrounds:")
	for _, b := range model.Backgrounds {
		fmt.Fprintf(w, "  %-12s %s\n", b.Label, b.Hex)
	}
	fmt.Fprintln(w, "Plotter profiles:")
	for _, name := range model.PlotterProfileNames() {
		p := model.GetPlotterProfile(name)
		_, err := fmt.Fprintf(w, "  %-18s %s%s\n", p.Name, p.Description, customMark(p.IsBuiltIn))
		if err != nil {
			return err
		}
	}
	return nil
}

func customMark(builtIn bool) string {
	if builtIn {
		return ""
	}
	return " (custom)"
}
