package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/model"
	"github.com/piwi3910/DocPhoto/internal/project"
)

// configCommand inspects and writes the config file, and backs up all
// user data.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the docphoto config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(c.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", c.configPath)
			}
			if err := project.SaveAppConfig(c.configPath, model.DefaultAppConfig()); err != nil {
				return err
			}
			c.Logger.Info("Wrote config", "path", c.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := project.FormatAppConfig(c.Config)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.Out, out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.Out, c.configPath)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.json>",
		Short: "Back up config, custom presets and plotter profiles to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := project.LoadPresets(c.presetsPath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], c.Config, presets, model.CustomPlotterProfiles); err != nil {
				return err
			}
			c.Logger.Info("Exported backup", "path", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Restore a backup written by 'config export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath, backup.Config); err != nil {
				return err
			}
			if err := project.SavePresets(c.presetsPath(), backup.Presets); err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(c.profilesPath(), backup.Plotters); err != nil {
				return err
			}
			c.Logger.Info("Imported backup", "from", args[0], "created", backup.CreatedAt)
			return nil
		},
	})

	cmd.AddCommand(c.plotterCommand())
	return cmd
}

// plotterCommand shares plotter profiles as single JSON files.
func (c *CLI) plotterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plotter",
		Short: "Export or import a plotter profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <name> <file.json>",
		Short: "Write a plotter profile to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := model.GetPlotterProfile(args[0])
			if profile.Name != args[0] {
				return fmt.Errorf("unknown plotter profile %q", args[0])
			}
			return project.ExportProfile(args[1], profile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Add a plotter profile from a file, replacing one with the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			profiles, err := project.LoadCustomProfiles(c.profilesPath())
			if err != nil {
				return err
			}
			if err := project.SaveCustomProfiles(c.profilesPath(), project.MergeProfile(profiles, profile)); err != nil {
				return err
			}
			c.Logger.Info("Imported plotter profile", "name", profile.Name)
			return nil
		},
	})
	return cmd
}
