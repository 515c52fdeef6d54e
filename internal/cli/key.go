package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/retouch"
)

// keyCommand manages the AI editor's API key in the OS keyring.
func (c *CLI) keyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the AI editor API key",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [api-key]",
		Short: "Store the API key in the OS keyring (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading API key: %w", err)
				}
				key = line
			}
			if err := retouch.StoreAPIKey(strings.TrimSpace(key)); err != nil {
				return err
			}
			c.Logger.Info("Stored API key in keyring", "service", retouch.KeyringService)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := retouch.DeleteAPIKey(); err != nil {
				return err
			}
			c.Logger.Info("Removed API key from keyring")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether an API key is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := retouch.LookupAPIKey(c.Config.Retouch.APIKeyEnv)
			switch {
			case err == nil:
				fmt.Fprintln(c.Out, "API key: configured")
			case errors.Is(err, retouch.ErrNoAPIKey):
				fmt.Fprintln(c.Out, "API key: not configured")
			default:
				return err
			}
			return nil
		},
	})
	return cmd
}
