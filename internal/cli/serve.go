package cli

import (
	"github.com/spf13/cobra"

	"github.com/piwi3910/DocPhoto/internal/pipeline"
	"github.com/piwi3910/DocPhoto/internal/server"
)

type serveOpts struct {
	layoutFlags
	addr      string
	noRetouch bool
	optional  bool
}

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sheet pipeline over HTTP",
		Long: `Serve exposes layout, crop and sheet rendering as an HTTP API.
Retouching is available when an API key is configured; without one,
requests asking for it are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := c.settings(&opts.layoutFlags, cmd)
			if err != nil {
				return err
			}
			// The key is optional at startup: only retouch requests need it.
			p, err := c.newPipeline(ctx, settings, opts.anchor, !opts.noRetouch, true)
			if err != nil {
				return err
			}
			if !opts.optional {
				p.Policy = pipeline.RetouchRequired
			}

			cfg := c.Config
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			return server.New(p, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noRetouch, "no-retouch", false, "disable the AI editor")
	cmd.Flags().BoolVar(&opts.optional, "retouch-optional", false, "serve the original photo when the AI editor fails")
	return cmd
}
