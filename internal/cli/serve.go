package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		host    string
		port    int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

  GET  /healthz
  POST /v1/layout            sheet -> layout JSON
  POST /v1/render?format=svg sheet -> drawing
  POST /v1/channels          sheet -> capacities and slot orders

Host and port default to the server section of the config file. Cache
entries written by the server are prefixed so they never collide with
entries written by other commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *c.config()
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			runner := c.newServerRunner(cmd.Context(), noCache)
			defer runner.Close()

			printInfo("Serving on %s", StyleLink.Render(fmt.Sprintf("http://%s", cfg.Server.Address())))
			return server.New(runner, &cfg, c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
