package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/poster"
)

// layoutCommand creates the layout command for routing a sheet.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [sheet]",
		Short: "Route every connection of a sheet into a poster layout",
		Long: `Route every connection of a sheet into a poster layout.

The layout command reads a connection sheet (json, yaml or toml), allocates a
slot for every connection in every channel it passes, and writes the routed
poster as layout.json. The layout carries all geometry, so it can be drawn
later with 'visualize' without routing again.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached layouts")

	return cmd
}

// runLayout decodes and routes the sheet, then writes the layout.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache, refresh bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.SheetPath = input
	opts.Refresh = refresh

	s, err := runner.Decode(ctx, opts)
	if err != nil {
		return fmt.Errorf("load sheet %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, "Routing connections...")
	spinner.Start()

	doc, cacheHit, err := runner.RouteWithCacheInfo(ctx, s, opts)
	if err != nil {
		spinner.StopWithError("Routing failed")
		return fmt.Errorf("route %s: %w", input, err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = artifactPath(basePath("", input), "json")
	}
	if err := poster.WriteFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Icons), len(doc.Wires), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
