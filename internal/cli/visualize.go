package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/pipeline"
	"github.com/matzehuels/gridwire/pkg/poster"
)

// visualizeCommand creates the visualize command for drawing a stored layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		channels   bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Draw a poster from a computed layout",
		Long: `Draw a poster from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
draws it. The layout contains all geometry, so no routing happens here.

Use 'render' as a shortcut to go directly from a sheet to a drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], formats, output, noCache, channels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, topology, topology-png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&channels, "channels", false, "route topology edges through channel nodes")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, formats []string, output string, noCache, channels bool) error {
	doc, err := poster.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Formats = formats
	opts.Channels = channels

	spinner := newSpinnerWithContext(ctx, "Drawing poster...")
	spinner.Start()

	artifacts, _, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, formats, trimLayoutSuffix(input), output)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(doc.Icons), len(doc.Wires), cacheHit)
	return nil
}

// trimLayoutSuffix maps "poster.layout.json" back to "poster.json" so the
// drawings are named after the sheet.
func trimLayoutSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".layout.json"); ok && base != "" {
		return base + ".json"
	}
	return path
}
