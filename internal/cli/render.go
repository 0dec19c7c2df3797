package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridwire/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string
	formats  []string
	noCache  bool
	refresh  bool
	channels bool
	scale    float64
	labels   bool
}

// renderCommand creates the render command: sheet in, drawings out.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale, labels: true}

	cmd := &cobra.Command{
		Use:   "render [sheet]",
		Short: "Route a sheet and draw the poster",
		Long: `Route a sheet and draw the poster in one step.

Formats:
  svg       poster drawing (default)
  png, pdf  poster drawing, converted with rsvg-convert
  json      routed layout, same as 'layout'
  dot       channel topology as Graphviz source
  topology  channel topology drawn with Graphviz
  topology-png
            channel topology, converted with rsvg-convert

With several formats, files are named after the input (or --output) with
the format's extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, topology, topology-png (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and drawings")
	cmd.Flags().BoolVar(&opts.channels, "channels", false, "route topology edges through channel nodes (dot, topology, topology-png)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png scale factor")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "draw icon labels")

	return cmd
}

// runRender runs the full pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	runner := c.newRunner(ctx, ro.noCache)
	defer runner.Close()

	cfg := *c.config()
	cfg.Render.Labels = ro.labels

	opts := c.pipelineOptions()
	opts.Config = &cfg
	opts.SheetPath = input
	opts.Formats = ro.formats
	opts.Channels = ro.channels
	opts.Scale = ro.scale
	opts.Refresh = ro.refresh

	spinner := newSpinnerWithContext(ctx, "Rendering poster...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, ro.formats, input, ro.output)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(result.Document.Icons), result.Stats.Wires, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}
