package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gridwire/pkg/config"
	"github.com/matzehuels/gridwire/pkg/poster"
	"github.com/matzehuels/gridwire/pkg/render"
	"github.com/matzehuels/gridwire/pkg/render/dot"
	"github.com/matzehuels/gridwire/pkg/render/svg"
)

// Render draws a routed document in every requested format.
func Render(ctx context.Context, doc poster.Document, opts Options) (map[string][]byte, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, err
	}
	svgOpts := SVGOptions(opts.Config.Render)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(doc, svgOpts...)
		case FormatPNG:
			data, err = render.ToPNG(svg.Render(doc, svgOpts...), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(svg.Render(doc, svgOpts...))
		case FormatJSON:
			data, err = poster.Marshal(doc)
		case FormatDOT:
			data = []byte(dot.ToDOT(doc, dot.Options{Channels: opts.Channels}))
		case FormatTopology:
			data, err = dot.RenderSVG(ctx, dot.ToDOT(doc, dot.Options{Channels: opts.Channels}))
		case FormatTopologyPNG:
			data, err = dot.RenderPNG(ctx, dot.ToDOT(doc, dot.Options{Channels: opts.Channels}), opts.Scale)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// SVGOptions translates the render settings into SVG options.
func SVGOptions(c config.RenderConfig) []svg.Option {
	opts := []svg.Option{
		svg.WithBackground(c.Background),
		svg.WithLineWidth(c.LineWidth),
		svg.WithFontFamily(c.FontFamily),
		svg.WithInteraction(),
	}
	if c.Labels {
		opts = append(opts, svg.WithLabels())
	}
	return opts
}
