// Package render turns routed posters into pictures.
//
// # Overview
//
// Every renderer consumes a [poster.Document], so a layout computed once
// (and possibly cached) can be drawn in any format:
//
//   - Poster SVG (in [svg] subpackage)
//   - Channel topology diagrams via Graphviz (in [dot] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	out := svg.Render(doc, svg.WithLabels())
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// [poster.Document]: github.com/matzehuels/gridwire/pkg/poster#Document
// [svg]: github.com/matzehuels/gridwire/pkg/render/svg
// [dot]: github.com/matzehuels/gridwire/pkg/render/dot
package render
