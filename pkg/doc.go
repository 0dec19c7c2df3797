// Package pkg provides the libraries behind gridwire connection posters.
//
// # Overview
//
// A poster is a grid of icons with connections drawn between them. Every
// connection runs through shared channels: the gaps between rows, the
// gaps between the icons of one row, and two outer trunks down the left
// and right edges. Each connection gets its own slot in every channel it
// passes, so parallel lines never overlap. The pkg directory is organized
// in layers:
//
//  1. [core] - Routing engine (grid, channels, layout, geometry, rounding)
//  2. [sheet], [catalog] - Input documents
//  3. [poster] - The routed, serialisable poster
//  4. [render] - SVG, PNG, PDF and Graphviz output
//  5. [pipeline] - Orchestration (decode → route → render) with [cache]
//
// # Architecture
//
//	sheet (json, yaml, toml) or catalog
//	         ↓
//	    [core/channel] collect channel membership, allocate slots
//	         ↓
//	    [core/route] staircase polyline per connection instance
//	         ↓
//	    [core/round] smoothed corners
//	         ↓
//	    [poster] document → [render] SVG/PNG/PDF/DOT/JSON
//
// # Quick Start
//
//	s, _ := sheet.ReadFile("factory.yaml")
//	doc, _ := pipeline.Route(s, config.Default())
//	os.WriteFile("factory.svg", svg.Render(doc, svg.WithLabels()), 0644)
//
// Or, with caching and every output format at once:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    SheetPath: "factory.yaml",
//	    Formats:   []string{"svg", "dot"},
//	})
package pkg
