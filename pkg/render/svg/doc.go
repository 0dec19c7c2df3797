// Package svg draws a [poster.Document] as a standalone SVG.
//
// Icons are drawn as rounded squares filled with their background colour and
// outlined in their base colour; wires are drawn after icons as round-capped
// polylines so they stay visible where they pass an icon edge. Hovering a
// wire highlights every wire with the same connection id.
//
//	out := svg.Render(doc, svg.WithLabels(), svg.WithLineWidth(3))
//
// The document's y-up coordinates are flipped into SVG's y-down space.
//
// [poster.Document]: github.com/matzehuels/gridwire/pkg/poster#Document
package svg
