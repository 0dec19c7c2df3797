// Package dot draws the connection topology of a poster with Graphviz.
//
// The default graph has one node per icon and one edge per routed wire,
// laid out top to bottom with each grid row on its own rank. With
// [Options].Channels set, every wire is instead drawn through the channel
// instances it occupies, which makes shared buses and their slot order
// visible at a glance:
//
//	src := dot.ToDOT(doc, dot.Options{Channels: true})
//	out, err := dot.RenderSVG(ctx, src)
package dot
