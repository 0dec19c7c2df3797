// Package poster defines the serialized poster layout, the hand-off format
// between the routing engine and the renderers.
//
// A [Document] carries everything a renderer needs and nothing it has to
// recompute: icon centres and colours, one [Wire] per routed
// (id, departure, arrival) triple with both its raw staircase and its
// smoothed point list, and the slot order of every non-empty channel.
//
//	r, _ := route.New(s.Grid(), cfg.Layout())
//	doc, _ := poster.Build(r, s, round.Default())
//	poster.WriteFile(doc, "poster.json")
//
// Coordinates follow the engine's y-up convention; renderers that draw in a
// y-down space negate y.
//
// # Colours
//
// Connections without a colour get one from a golden-angle hue wheel keyed
// by their position in id order. Icons without a colour take the colour of
// their first departing connection. The drawn icon background is the base
// colour with saturation mapped to 0.3+0.6s and value to 0.5+0.5v, which
// keeps labels readable on dark bases.
package poster
