// Package layout turns grid positions and channel slots into coordinates.
//
// # Geometry
//
// Icons are squares of [Config.IconSize] on a regular grid. Between and
// around them run bundles of parallel lines spaced [Config.ChannelGap]
// apart:
//
//   - vertical clusters: cluster -1 left of the grid (Trunk), cluster c right
//     of column c (Gap), and cluster cols right of the grid (Meta)
//   - horizontal row buses: bus r below icon row r, shared by the From lines
//     of row r and the To lines of row r+1
//
// The bundle widths come from [Capacities], so the icon pitch grows with the
// busiest channel of each family. The origin is the top-left corner of the
// poster and y grows upward, so every icon has a negative y.
//
// Slots index a bundle like a ring: slot -1 is the last line of a bundle of
// n lines. An empty bundle uses the slot as a plain offset from its anchor.
package layout
