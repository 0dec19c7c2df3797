// Package channel implements the routing topology and slot allocation of the
// poster engine.
//
// # Topology
//
// Every connection line passes through a short sequence of shared bus
// segments called channels. There are seven kinds:
//
//   - [Setout]: leaving the bottom edge of a departure icon (one per cell)
//   - [From]: the horizontal bus below a departure row (one per row)
//   - [Trunk]: the vertical bus left of the grid, used to travel downward
//   - [Gap]: the vertical gap right of a cell, used to reach the same row
//   - [Meta]: the vertical bus right of the grid, used to travel upward
//   - [To]: the horizontal bus above an arrival row (one per row)
//   - [Arrive]: entering the top edge of an arrival icon (one per cell)
//
// A [Collector] materializes every channel of an rows × cols grid and records
// which connection ids pass through which channel. A route that drops exactly
// one row uses [Setout], [To], [Arrive]; every other route uses five channels
// with a Trunk, Gap or Meta hop in the middle.
//
// # Allocation
//
// Once the collector is complete, a [Manager] builds one [Allocator] per
// channel. Each allocator hands its members the dense slots 0..n-1 in the
// order chosen by a [Strategy]. [Lexical] is the default; [Encounter] and
// [ByColumn] are available per kind through [WithStrategy].
package channel
