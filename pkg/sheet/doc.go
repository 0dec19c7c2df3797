// Package sheet reads and writes connection sheets, the input documents of
// gridwire.
//
// A sheet lists the icons shown on the grid and the connections between
// them:
//
//	title: Smelting
//	cells:
//	  - {row: 0, col: 0, label: Iron Ore, color: "#8a6d5a"}
//	  - {row: 1, col: 0, label: Iron Ingot}
//	connections:
//	  - id: smelt-iron
//	    from: [{row: 0, col: 0}]
//	    to:   [{row: 1, col: 0}]
//
// JSON, YAML and TOML encodings are accepted; the format is chosen by file
// extension. [Sheet.Grid] converts a validated sheet into the
// [grid.Connections] consumed by the routing engine.
package sheet
