// Package grid defines the addressing vocabulary shared by the routing engine:
// grid cells, (departure, arrival) routes, and connection sets.
//
// Rows grow downward starting at 0 and columns grow to the right. A
// connection id may depart from several cells and arrive at several cells;
// the engine routes the full cross product of the two sets.
package grid
