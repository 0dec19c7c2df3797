// Package route composes the routing engine into a single entry point.
//
// A [Router] is built once from a connection set and a [layout.Config]:
//
//	r, err := route.New(conns, layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, in := range r.Instances() {
//	    line, err := r.Connect(in.Route, in.ID)
//	    ...
//	}
//
// Construction infers the grid size from the highest referenced row and
// column, records every route in a [channel.Collector], sizes the
// [layout.Layout] from the resulting capacities and allocates slots with a
// [channel.Manager]. Afterwards the router is read-only and safe for
// concurrent use.
//
// # Polylines
//
// [Router.Connect] returns an orthogonal staircase. A route that drops one
// row leaves its icon downward, jogs sideways on the bus above the arrival
// row and enters the arrival icon from above. Every other route first jogs
// on the bus below its departure row to a vertical cluster (left of the grid
// going down, right of its own column within a row, right of the grid going
// up) and then on the bus above its arrival row.
//
// From lines take the head slots of a row bus and To lines its tail slots,
// so the two families never share a y coordinate.
package route
