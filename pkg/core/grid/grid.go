package grid

import (
	"cmp"
	"fmt"
	"slices"
)

// Cell addresses one icon position in the grid.
type Cell struct {
	Row int `json:"row" yaml:"row" toml:"row"`
	Col int `json:"col" yaml:"col" toml:"col"`
}

// String formats the cell as "(row,col)".
func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Compare orders cells row-major.
func (c Cell) Compare(o Cell) int {
	if r := cmp.Compare(c.Row, o.Row); r != 0 {
		return r
	}
	return cmp.Compare(c.Col, o.Col)
}

// Route is one (departure, arrival) pair of a connection.
type Route struct {
	Departure Cell `json:"departure"`
	Arrival   Cell `json:"arrival"`
}

// Delta returns arrival.Row - departure.Row.
func (r Route) Delta() int { return r.Arrival.Row - r.Departure.Row }

// Adjacent reports whether the route hops exactly one row down, the only
// case that needs no horizontal bus of its own.
func (r Route) Adjacent() bool { return r.Delta() == 1 }

func (r Route) String() string { return r.Departure.String() + "->" + r.Arrival.String() }

// Endpoints holds the departure and arrival cells of one connection id.
type Endpoints struct {
	Departures []Cell `json:"departures"`
	Arrivals   []Cell `json:"arrivals"`
}

// Routes returns the deduplicated cross product of departures and arrivals,
// sorted by departure then arrival.
func (e Endpoints) Routes() []Route {
	deps := Unique(e.Departures)
	arrs := Unique(e.Arrivals)
	out := make([]Route, 0, len(deps)*len(arrs))
	for _, d := range deps {
		for _, a := range arrs {
			out = append(out, Route{Departure: d, Arrival: a})
		}
	}
	return out
}

// Connections maps a connection id to its endpoints.
type Connections map[string]Endpoints

// IDs returns the connection ids in ascending order.
func (c Connections) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Extent returns one past the largest referenced row and column.
// ok is false when no cell is referenced at all.
func (c Connections) Extent() (rows, cols int, ok bool) {
	for _, e := range c {
		for _, cells := range [][]Cell{e.Departures, e.Arrivals} {
			for _, cell := range cells {
				ok = true
				rows = max(rows, cell.Row+1)
				cols = max(cols, cell.Col+1)
			}
		}
	}
	return rows, cols, ok
}

// Unique returns the distinct cells in row-major order.
func Unique(cells []Cell) []Cell {
	out := slices.Clone(cells)
	slices.SortFunc(out, Cell.Compare)
	return slices.Compact(out)
}
