package channel

import (
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Collector owns every channel instance of a rows × cols grid and records
// which connection ids traverse each of them.
type Collector struct {
	rows, cols int

	setouts [][]*Channel
	froms   []*Channel
	trunk   *Channel
	gaps    [][]*Channel
	meta    *Channel
	tos     []*Channel
	arrives [][]*Channel
}

// NewCollector builds the empty channel topology for a rows × cols grid.
func NewCollector(rows, cols int) (*Collector, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid must have at least one row and one column, got %d×%d", rows, cols)
	}
	c := &Collector{
		rows:    rows,
		cols:    cols,
		setouts: cellChannels(Setout, rows, cols),
		froms:   rowChannels(From, rows),
		trunk:   newChannel(Trunk, -1, -1),
		gaps:    cellChannels(Gap, rows, cols),
		meta:    newChannel(Meta, -1, -1),
		tos:     rowChannels(To, rows),
		arrives: cellChannels(Arrive, rows, cols),
	}
	return c, nil
}

func cellChannels(kind Kind, rows, cols int) [][]*Channel {
	out := make([][]*Channel, rows)
	for r := range out {
		out[r] = make([]*Channel, cols)
		for c := range out[r] {
			out[r][c] = newChannel(kind, r, c)
		}
	}
	return out
}

func rowChannels(kind Kind, rows int) []*Channel {
	out := make([]*Channel, rows)
	for r := range out {
		out[r] = newChannel(kind, r, -1)
	}
	return out
}

// Rows returns the number of grid rows.
func (c *Collector) Rows() int { return c.rows }

// Cols returns the number of grid columns.
func (c *Collector) Cols() int { return c.cols }

// CheckDeparture validates a departure cell against the grid bounds.
func (c *Collector) CheckDeparture(cell grid.Cell) error {
	if cell.Row < 0 || cell.Row >= c.rows {
		return errors.New(errors.ErrCodeOutOfRange, "row %d out of range: there are only %d rows", cell.Row, c.rows)
	}
	if cell.Col < 0 || cell.Col >= c.cols {
		return errors.New(errors.ErrCodeOutOfRange, "column %d out of range: there are only %d columns", cell.Col, c.cols)
	}
	return nil
}

// CheckArrival validates an arrival cell. On top of the bounds check,
// nothing may terminate in the first row.
func (c *Collector) CheckArrival(cell grid.Cell) error {
	if err := c.CheckDeparture(cell); err != nil {
		return err
	}
	if cell.Row == 0 {
		return errors.New(errors.ErrCodeIllegalArrival, "arrival %s not permitted in first row", cell)
	}
	return nil
}

// Path returns the ordered channels a route traverses.
func (c *Collector) Path(r grid.Route) ([]*Channel, error) {
	if err := c.CheckDeparture(r.Departure); err != nil {
		return nil, err
	}
	if err := c.CheckArrival(r.Arrival); err != nil {
		return nil, err
	}

	dep, arr := r.Departure, r.Arrival
	setout := c.setouts[dep.Row][dep.Col]
	to := c.tos[arr.Row]
	arrive := c.arrives[arr.Row][arr.Col]

	if r.Adjacent() {
		return []*Channel{setout, to, arrive}, nil
	}
	return []*Channel{setout, c.froms[dep.Row], c.cross(r), to, arrive}, nil
}

// cross picks the middle channel of a non-adjacent route.
func (c *Collector) cross(r grid.Route) *Channel {
	switch d := r.Delta(); {
	case d > 0:
		return c.trunk
	case d == 0:
		return c.gaps[r.Departure.Row][r.Departure.Col]
	default:
		return c.meta
	}
}

// Add records id in every channel on the route's path.
func (c *Collector) Add(r grid.Route, id string) error {
	path, err := c.Path(r)
	if err != nil {
		return err
	}
	for _, ch := range path {
		ch.Add(id)
	}
	return nil
}

// AddAll records id for every (departure, arrival) pair of the cross product.
// Duplicate cells collapse. Nothing is recorded unless every pair is valid.
func (c *Collector) AddAll(departures, arrivals []grid.Cell, id string) error {
	routes := grid.Endpoints{Departures: departures, Arrivals: arrivals}.Routes()
	for _, r := range routes {
		if _, err := c.Path(r); err != nil {
			return err
		}
	}
	for _, r := range routes {
		if err := c.Add(r, id); err != nil {
			return err
		}
	}
	return nil
}

// Channel looks up an instance by key.
func (c *Collector) Channel(k Key) (*Channel, bool) {
	inCell := k.Row >= 0 && k.Row < c.rows && k.Col >= 0 && k.Col < c.cols
	inRow := k.Row >= 0 && k.Row < c.rows
	switch k.Kind {
	case Setout:
		if inCell {
			return c.setouts[k.Row][k.Col], true
		}
	case Gap:
		if inCell {
			return c.gaps[k.Row][k.Col], true
		}
	case Arrive:
		if inCell {
			return c.arrives[k.Row][k.Col], true
		}
	case From:
		if inRow {
			return c.froms[k.Row], true
		}
	case To:
		if inRow {
			return c.tos[k.Row], true
		}
	case Trunk:
		return c.trunk, true
	case Meta:
		return c.meta, true
	}
	return nil, false
}

// Channels returns every instance, grouped by kind in route order and
// row-major within a kind.
func (c *Collector) Channels() []*Channel {
	out := make([]*Channel, 0, 3*c.rows*c.cols+2*c.rows+2)
	flat := func(cs [][]*Channel) {
		for _, row := range cs {
			out = append(out, row...)
		}
	}
	flat(c.setouts)
	out = append(out, c.froms...)
	out = append(out, c.trunk)
	flat(c.gaps)
	out = append(out, c.meta)
	out = append(out, c.tos...)
	flat(c.arrives)
	return out
}

// Capacities are the widest demands of each channel family. They size the
// physical spacing of the layout.
type Capacities struct {
	Gap   int `json:"gap"`   // widest Gap channel
	Inner int `json:"inner"` // widest From[r] + To[r+1] pair
	Left  int `json:"left"`  // Trunk members
	Right int `json:"right"` // Meta members
}

// Capacities derives the capacity scalars. Call it after every connection
// has been added.
func (c *Collector) Capacities() Capacities {
	var caps Capacities
	for _, row := range c.gaps {
		for _, g := range row {
			caps.Gap = max(caps.Gap, g.Len())
		}
	}
	for r, from := range c.froms {
		n := from.Len()
		if r+1 < c.rows {
			n += c.tos[r+1].Len()
		}
		caps.Inner = max(caps.Inner, n)
	}
	caps.Left = c.trunk.Len()
	caps.Right = c.meta.Len()
	return caps
}
