package route

import (
	"slices"

	"github.com/matzehuels/gridwire/pkg/core/channel"
	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/core/layout"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Option configures a Router.
type Option func(*options)

type options struct {
	rows, cols int
	channel    []channel.Option
}

// WithStrategy orders the slots of one channel kind with s.
func WithStrategy(k channel.Kind, s channel.Strategy) Option {
	return func(o *options) { o.channel = append(o.channel, channel.WithStrategy(k, s)) }
}

// WithDefaultStrategy orders every kind without its own strategy with s.
func WithDefaultStrategy(s channel.Strategy) Option {
	return func(o *options) { o.channel = append(o.channel, channel.WithDefaultStrategy(s)) }
}

// WithMinSize makes the grid at least rows × cols, for posters that show
// icons beyond the last connected cell.
func WithMinSize(rows, cols int) Option {
	return func(o *options) { o.rows, o.cols = rows, cols }
}

// Instance is one routed (id, departure, arrival) triple.
type Instance struct {
	ID    string     `json:"id"`
	Route grid.Route `json:"route"`
}

// Router owns the channel topology, the slot allocation and the geometry of
// one poster.
type Router struct {
	conns     grid.Connections
	collector *channel.Collector
	manager   *channel.Manager
	layout    *layout.Layout
	instances []Instance
}

// New validates conns, routes every id and derives the layout.
func New(conns grid.Connections, cfg layout.Config, opts ...Option) (*Router, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rows, cols, ok := conns.Extent()
	rows, cols = max(rows, o.rows), max(cols, o.cols)
	if !ok && (rows == 0 || cols == 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no connections and no grid size given")
	}

	c, err := channel.NewCollector(rows, cols)
	if err != nil {
		return nil, err
	}

	var instances []Instance
	for _, id := range conns.IDs() {
		if err := errors.ValidateConnectionID(id); err != nil {
			return nil, err
		}
		e := conns[id]
		if err := c.AddAll(e.Departures, e.Arrivals, id); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "connection %q", id)
		}
		for _, r := range e.Routes() {
			instances = append(instances, Instance{ID: id, Route: r})
		}
	}

	caps := c.Capacities()
	lay, err := layout.New(rows, cols, layout.Capacities{
		Gap:   caps.Gap,
		Inner: caps.Inner,
		Left:  caps.Left,
		Right: caps.Right,
	}, cfg)
	if err != nil {
		return nil, err
	}

	m, err := channel.NewManager(c, conns, o.channel...)
	if err != nil {
		return nil, err
	}

	return &Router{
		conns:     conns,
		collector: c,
		manager:   m,
		layout:    lay,
		instances: instances,
	}, nil
}

// Rows returns the number of icon rows.
func (r *Router) Rows() int { return r.collector.Rows() }

// Cols returns the number of icon columns.
func (r *Router) Cols() int { return r.collector.Cols() }

// Layout returns the poster geometry.
func (r *Router) Layout() *layout.Layout { return r.layout }

// Capacities returns the widest channel of each family.
func (r *Router) Capacities() channel.Capacities { return r.collector.Capacities() }

// Icon returns the centre of the icon at c.
func (r *Router) Icon(c grid.Cell) (geom.Point, error) { return r.layout.Icon(c) }

// Size returns the poster width and height.
func (r *Router) Size() (w, h float64) { return r.layout.Size() }

// Instances returns every routed (id, route) pair, by id then route.
func (r *Router) Instances() []Instance { return slices.Clone(r.instances) }

// Path returns the channel keys a route traverses.
func (r *Router) Path(rt grid.Route) ([]channel.Key, error) {
	path, err := r.collector.Path(rt)
	if err != nil {
		return nil, err
	}
	keys := make([]channel.Key, len(path))
	for i, ch := range path {
		keys[i] = ch.Key
	}
	return keys, nil
}

// Allocation returns the ids of a channel by ascending slot.
func (r *Router) Allocation(k channel.Key) ([]string, bool) {
	a, ok := r.manager.Allocator(k)
	if !ok {
		return nil, false
	}
	return a.Order(), true
}

// Channels returns the key, ids by slot, of every non-empty channel.
func (r *Router) Channels() []Allocation {
	var out []Allocation
	for _, a := range r.manager.Allocators() {
		if a.Len() == 0 {
			continue
		}
		out = append(out, Allocation{Key: a.Key(), IDs: a.Order()})
	}
	return out
}

// Allocation is the slot order of one channel.
type Allocation struct {
	Key channel.Key
	IDs []string
}

// Connect computes the staircase of id along rt.
func (r *Router) Connect(rt grid.Route, id string) (geom.Polyline, error) {
	if !r.owns(id, rt) {
		return geom.Polyline{}, errors.New(errors.ErrCodeUnknownConnection, "connection %q has no route %s", id, rt)
	}
	dep, arr := rt.Departure, rt.Arrival

	setSlot, setN, err := r.manager.Setout(rt, id)
	if err != nil {
		return geom.Polyline{}, err
	}
	arrSlot, arrN, err := r.manager.Arrive(rt, id)
	if err != nil {
		return geom.Polyline{}, err
	}
	exit, err := r.layout.Exit(dep, setSlot, setN)
	if err != nil {
		return geom.Polyline{}, err
	}
	entry, err := r.layout.Entry(arr, arrSlot, arrN)
	if err != nil {
		return geom.Polyline{}, err
	}

	toSlot, err := r.manager.To(rt, id)
	if err != nil {
		return geom.Polyline{}, err
	}
	yTo, err := r.layout.RowY(arr.Row-1, -(toSlot + 1))
	if err != nil {
		return geom.Polyline{}, err
	}

	if rt.Adjacent() {
		return geom.Polyline{
			Xs: []float64{exit.X, entry.X},
			Ys: []float64{exit.Y, yTo, entry.Y},
		}, nil
	}

	fromSlot, err := r.manager.From(rt, id)
	if err != nil {
		return geom.Polyline{}, err
	}
	yFrom, err := r.layout.RowY(dep.Row, fromSlot)
	if err != nil {
		return geom.Polyline{}, err
	}
	crossSlot, err := r.manager.Cross(rt, id)
	if err != nil {
		return geom.Polyline{}, err
	}
	xCross, err := r.layout.ClusterX(r.crossCluster(rt), crossSlot)
	if err != nil {
		return geom.Polyline{}, err
	}

	return geom.Polyline{
		Xs: []float64{exit.X, xCross, entry.X},
		Ys: []float64{exit.Y, yFrom, yTo, entry.Y},
	}, nil
}

// crossCluster maps the cross channel of a route to its vertical cluster.
func (r *Router) crossCluster(rt grid.Route) int {
	switch d := rt.Delta(); {
	case d > 0:
		return -1
	case d == 0:
		return rt.Departure.Col
	default:
		return r.Cols()
	}
}

func (r *Router) owns(id string, rt grid.Route) bool {
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	return slices.Contains(e.Departures, rt.Departure) && slices.Contains(e.Arrivals, rt.Arrival)
}
