package channel

import (
	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Option configures a Manager.
type Option func(*managerConfig)

type managerConfig struct {
	fallback Strategy
	perKind  map[Kind]Strategy
}

// WithStrategy sets the ordering strategy for one channel kind.
func WithStrategy(k Kind, s Strategy) Option {
	return func(c *managerConfig) { c.perKind[k] = s }
}

// WithDefaultStrategy sets the strategy for kinds without their own.
func WithDefaultStrategy(s Strategy) Option {
	return func(c *managerConfig) { c.fallback = s }
}

// Manager owns one Allocator per channel instance and answers slot queries
// along a route.
type Manager struct {
	collector *Collector
	allocs    map[Key]*Allocator
}

// NewManager allocates every channel of a fully populated collector.
// Channels are read once; later additions to the collector are not seen.
func NewManager(c *Collector, conns grid.Connections, opts ...Option) (*Manager, error) {
	cfg := managerConfig{fallback: Lexical, perKind: make(map[Kind]Strategy)}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Manager{collector: c, allocs: make(map[Key]*Allocator)}
	for _, ch := range c.Channels() {
		s, ok := cfg.perKind[ch.Key.Kind]
		if !ok {
			s = cfg.fallback
		}
		a, err := NewAllocator(ch, conns, s)
		if err != nil {
			return nil, err
		}
		m.allocs[ch.Key] = a
	}
	return m, nil
}

// Allocator returns the allocator of one channel instance.
func (m *Manager) Allocator(k Key) (*Allocator, bool) {
	a, ok := m.allocs[k]
	return a, ok
}

// Allocators returns every allocator in the collector's channel order.
func (m *Manager) Allocators() []*Allocator {
	chs := m.collector.Channels()
	out := make([]*Allocator, len(chs))
	for i, ch := range chs {
		out[i] = m.allocs[ch.Key]
	}
	return out
}

// Setout returns the slot of id on the departure icon's edge and the number
// of lines leaving that edge.
func (m *Manager) Setout(r grid.Route, id string) (slot, count int, err error) {
	return m.slotAndCount(0, r, id)
}

// From returns the slot of id in the horizontal bus below the departure row.
func (m *Manager) From(r grid.Route, id string) (int, error) {
	if r.Adjacent() {
		return 0, errors.New(errors.ErrCodeInvalidCrossQuery, "route %s drops one row and has no from channel", r)
	}
	slot, _, err := m.slotAndCount(1, r, id)
	return slot, err
}

// Cross returns the slot of id in the Trunk, Gap or Meta channel of the route.
// Routes that drop exactly one row have no cross channel.
func (m *Manager) Cross(r grid.Route, id string) (int, error) {
	if r.Adjacent() {
		return 0, errors.New(errors.ErrCodeInvalidCrossQuery, "route %s drops one row and has no cross channel", r)
	}
	slot, _, err := m.slotAndCount(2, r, id)
	return slot, err
}

// To returns the slot of id in the horizontal bus above the arrival row.
func (m *Manager) To(r grid.Route, id string) (int, error) {
	slot, _, err := m.slotAndCount(-2, r, id)
	return slot, err
}

// Arrive returns the slot of id on the arrival icon's edge and the number of
// lines entering that edge.
func (m *Manager) Arrive(r grid.Route, id string) (slot, count int, err error) {
	return m.slotAndCount(-1, r, id)
}

// slotAndCount resolves the hop at index i of the route's path; negative
// indices count from the end.
func (m *Manager) slotAndCount(i int, r grid.Route, id string) (int, int, error) {
	path, err := m.collector.Path(r)
	if err != nil {
		return 0, 0, err
	}
	if i < 0 {
		i += len(path)
	}
	ch := path[i]
	a := m.allocs[ch.Key]
	slot, ok := a.Slot(id)
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeUnknownConnection, "connection %q does not pass through %s", id, ch.Key)
	}
	return slot, a.Len(), nil
}
