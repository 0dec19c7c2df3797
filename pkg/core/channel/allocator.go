package channel

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridwire/pkg/core/grid"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Strategy orders the members of a channel. The position of an id in the
// returned slice becomes its slot. It receives the complete connection set
// so that orderings may look beyond the channel itself.
type Strategy func(ch *Channel, conns grid.Connections) []string

// Encounter orders members by first insertion.
func Encounter(ch *Channel, _ grid.Connections) []string {
	return ch.Members()
}

// Lexical orders members by ascending id.
func Lexical(ch *Channel, _ grid.Connections) []string {
	ids := ch.Members()
	slices.Sort(ids)
	return ids
}

// ByColumn orders members by the mean column of all their departure and
// arrival cells, ties broken by id. Lines heading left end up on the left
// side of a bus, which removes most crossings on the horizontal buses.
func ByColumn(ch *Channel, conns grid.Connections) []string {
	ids := ch.Members()
	mean := make(map[string]float64, len(ids))
	for _, id := range ids {
		e := conns[id]
		var sum, n float64
		for _, cells := range [][]grid.Cell{e.Departures, e.Arrivals} {
			for _, c := range cells {
				sum += float64(c.Col)
				n++
			}
		}
		if n > 0 {
			mean[id] = sum / n
		}
	}
	slices.SortFunc(ids, func(a, b string) int {
		if c := cmp.Compare(mean[a], mean[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// Strategies maps the names accepted on the command line to strategies.
var Strategies = map[string]Strategy{
	"lexical":   Lexical,
	"encounter": Encounter,
	"column":    ByColumn,
}

// Allocator assigns the members of one channel a dense, unique slot.
type Allocator struct {
	key   Key
	order []string
	slots map[string]int
}

// NewAllocator runs s over ch and checks that the result is a permutation
// of the channel's members.
func NewAllocator(ch *Channel, conns grid.Connections, s Strategy) (*Allocator, error) {
	if s == nil {
		s = Lexical
	}
	order := s(ch, conns)
	if len(order) != ch.Len() {
		return nil, errors.New(errors.ErrCodeInternal, "strategy for %s returned %d ids for %d members", ch.Key, len(order), ch.Len())
	}
	slots := make(map[string]int, len(order))
	for i, id := range order {
		if !ch.Has(id) {
			return nil, errors.New(errors.ErrCodeInternal, "strategy for %s returned non-member %q", ch.Key, id)
		}
		if _, dup := slots[id]; dup {
			return nil, errors.New(errors.ErrCodeInternal, "strategy for %s returned %q twice", ch.Key, id)
		}
		slots[id] = i
	}
	return &Allocator{key: ch.Key, order: order, slots: slots}, nil
}

// Key returns the key of the allocated channel.
func (a *Allocator) Key() Key { return a.key }

// Kind returns the kind of the allocated channel.
func (a *Allocator) Kind() Kind { return a.key.Kind }

// Slot returns the slot of id.
func (a *Allocator) Slot(id string) (int, bool) {
	s, ok := a.slots[id]
	return s, ok
}

// Len returns the number of allocated slots.
func (a *Allocator) Len() int { return len(a.order) }

// Order returns the ids by ascending slot.
func (a *Allocator) Order() []string { return slices.Clone(a.order) }
