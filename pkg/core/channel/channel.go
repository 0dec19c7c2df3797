package channel

import (
	"fmt"
	"slices"
)

// Kind is the role of a channel in a route.
type Kind int

const (
	Setout Kind = iota
	From
	Trunk
	Gap
	Meta
	To
	Arrive
)

// Kinds lists every kind in route order.
var Kinds = []Kind{Setout, From, Trunk, Gap, Meta, To, Arrive}

var kindNames = [...]string{"setout", "from", "trunk", "gap", "meta", "to", "arrive"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	i := slices.Index(kindNames[:], s)
	return Kind(i), i >= 0
}

// Key identifies one channel instance. Row is -1 for the global Trunk and
// Meta channels; Col is -1 for the per-row From and To channels.
type Key struct {
	Kind Kind
	Row  int
	Col  int
}

func (k Key) String() string {
	switch {
	case k.Row < 0:
		return k.Kind.String()
	case k.Col < 0:
		return fmt.Sprintf("%s[%d]", k.Kind, k.Row)
	default:
		return fmt.Sprintf("%s(%d,%d)", k.Kind, k.Row, k.Col)
	}
}

// Channel is the set of connection ids sharing one physical bus segment.
// Members are kept in first-insertion order; inserting an id twice is a no-op.
type Channel struct {
	Key     Key
	members map[string]struct{}
	order   []string
}

func newChannel(kind Kind, row, col int) *Channel {
	return &Channel{
		Key:     Key{Kind: kind, Row: row, Col: col},
		members: make(map[string]struct{}),
	}
}

// Add inserts id and reports whether it was new.
func (c *Channel) Add(id string) bool {
	if _, ok := c.members[id]; ok {
		return false
	}
	c.members[id] = struct{}{}
	c.order = append(c.order, id)
	return true
}

// Has reports whether id passes through the channel.
func (c *Channel) Has(id string) bool {
	_, ok := c.members[id]
	return ok
}

// Len returns the number of distinct member ids.
func (c *Channel) Len() int { return len(c.order) }

// Members returns the member ids in first-insertion order.
func (c *Channel) Members() []string { return slices.Clone(c.order) }
