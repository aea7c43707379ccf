package core

import (
	"fmt"
	"maps"
	"strings"

	"github.com/encodeous/dvsim/protocol"
	"github.com/encodeous/dvsim/state"
)

// RoutingTable maps destination -> reporting router -> cost.
// It is owned by a single router; only the distance-vector engine mutates it.
type RoutingTable struct {
	self    state.NodeId
	entries map[state.NodeId]map[state.NodeId]uint32
}

// RouteChange is one entry of the diff produced by a relaxation pass.
// An empty Via means the destination itself was added.
type RouteChange struct {
	Dst     state.NodeId
	Via     state.NodeId
	Old     uint32
	New     uint32
	Existed bool
}

func (c RouteChange) String() string {
	if c.Via == "" {
		return fmt.Sprintf("%s added", c.Dst)
	}
	if !c.Existed {
		return fmt.Sprintf("%s via %s: %d", c.Dst, c.Via, c.New)
	}
	return fmt.Sprintf("%s via %s: %d -> %d", c.Dst, c.Via, c.Old, c.New)
}

// NewRoutingTable seeds the table with self -> {self: 0} and every neighbour at the cost of its first interface
func NewRoutingTable(self state.NodeId, costs state.CostTable) *RoutingTable {
	t := &RoutingTable{
		self:    self,
		entries: make(map[state.NodeId]map[state.NodeId]uint32),
	}
	for _, neigh := range costs.Neighbours() {
		_, cost, ok := costs.FirstInterface(neigh)
		if !ok {
			continue
		}
		t.entries[neigh] = map[state.NodeId]uint32{self: cost}
	}
	t.entries[self] = map[state.NodeId]uint32{self: 0}
	return t
}

func (t *RoutingTable) Self() state.NodeId {
	return t.self
}

func (t *RoutingTable) Cost(dst, via state.NodeId) (uint32, bool) {
	entry, ok := t.entries[dst]
	if !ok {
		return 0, false
	}
	cost, ok := entry[via]
	return cost, ok
}

func (t *RoutingTable) HasDestination(dst state.NodeId) bool {
	_, ok := t.entries[dst]
	return ok
}

// Destinations returns every known destination, sorted
func (t *RoutingTable) Destinations() []state.NodeId {
	return state.SortedIds(t.entries)
}

// Reporters returns the routers that reported a cost to dst, sorted
func (t *RoutingTable) Reporters(dst state.NodeId) []state.NodeId {
	return state.SortedIds(t.entries[dst])
}

// Vector returns a deep copy of the table suitable for advertisement
func (t *RoutingTable) Vector() protocol.RouteVector {
	v := make(protocol.RouteVector, len(t.entries))
	for dst, entry := range t.entries {
		v[dst] = maps.Clone(entry)
	}
	return v
}

func (t *RoutingTable) addDestination(dst state.NodeId) (RouteChange, bool) {
	if _, ok := t.entries[dst]; ok {
		return RouteChange{}, false
	}
	t.entries[dst] = make(map[state.NodeId]uint32)
	return RouteChange{Dst: dst}, true
}

// set records cost and reports the change, if any
func (t *RoutingTable) set(dst, via state.NodeId, cost uint32) (RouteChange, bool) {
	entry, ok := t.entries[dst]
	if !ok {
		entry = make(map[state.NodeId]uint32)
		t.entries[dst] = entry
	}
	old, existed := entry[via]
	if existed && old == cost {
		return RouteChange{}, false
	}
	entry[via] = cost
	return RouteChange{
		Dst:     dst,
		Via:     via,
		Old:     old,
		New:     cost,
		Existed: existed,
	}, true
}

// String renders the table as a grid, one column per destination and one row per reporting router
func (t *RoutingTable) String() string {
	dsts := t.Destinations()
	reporters := make(map[state.NodeId]struct{})
	for _, entry := range t.entries {
		for via := range entry {
			reporters[via] = struct{}{}
		}
	}
	rows := state.SortedIds(reporters)

	width := len(t.self)
	for _, id := range append(rows, dsts...) {
		width = max(width, len(id))
	}
	for _, entry := range t.entries {
		for _, cost := range entry {
			width = max(width, len(fmt.Sprint(cost)))
		}
	}
	cell := func(s string) string {
		return fmt.Sprintf(" %*s |", width, s)
	}

	sb := strings.Builder{}
	header := "|" + cell(string(t.self))
	for _, dst := range dsts {
		header += cell(string(dst))
	}
	bars := strings.Repeat("=", len(header))
	dividers := strings.Repeat("-", len(header))

	sb.WriteString(bars + "\n")
	sb.WriteString(header + "\n")
	sb.WriteString(bars + "\n")
	for i, via := range rows {
		line := "|" + cell(string(via))
		for _, dst := range dsts {
			if cost, ok := t.entries[dst][via]; ok {
				line += cell(fmt.Sprint(cost))
			} else {
				line += cell("~")
			}
		}
		sb.WriteString(line + "\n")
		if i < len(rows)-1 {
			sb.WriteString(dividers + "\n")
		}
	}
	sb.WriteString(bars + "\n")
	return sb.String()
}
