package state

import (
	"cmp"
	"maps"
	"slices"
	"strings"
)

// NodeId identifies a router or a host in the simulated network
type NodeId string

// RouterPrefix marks identifiers that belong to routers. Only routers take part in route exchange.
const RouterPrefix = "R"

func (n NodeId) IsRouter() bool {
	return strings.HasPrefix(string(n), RouterPrefix)
}

// InterfaceCost maps a local interface index to the cost of the link behind it
type InterfaceCost map[int]uint32

// CostTable is the static neighbour table of a router: neighbour -> interface -> cost
type CostTable map[NodeId]InterfaceCost

// FirstInterface returns the lowest interface index that reaches neigh
func (c CostTable) FirstInterface(neigh NodeId) (int, uint32, bool) {
	ifaces, ok := c[neigh]
	if !ok || len(ifaces) == 0 {
		return 0, 0, false
	}
	idx := slices.Min(slices.Collect(maps.Keys(ifaces)))
	return idx, ifaces[idx], true
}

// IsNeighbour reports whether id is directly attached
func (c CostTable) IsNeighbour(id NodeId) bool {
	_, ok := c[id]
	return ok
}

// NumInterfaces is one past the highest interface index referenced by the table
func (c CostTable) NumInterfaces() int {
	n := 0
	for _, ifaces := range c {
		for idx := range ifaces {
			n = max(n, idx+1)
		}
	}
	return n
}

// Neighbours returns the neighbour ids in sorted order
func (c CostTable) Neighbours() []NodeId {
	return SortedIds(c)
}

func SortedIds[V any](m map[NodeId]V) []NodeId {
	return slices.SortedFunc(maps.Keys(m), func(a, b NodeId) int {
		return cmp.Compare(a, b)
	})
}
