package core

// Distance-vector relaxation. There is no split horizon, poison reverse, sequence
// numbers or hold-down timers, so a cost increase can count to infinity.

import (
	"github.com/encodeous/dvsim/protocol"
	"github.com/encodeous/dvsim/state"
)

type RouterEvent int

// trace events

const (
	RouteAdded RouterEvent = iota
	RouteImproved
	RouteRecomputed
	RoutesAdvertised
	RoutesReceived
	PacketForwarded
)

// warn events

const (
	PacketDropped RouterEvent = iota + 1000
	AdvertisementLost
	MalformedFrame
)

func (e RouterEvent) String() string {
	switch e {
	case RouteAdded:
		return "RouteAdded"
	case RouteImproved:
		return "RouteImproved"
	case RouteRecomputed:
		return "RouteRecomputed"
	case RoutesAdvertised:
		return "RoutesAdvertised"
	case RoutesReceived:
		return "RoutesReceived"
	case PacketForwarded:
		return "PacketForwarded"
	case PacketDropped:
		return "PacketDropped"
	case AdvertisementLost:
		return "AdvertisementLost"
	case MalformedFrame:
		return "MalformedFrame"
	}
	return "RouterEvent(?)"
}

func (e RouterEvent) IsWarning() bool {
	return e >= PacketDropped
}

// Router is an interface that defines the underlying router operations
type Router interface {
	SendRoutes(iface int)
	Log(event RouterEvent, desc string, args ...any)
}

// RouterState is everything the engine reads or mutates. It must only be accessed from the owning router's goroutine.
type RouterState struct {
	Id    state.NodeId
	Costs state.CostTable
	Table *RoutingTable
}

func NewRouterState(id state.NodeId, costs state.CostTable) *RouterState {
	return &RouterState{
		Id:    id,
		Costs: costs,
		Table: NewRoutingTable(id, costs),
	}
}

// HandleRouteUpdate merges a neighbour's vector into the table and re-advertises if anything changed
func HandleRouteUpdate(s *RouterState, r Router, iface int, vec protocol.RouteVector) []RouteChange {
	r.Log(RoutesReceived, "received routing update", "iface", iface, "destinations", len(vec))
	changes := Relax(s, vec)
	for _, c := range changes {
		switch {
		case c.Via == "" || !c.Existed:
			r.Log(RouteAdded, "route added", "change", c)
		case c.New < c.Old:
			r.Log(RouteImproved, "route improved", "change", c)
		default:
			r.Log(RouteRecomputed, "route recomputed", "change", c)
		}
	}
	if len(changes) > 0 {
		NotifyNeighbours(s, r)
	}
	return changes
}

// Relax applies a received vector and returns every entry it changed:
//  1. unknown destinations get an empty entry
//  2. costs reported for a (destination, router) pair keep the minimum, new pairs are inserted
//  3. a destination that is neither us nor a neighbour gets our own cost via the cheapest neighbour that
//     newly reported it
//  4. destinations missing from the vector are recomputed through every router that reported anything
func Relax(s *RouterState, vec protocol.RouteVector) []RouteChange {
	t := s.Table
	changes := make([]RouteChange, 0)
	record := func(c RouteChange, changed bool) {
		if changed {
			changes = append(changes, c)
		}
	}

	reporters := make(map[state.NodeId]struct{})
	for _, dst := range state.SortedIds(vec) {
		record(t.addDestination(dst))

		bestCost := state.CostCeiling
		var bestVia state.NodeId
		found := false
		for _, via := range state.SortedIds(vec[dst]) {
			cost := vec[dst][via]
			reporters[via] = struct{}{}
			if cur, ok := t.Cost(dst, via); ok {
				if cost < cur {
					record(t.set(dst, via, cost))
				}
				continue
			}
			record(t.set(dst, via, cost))
			if dst != s.Id && !s.Costs.IsNeighbour(dst) && s.Costs.IsNeighbour(via) && cost < bestCost {
				bestCost = cost
				bestVia = via
				found = true
			}
		}
		if found {
			if viaCost, ok := t.Cost(bestVia, s.Id); ok {
				record(t.set(dst, s.Id, AddCost(viaCost, bestCost)))
			}
		}
	}

	for _, dst := range t.Destinations() {
		if _, ok := vec[dst]; ok {
			continue
		}
		for _, via := range state.SortedIds(reporters) {
			viaCost, ok := t.Cost(via, s.Id)
			if !ok {
				continue
			}
			selfCost, ok := t.Cost(dst, s.Id)
			if !ok {
				continue
			}
			record(t.set(dst, via, AddCost(viaCost, selfCost)))
		}
	}
	return changes
}

// NotifyNeighbours advertises the table once to every adjacent router, on its first interface
func NotifyNeighbours(s *RouterState, r Router) {
	for _, neigh := range s.Costs.Neighbours() {
		if !neigh.IsRouter() {
			continue
		}
		iface, _, ok := s.Costs.FirstInterface(neigh)
		if !ok {
			continue
		}
		r.SendRoutes(iface)
	}
}
