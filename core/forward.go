package core

import (
	"github.com/encodeous/dvsim/link"
	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/protocol"
	"github.com/encodeous/dvsim/state"
	"github.com/jellydator/ttlcache/v3"
)

// NextHop picks the neighbour a packet for dst should be handed to. Direct neighbours always win, otherwise
// the cheapest reporting neighbour below the cost ceiling is used.
func NextHop(s *RouterState, dst state.NodeId) (state.NodeId, bool) {
	if s.Costs.IsNeighbour(dst) {
		return dst, true
	}
	bestCost := state.CostCeiling
	var best state.NodeId
	found := false
	for _, via := range s.Table.Reporters(dst) {
		if via == s.Id || !s.Costs.IsNeighbour(via) {
			continue
		}
		cost, _ := s.Table.Cost(dst, via)
		if cost < bestCost {
			bestCost = cost
			best = via
			found = true
		}
	}
	return best, found
}

// ResolveInterface maps dst to the outbound interface of its next hop
func ResolveInterface(s *RouterState, dst state.NodeId) (int, state.NodeId, bool) {
	nh, ok := NextHop(s, dst)
	if !ok {
		return 0, "", false
	}
	iface, _, ok := s.Costs.FirstInterface(nh)
	if !ok {
		return 0, "", false
	}
	return iface, nh, true
}

// forwardPacket hands a data packet that arrived on inIface to the outbound queue of its next hop.
// Packets without a route, or that cannot be queued, are dropped.
func (r *DvRouter) forwardPacket(pkt protocol.NetworkPacket, raw []byte, inIface int) {
	outIface, nh, ok := ResolveInterface(r.RouterState, pkt.Dst)
	if !ok || outIface >= len(r.Ifaces) {
		r.dropUnreachable(pkt, inIface)
		return
	}
	err := r.Ifaces[outIface].Put(raw, link.Out, !r.NonBlockingForward)
	if err != nil {
		perf.PacketsDropped.Add(1)
		r.Log(PacketDropped, "packet lost", "pkt", pkt, "in", inIface, "out", outIface, "err", err)
		return
	}
	perf.PacketsForwarded.Add(1)
	r.Log(PacketForwarded, "forwarding packet", "pkt", pkt, "nh", nh, "in", inIface, "out", outIface)
}

// dropUnreachable logs the first drop for a destination as a warning and repeats within DropLogTTL at debug level
func (r *DvRouter) dropUnreachable(pkt protocol.NetworkPacket, inIface int) {
	perf.PacketsDropped.Add(1)
	if r.unreachable.Get(pkt.Dst) != nil {
		r.log.Debug("no route, dropping packet", "pkt", pkt, "in", inIface)
		return
	}
	r.unreachable.Set(pkt.Dst, struct{}{}, ttlcache.DefaultTTL)
	r.Log(PacketDropped, "no route, dropping packet", "pkt", pkt, "in", inIface)
}

func newUnreachableCache() *ttlcache.Cache[state.NodeId, struct{}] {
	return ttlcache.New[state.NodeId, struct{}](
		ttlcache.WithTTL[state.NodeId, struct{}](state.DropLogTTL),
		ttlcache.WithDisableTouchOnHit[state.NodeId, struct{}](),
	)
}
