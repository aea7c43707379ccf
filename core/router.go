package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/encodeous/dvsim/link"
	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/protocol"
	"github.com/encodeous/dvsim/state"
	"github.com/jellydator/ttlcache/v3"
)

// DvRouter is a multi-interface distance-vector router. Its state is only touched by the goroutine running Run.
type DvRouter struct {
	*RouterState
	Ifaces []*link.Interface
	// NonBlockingForward drops data packets when the outbound queue is full instead of waiting
	NonBlockingForward bool

	log         *slog.Logger
	unreachable *ttlcache.Cache[state.NodeId, struct{}]
	// activity counts table changes and advertisements, so observers can tell when the router went quiet
	activity atomic.Uint64
}

// NewRouter creates a router with one interface per index referenced by costs. Each queue is bounded by
// queueCapacity, 0 means unbounded.
func NewRouter(name state.NodeId, costs state.CostTable, queueCapacity int, log *slog.Logger) *DvRouter {
	r := &DvRouter{
		RouterState: NewRouterState(name, costs),
		Ifaces:      make([]*link.Interface, costs.NumInterfaces()),
		log:         log,
		unreachable: newUnreachableCache(),
	}
	for i := range r.Ifaces {
		r.Ifaces[i] = link.NewInterface(queueCapacity)
	}
	r.log.Debug("initialized routing table", "table", "\n"+r.Table.String())
	return r
}

func (r *DvRouter) String() string {
	return string(r.Id)
}

func (r *DvRouter) Log(event RouterEvent, desc string, args ...any) {
	msg := fmt.Sprintf("%s %s", event.String(), desc)
	if event.IsWarning() {
		r.log.Warn(msg, args...)
		return
	}
	r.log.Debug(msg, args...)
}

// Activity is safe to call from any goroutine
func (r *DvRouter) Activity() uint64 {
	return r.activity.Load()
}

// SendRoutes advertises the full routing table on iface
func (r *DvRouter) SendRoutes(iface int) {
	r.activity.Add(1)
	pkt, err := protocol.NewControlPacket(r.Table.Vector())
	if err != nil {
		r.Log(AdvertisementLost, "failed to encode routing update", "iface", iface, "err", err)
		return
	}
	raw, err := pkt.Encode()
	if err != nil {
		r.Log(AdvertisementLost, "failed to encode routing update", "iface", iface, "err", err)
		return
	}
	if iface < 0 || iface >= len(r.Ifaces) {
		r.Log(AdvertisementLost, "no such interface", "iface", iface)
		return
	}
	err = r.Ifaces[iface].Put(raw, link.Out, true)
	if err != nil {
		r.Log(AdvertisementLost, "routing update lost", "iface", iface, "err", err)
		return
	}
	perf.AdvertisementsSent.Add(1)
	r.Log(RoutesAdvertised, "sending routing update", "iface", iface)
}

// ProcessQueues polls every inbound queue once and handles what it finds. It returns the number of packets handled.
func (r *DvRouter) ProcessQueues() int {
	handled := 0
	for i, iface := range r.Ifaces {
		raw, ok := iface.Get(link.In)
		if !ok {
			continue
		}
		handled++
		pkt, err := protocol.Decode(raw)
		if err != nil {
			perf.PacketsDropped.Add(1)
			r.Log(MalformedFrame, "dropping malformed frame", "iface", i, "err", err)
			continue
		}
		switch pkt.Proto {
		case protocol.ProtoData:
			r.forwardPacket(pkt, raw, i)
		case protocol.ProtoControl:
			r.updateRoutes(pkt, i)
		default:
			panic(fmt.Sprintf("%s: unknown packet type in packet %s", r, pkt))
		}
	}
	return handled
}

func (r *DvRouter) updateRoutes(pkt protocol.NetworkPacket, iface int) {
	perf.AdvertisementsRecvd.Add(1)
	vec, err := protocol.DecodeVector(pkt.Payload)
	if err != nil {
		perf.PacketsDropped.Add(1)
		r.Log(MalformedFrame, "dropping malformed routing update", "iface", iface, "err", err)
		return
	}
	start := time.Now()
	changes := HandleRouteUpdate(r.RouterState, r, iface, vec)
	perf.RelaxLatency.Add(float64(time.Since(start).Microseconds()))
	if len(changes) > 0 {
		r.activity.Add(uint64(len(changes)))
		perf.RouteChanges.Add(float64(len(changes)))
	}
	r.log.Debug("routing table", "changes", len(changes), "table", "\n"+r.Table.String())
}

// Run advertises the initial table, then processes queues until ctx is cancelled. The stop signal is only
// checked at the top of each iteration, so packets taken off a queue in the current pass are still handled.
func (r *DvRouter) Run(ctx context.Context) error {
	r.log.Info("starting router", "interfaces", len(r.Ifaces))
	NotifyNeighbours(r.RouterState, r)
	for {
		if ctx.Err() != nil {
			r.log.Info("stopped router", "reason", context.Cause(ctx).Error())
			return nil
		}
		if r.ProcessQueues() == 0 {
			select {
			case <-ctx.Done():
			case <-time.After(state.IdlePollDelay):
			}
		}
	}
}
