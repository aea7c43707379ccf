package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/encodeous/dvsim/link"
	"github.com/encodeous/dvsim/state"
	"golang.org/x/sync/errgroup"
)

var ErrNetworkStopped = errors.New("network stopped")

// Network wires routers and hosts together according to a SimCfg. Every node and every link runs on its own goroutine.
type Network struct {
	Cfg     *state.SimCfg
	Routers map[state.NodeId]*DvRouter
	Hosts   map[state.NodeId]*Host
	Links   []*link.Link

	log    *slog.Logger
	cancel context.CancelCauseFunc
	group  *errgroup.Group
}

func NewNetwork(cfg *state.SimCfg, log *slog.Logger) (*Network, error) {
	n := &Network{
		Cfg:     cfg,
		Routers: make(map[state.NodeId]*DvRouter),
		Hosts:   make(map[state.NodeId]*Host),
		log:     log,
	}
	for _, rc := range cfg.Routers {
		r := NewRouter(rc.Id, rc.CostTable(), cfg.QueueCapacity, log.With("node", string(rc.Id)))
		r.NonBlockingForward = cfg.NonBlockingForward
		n.Routers[rc.Id] = r
	}
	for _, hc := range cfg.Hosts {
		n.Hosts[hc.Id] = NewHost(hc.Id, log.With("node", string(hc.Id)))
	}
	for _, lc := range cfg.Links {
		a, ifaceA, err := n.resolve(lc.A)
		if err != nil {
			return nil, err
		}
		b, ifaceB, err := n.resolve(lc.B)
		if err != nil {
			return nil, err
		}
		n.Links = append(n.Links, link.NewLink(a, ifaceA, b, ifaceB, log))
	}
	return n, nil
}

func (n *Network) resolve(raw string) (state.Endpoint, *link.Interface, error) {
	ep, err := state.ParseEndpoint(raw)
	if err != nil {
		return ep, nil, err
	}
	iface, err := n.Interface(ep)
	return ep, iface, err
}

// Interface looks up the interface behind an endpoint
func (n *Network) Interface(ep state.Endpoint) (*link.Interface, error) {
	if h, ok := n.Hosts[ep.Node]; ok {
		if ep.Interface != 0 {
			return nil, fmt.Errorf("host %s has no interface %d", ep.Node, ep.Interface)
		}
		return h.Iface, nil
	}
	r, ok := n.Routers[ep.Node]
	if !ok {
		return nil, fmt.Errorf("node %s not found", ep.Node)
	}
	if ep.Interface < 0 || ep.Interface >= len(r.Ifaces) {
		return nil, fmt.Errorf("router %s has no interface %d", ep.Node, ep.Interface)
	}
	return r.Ifaces[ep.Interface], nil
}

func (n *Network) interfaces() []*link.Interface {
	ifaces := make([]*link.Interface, 0)
	for _, r := range n.Routers {
		ifaces = append(ifaces, r.Ifaces...)
	}
	for _, h := range n.Hosts {
		ifaces = append(ifaces, h.Iface)
	}
	return ifaces
}

// Start launches every node and link
func (n *Network) Start(ctx context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)
	n.cancel = cancel
	n.group = &errgroup.Group{}
	for _, l := range n.Links {
		n.group.Go(func() error {
			return l.Run(ctx)
		})
	}
	for _, id := range state.SortedIds(n.Routers) {
		r := n.Routers[id]
		n.group.Go(func() (err error) {
			pprof.Do(ctx, pprof.Labels("dvsim node", string(id)), func(ctx context.Context) {
				err = r.Run(ctx)
			})
			return
		})
	}
	for _, id := range state.SortedIds(n.Hosts) {
		h := n.Hosts[id]
		n.group.Go(func() (err error) {
			pprof.Do(ctx, pprof.Labels("dvsim node", string(id)), func(ctx context.Context) {
				err = h.Run(ctx)
			})
			return
		})
	}
	n.log.Info("network started", "routers", len(n.Routers), "hosts", len(n.Hosts), "links", len(n.Links))
}

// Stop raises the stop signal, closes every interface so blocked writers return, and waits for all goroutines
func (n *Network) Stop() error {
	if n.group == nil {
		return nil
	}
	n.cancel(ErrNetworkStopped)
	for _, iface := range n.interfaces() {
		iface.Close()
	}
	err := n.group.Wait()
	n.group = nil
	n.log.Info("network stopped")
	return err
}

// Send injects a data packet from a host
func (n *Network) Send(from, to state.NodeId, payload []byte) error {
	h, ok := n.Hosts[from]
	if !ok {
		return fmt.Errorf("host %s not found", from)
	}
	return h.Send(to, payload)
}

func (n *Network) activity() uint64 {
	total := uint64(0)
	for _, r := range n.Routers {
		total += r.Activity()
	}
	return total
}

func (n *Network) queued() int {
	total := 0
	for _, iface := range n.interfaces() {
		total += iface.Len(link.In) + iface.Len(link.Out)
	}
	return total
}

// WaitIdle blocks until no router has changed its table or advertised for the quiet period and every queue is empty
func (n *Network) WaitIdle(ctx context.Context, quiet time.Duration) error {
	last := n.activity()
	since := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(quiet / 10):
		}
		cur := n.activity()
		if cur != last || n.queued() != 0 {
			last = cur
			since = time.Now()
			continue
		}
		if time.Since(since) >= quiet {
			return nil
		}
	}
}

// Tables renders every routing table. Call it only while the network is stopped.
func (n *Network) Tables() string {
	sb := strings.Builder{}
	for _, id := range state.SortedIds(n.Routers) {
		sb.WriteString(fmt.Sprintf("%s:\n", id))
		sb.WriteString(n.Routers[id].Table.String())
	}
	return sb.String()
}
