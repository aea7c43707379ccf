package core

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/encodeous/dvsim/link"
	"github.com/encodeous/dvsim/perf"
	"github.com/encodeous/dvsim/protocol"
	"github.com/encodeous/dvsim/state"
)

// Host is an end node with a single unbounded interface
type Host struct {
	Id    state.NodeId
	Iface *link.Interface

	log      *slog.Logger
	mu       sync.Mutex
	received []protocol.NetworkPacket
}

func NewHost(id state.NodeId, log *slog.Logger) *Host {
	return &Host{
		Id:    id,
		Iface: link.NewInterface(0),
		log:   log,
	}
}

func (h *Host) String() string {
	return string(h.Id)
}

// Send enqueues a data packet for transmission
func (h *Host) Send(dst state.NodeId, payload []byte) error {
	pkt := protocol.NewDataPacket(dst, payload)
	raw, err := pkt.Encode()
	if err != nil {
		return err
	}
	h.log.Info("sending packet", "pkt", pkt)
	return h.Iface.Put(raw, link.Out, false)
}

// Receive polls one inbound packet
func (h *Host) Receive() (protocol.NetworkPacket, bool) {
	raw, ok := h.Iface.Get(link.In)
	if !ok {
		return protocol.NetworkPacket{}, false
	}
	pkt, err := protocol.Decode(raw)
	if err != nil {
		h.log.Warn("dropping malformed frame", "err", err)
		return protocol.NetworkPacket{}, false
	}
	perf.PacketsDelivered.Add(1)
	h.log.Info("received packet", "pkt", pkt)
	h.mu.Lock()
	h.received = append(h.received, pkt)
	h.mu.Unlock()
	return pkt, true
}

// Received returns every packet delivered so far. Safe to call while the host is running.
func (h *Host) Received() []protocol.NetworkPacket {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.received)
}

func (h *Host) Run(ctx context.Context) error {
	h.log.Info("starting host")
	for {
		if ctx.Err() != nil {
			h.log.Info("stopped host", "reason", context.Cause(ctx).Error())
			return nil
		}
		if _, ok := h.Receive(); !ok {
			select {
			case <-ctx.Done():
			case <-time.After(state.IdlePollDelay):
			}
		}
	}
}
