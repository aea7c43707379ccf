package link

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/encodeous/dvsim/state"
	"golang.org/x/sync/errgroup"
)

// Link is a point-to-point wire between two interfaces. Packets written to one side's outbound queue are
// delivered to the other side's inbound queue.
type Link struct {
	A, B   state.Endpoint
	ifaceA *Interface
	ifaceB *Interface
	log    *slog.Logger
}

func NewLink(a state.Endpoint, ifaceA *Interface, b state.Endpoint, ifaceB *Interface, log *slog.Logger) *Link {
	return &Link{
		A:      a,
		B:      b,
		ifaceA: ifaceA,
		ifaceB: ifaceB,
		log:    log.With("link", a.String()+"-"+b.String()),
	}
}

func (l *Link) pump(ctx context.Context, from, to *Interface, fromEp, toEp state.Endpoint) error {
	for ctx.Err() == nil {
		pkt, ok := from.Get(Out)
		if !ok {
			if from.Closed() {
				return nil
			}
			select {
			case <-ctx.Done():
			case <-time.After(state.LinkPollDelay):
			}
			continue
		}
		if err := to.Put(pkt, In, true); err != nil {
			l.log.Debug("packet lost on link", "from", fromEp, "to", toEp, "err", err)
			if errors.Is(err, ErrLinkClosed) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Run moves packets in both directions until ctx is done or an interface is closed.
// Each direction is pumped independently so a full queue on one side does not stall the other.
func (l *Link) Run(ctx context.Context) error {
	g := errgroup.Group{}
	g.Go(func() error {
		return l.pump(ctx, l.ifaceA, l.ifaceB, l.A, l.B)
	})
	g.Go(func() error {
		return l.pump(ctx, l.ifaceB, l.ifaceA, l.B, l.A)
	})
	return g.Wait()
}
