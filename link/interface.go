package link

import (
	"errors"
	"sync"
)

type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

var (
	ErrQueueFull  = errors.New("queue full")
	ErrLinkClosed = errors.New("link closed")
)

// queue is a FIFO of encoded packets. A capacity of 0 means unbounded.
type queue struct {
	mu       sync.Mutex
	space    *sync.Cond
	items    [][]byte
	capacity int
	closed   bool
}

func newQueue(capacity int) *queue {
	q := &queue{capacity: max(capacity, 0)}
	q.space = sync.NewCond(&q.mu)
	return q
}

func (q *queue) get() ([]byte, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	q.space.Broadcast()
	return item, true
}

func (q *queue) put(item []byte, block bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		if q.closed {
			return ErrLinkClosed
		}
		if q.capacity == 0 || len(q.items) < q.capacity {
			q.items = append(q.items, item)
			return nil
		}
		if !block {
			return ErrQueueFull
		}
		q.space.Wait()
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.space.Broadcast()
}

// Interface is one physical port of a node: an inbound and an outbound queue, each with the same bound.
// It is safe for concurrent use and is the only state nodes share.
type Interface struct {
	in  *queue
	out *queue
}

func NewInterface(capacity int) *Interface {
	return &Interface{
		in:  newQueue(capacity),
		out: newQueue(capacity),
	}
}

func (i *Interface) queue(dir Direction) *queue {
	if dir == In {
		return i.in
	}
	return i.out
}

// Get never blocks, it returns false if the queue is empty
func (i *Interface) Get(dir Direction) ([]byte, bool) {
	return i.queue(dir).get()
}

// Put appends an encoded packet. With block set, the caller waits until there is room, otherwise ErrQueueFull
// is returned. Puts on a closed interface fail with ErrLinkClosed.
func (i *Interface) Put(pkt []byte, dir Direction, block bool) error {
	return i.queue(dir).put(pkt, block)
}

func (i *Interface) Len(dir Direction) int {
	return i.queue(dir).len()
}

func (i *Interface) Capacity() int {
	return i.in.capacity
}

// Close wakes up every blocked writer. Items already queued can still be read.
func (i *Interface) Close() {
	i.in.close()
	i.out.close()
}

func (i *Interface) Closed() bool {
	return i.out.isClosed()
}
