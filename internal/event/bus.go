package event

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber channel capacity used when Subscribe is
// called with a non-positive size.
const DefaultBuffer = 64

// Subscription is a registered receiver of bus events.
type Subscription struct {
	id   uint64
	ch   chan Event
	bus  *Bus
	once sync.Once
}

// C returns the channel events are delivered on. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close unsubscribes and closes the delivery channel.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// Bus is an asynchronous pub-sub bus. Publish never blocks: each subscriber
// has its own buffer, and an event that does not fit is dropped.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription
	closed  bool
	nextID  atomic.Uint64
	dropped atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers a new subscriber with the given buffer size. On a
// closed bus the returned subscription's channel is already closed.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	sub := &Subscription{
		id:  b.nextID.Add(1),
		ch:  make(chan Event, buffer),
		bus: b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers e to every subscriber that has room for it.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		sub.once.Do(func() { close(sub.ch) })
		delete(b.subs, id)
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, sub.id)
	sub.once.Do(func() { close(sub.ch) })
}
