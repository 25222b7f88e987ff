// Package events is the process-wide broadcast used to tell unrelated views
// that derived state went stale.
//
// There is one event today, UnreadCountStale, and it carries no payload:
// subscribers recompute from the source of truth instead of applying a delta,
// so losing or merging signals is harmless. Each subscription is a channel
// with a buffer of one; Publish never blocks and a burst of publishes before
// the subscriber wakes up collapses into a single pending signal.
package events

import "sync"

// UnreadCountStale asks subscribers to re-derive the unread notification count.
type UnreadCountStale struct{}

// Bus fans UnreadCountStale out to subscribers. The zero value is ready to use.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan UnreadCountStale
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber. The returned cancel function removes it
// and closes the channel; calling it more than once is safe.
func (b *Bus) Subscribe() (<-chan UnreadCountStale, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan UnreadCountStale)
	}
	id := b.next
	b.next++
	ch := make(chan UnreadCountStale, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish signals every subscriber without waiting for any of them.
func (b *Bus) Publish(ev UnreadCountStale) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// a signal is already pending
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
