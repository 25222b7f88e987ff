package notifications

import (
	"context"
	"sync/atomic"

	"github.com/housersapp/housers/internal/events"
)

// UnreadCounter is the source of truth a Badge recomputes from.
type UnreadCounter interface {
	UnreadCount() int
}

// Badge tracks the unread count shown next to the notifications entry point.
type Badge struct {
	source   UnreadCounter
	bus      *events.Bus
	count    atomic.Int64
	onChange func(int)
}

// NewBadge computes the initial count. onChange, if not nil, is called from
// Run whenever the recomputed count differs from the previous one.
func NewBadge(source UnreadCounter, bus *events.Bus, onChange func(int)) *Badge {
	b := &Badge{source: source, bus: bus, onChange: onChange}
	b.count.Store(int64(source.UnreadCount()))
	return b
}

func (b *Badge) Count() int { return int(b.count.Load()) }

// Refresh recomputes the count from the source.
func (b *Badge) Refresh() int {
	n := b.source.UnreadCount()
	old := b.count.Swap(int64(n))
	if old != int64(n) && b.onChange != nil {
		b.onChange(n)
	}
	return n
}

// Run recomputes on every UnreadCountStale until ctx is done.
func (b *Badge) Run(ctx context.Context) {
	ch, cancel := b.bus.Subscribe()
	defer cancel()
	b.Refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			b.Refresh()
		}
	}
}
