package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBus()
	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(UnreadCountStale{})

	for _, ch := range []<-chan UnreadCountStale{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive signal")
		}
	}
}

func TestBus_BurstCollapsesToOnePendingSignal(t *testing.T) {
	var b Bus
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 10; i++ {
		b.Publish(UnreadCountStale{})
	}

	require.Len(t, ch, 1)
	<-ch
	select {
	case <-ch:
		t.Fatal("expected burst to collapse into a single signal")
	default:
	}
}

func TestBus_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	b := NewBus()
	done := make(chan struct{})
	go func() {
		b.Publish(UnreadCountStale{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestBus_CancelRemovesAndClosesOnce(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	assert.Equal(t, 0, b.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	b.Publish(UnreadCountStale{})
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := b.Subscribe()
			cancel()
		}()
		go func() {
			defer wg.Done()
			b.Publish(UnreadCountStale{})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Subscribers())
}
