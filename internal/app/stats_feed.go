package app

import (
	"sync"

	"quiz-platform/internal/domain"
)

// StatsFeed fans statistics snapshots out to live subscribers.
type StatsFeed struct {
	mu          sync.Mutex
	latest      domain.Stats
	subscribers map[chan domain.Stats]struct{}
}

func NewStatsFeed() *StatsFeed {
	return &StatsFeed{subscribers: make(map[chan domain.Stats]struct{})}
}

// Subscribe returns a channel that receives the latest snapshot followed by every update.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *StatsFeed) Subscribe() (<-chan domain.Stats, func()) {
	ch := make(chan domain.Stats, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	ch <- f.latest
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish records the snapshot and pushes it to every subscriber without blocking.
func (f *StatsFeed) Publish(stats domain.Stats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = stats
	for ch := range f.subscribers {
		select {
		case ch <- stats:
		default:
			// slow subscriber: drop the oldest snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			ch <- stats
		}
	}
}

// Subscribers reports how many subscribers are attached.
func (f *StatsFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
