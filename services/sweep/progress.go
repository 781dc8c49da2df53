package sweep

import "sync"

// ProgressSink receives human-readable status lines from a running sweep.
// Reports are fire-and-forget; last-write-wins is acceptable.
type ProgressSink interface {
	Report(message string)
}

type SinkFunc func(message string)

func (f SinkFunc) Report(message string) {
	f(message)
}

// BroadcastSink fans progress lines out to any number of subscribers. A slow
// subscriber drops messages instead of blocking the sweep loop.
type BroadcastSink struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewBroadcastSink() *BroadcastSink {
	return &BroadcastSink{subs: map[chan string]struct{}{}}
}

func (b *BroadcastSink) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *BroadcastSink) Report(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- message:
		default:
		}
	}
}
