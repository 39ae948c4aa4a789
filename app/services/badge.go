package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/events"
)

// Counter re-pulls the number a badge shows.
type Counter func(ctx context.Context) (int, error)

// Badge caches a count and re-pulls it after its signal fires. A session end
// zeroes it until the next pull.
type Badge struct {
	mu      sync.Mutex
	count   int
	stale   bool
	gen     uint64
	counter Counter
	unsubs  []func()
	logger  *slog.Logger
}

func NewBadge(bus *events.Bus, signal events.Signal, counter Counter, logger *slog.Logger) *Badge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Badge{stale: true, counter: counter, logger: logger}
	if bus != nil {
		b.unsubs = append(b.unsubs,
			bus.Subscribe(signal, b.invalidate),
			bus.Subscribe(events.SessionEnded, b.Reset),
		)
	}
	return b
}

// Count returns the cached value, pulling a fresh one when a change was
// signalled since the last pull.
func (b *Badge) Count(ctx context.Context) int {
	b.mu.Lock()
	stale, count := b.stale, b.count
	b.mu.Unlock()

	if !stale {
		return count
	}
	return b.Refresh(ctx)
}

// Refresh pulls the count now. On failure the previous value is kept. A change
// signalled while the pull runs leaves the badge stale.
func (b *Badge) Refresh(ctx context.Context) int {
	b.mu.Lock()
	gen := b.gen
	b.mu.Unlock()

	n, err := b.counter(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger.Warn("Badge.Refresh: counter failed, keeping previous count", "count", b.count, "err", err)
		return b.count
	}
	b.count = n
	if b.gen == gen {
		b.stale = false
	}
	return n
}

func (b *Badge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count = 0
	b.stale = true
	b.gen++
}

func (b *Badge) Close() {
	for _, unsub := range b.unsubs {
		unsub()
	}
}

func (b *Badge) invalidate() {
	b.mu.Lock()
	b.stale = true
	b.gen++
	b.mu.Unlock()
}
