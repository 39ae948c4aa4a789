package events

import (
	"log/slog"
	"sync"
)

// Signal names a payload-free notification. Receivers re-pull whatever state
// they display; nothing is delivered with the signal itself.
type Signal string

const (
	CartChanged     Signal = "cartUpdated"
	WishlistChanged Signal = "wishlistUpdated"
	SessionEnded    Signal = "sessionEnded"
)

type subscription struct {
	id uint64
	fn func()
}

// Bus is a synchronous in-process broadcaster. Publish runs every current
// subscriber of the signal on the caller's goroutine before returning.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Signal][]subscription
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[Signal][]subscription),
		logger: logger,
	}
}

// Subscribe registers fn for signal. The returned func removes it and may be
// called more than once.
func (b *Bus) Subscribe(signal Signal, fn func()) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[signal] = append(b.subs[signal], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(signal, id) })
	}
}

func (b *Bus) remove(signal Signal, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[signal]
	for i, s := range subs {
		if s.id == id {
			b.subs[signal] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[signal]) == 0 {
		delete(b.subs, signal)
	}
}

func (b *Bus) Publish(signal Signal) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[signal]))
	copy(subs, b.subs[signal])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(signal, s)
	}
}

func (b *Bus) deliver(signal Signal, s subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Bus.Publish: subscriber panicked", "signal", string(signal), "panic", r)
		}
	}()
	s.fn()
}

func (b *Bus) Subscribers(signal Signal) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[signal])
}
