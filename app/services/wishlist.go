package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/storage"
)

const WishlistKey = "wishlist"

// Wishlist is an ordered set of product ids kept in storage, with the same
// failure policy as LocalCartStore.
type Wishlist struct {
	mu     sync.Mutex
	store  storage.Storage
	bus    *events.Bus
	logger *slog.Logger
}

func NewWishlist(store storage.Storage, bus *events.Bus, logger *slog.Logger) *Wishlist {
	if logger == nil {
		logger = slog.Default()
	}
	return &Wishlist{store: store, bus: bus, logger: logger}
}

func (w *Wishlist) Items(ctx context.Context) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.read(ctx)
}

func (w *Wishlist) Contains(ctx context.Context, productID string) bool {
	return slices.Contains(w.Items(ctx), productID)
}

func (w *Wishlist) Count(ctx context.Context) int {
	return len(w.Items(ctx))
}

func (w *Wishlist) Add(ctx context.Context, productID string) []string {
	return w.mutate(ctx, func(ids []string) ([]string, bool) {
		if productID == "" || slices.Contains(ids, productID) {
			return ids, false
		}
		return append(ids, productID), true
	})
}

func (w *Wishlist) Remove(ctx context.Context, productID string) []string {
	return w.mutate(ctx, func(ids []string) ([]string, bool) {
		i := slices.Index(ids, productID)
		if i < 0 {
			return ids, false
		}
		return slices.Delete(ids, i, i+1), true
	})
}

// Toggle adds productID when absent and removes it otherwise. It reports
// whether the product is in the wishlist afterwards.
func (w *Wishlist) Toggle(ctx context.Context, productID string) bool {
	if w.Contains(ctx, productID) {
		w.Remove(ctx, productID)
		return false
	}
	return slices.Contains(w.Add(ctx, productID), productID)
}

func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	err := w.store.RemoveItem(ctx, WishlistKey)
	w.mu.Unlock()
	if err != nil {
		w.logger.Error("Wishlist.Clear: failed to remove wishlist", "err", err)
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	w.publish()
	return nil
}

func (w *Wishlist) mutate(ctx context.Context, fn func([]string) ([]string, bool)) []string {
	w.mu.Lock()
	current := w.read(ctx)
	next, changed := fn(slices.Clone(current))
	if !changed {
		w.mu.Unlock()
		return current
	}
	if err := writeJSON(ctx, w.store, WishlistKey, next); err != nil {
		w.mu.Unlock()
		w.logger.Error("Wishlist: failed to persist wishlist, keeping previous state", "err", err)
		return current
	}
	w.mu.Unlock()

	w.publish()
	return next
}

func (w *Wishlist) read(ctx context.Context) []string {
	ids := []string{}
	if err := readJSON(ctx, w.store, WishlistKey, &ids); err != nil {
		w.logger.Warn("Wishlist: failed to read wishlist, treating as empty", "err", err)
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

func (w *Wishlist) publish() {
	if w.bus != nil {
		w.bus.Publish(events.WishlistChanged)
	}
}
