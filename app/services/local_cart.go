package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/storage"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
)

const (
	LocalCartKey   = "cart"
	LocalCouponKey = "cartCoupon"
)

// LocalCartStore keeps a guest cart as one JSON blob in storage. Reads never
// fail: a missing, unreadable or corrupt blob is an empty cart. Failed writes
// are logged and leave the cart as it was.
//
// The mutex only orders read-modify-write within this instance. Two stores
// over the same storage key follow last-write-wins.
type LocalCartStore struct {
	mu     sync.Mutex
	store  storage.Storage
	bus    *events.Bus
	logger *slog.Logger
}

func NewLocalCartStore(store storage.Storage, bus *events.Bus, logger *slog.Logger) *LocalCartStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalCartStore{store: store, bus: bus, logger: logger}
}

func (s *LocalCartStore) GetCart(ctx context.Context) []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// AddItem adds qty of product, merging into an existing line for the same
// product. A qty below 1 adds one unit.
func (s *LocalCartStore) AddItem(ctx context.Context, product models.CartLineItem, qty int) []models.CartLineItem {
	if qty < 1 {
		qty = 1
	}
	if strings.TrimSpace(product.ProductID) == "" {
		s.logger.Warn("LocalCartStore.AddItem: ignoring product without id")
		return s.GetCart(ctx)
	}

	return s.mutate(ctx, "AddItem", func(items []models.CartLineItem) ([]models.CartLineItem, bool) {
		for i := range items {
			if items[i].ProductID == product.ProductID {
				items[i].Quantity += qty
				return items, true
			}
		}
		line := product
		line.ItemID = ""
		line.Quantity = qty
		return append(items, line), true
	})
}

// UpdateQuantity sets the quantity of productID. Quantities below 1 remove the
// line. Unknown products leave the cart untouched.
func (s *LocalCartStore) UpdateQuantity(ctx context.Context, productID string, qty int) []models.CartLineItem {
	if qty < 1 {
		return s.RemoveItem(ctx, productID)
	}

	return s.mutate(ctx, "UpdateQuantity", func(items []models.CartLineItem) ([]models.CartLineItem, bool) {
		for i := range items {
			if items[i].ProductID == productID {
				if items[i].Quantity == qty {
					return items, false
				}
				items[i].Quantity = qty
				return items, true
			}
		}
		return items, false
	})
}

func (s *LocalCartStore) RemoveItem(ctx context.Context, productID string) []models.CartLineItem {
	return s.mutate(ctx, "RemoveItem", func(items []models.CartLineItem) ([]models.CartLineItem, bool) {
		kept := items[:0]
		for _, item := range items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		return kept, len(kept) != len(items)
	})
}

// Clear deletes the stored cart and any applied coupon. When the cart cannot
// be removed the stored cart is returned unchanged along with the error.
func (s *LocalCartStore) Clear(ctx context.Context) ([]models.CartLineItem, error) {
	s.mu.Lock()
	if err := s.store.RemoveItem(ctx, LocalCartKey); err != nil {
		current := s.read(ctx)
		s.mu.Unlock()
		s.logger.Error("LocalCartStore.Clear: failed to remove cart, keeping previous state", "err", err)
		return current, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err := s.store.RemoveItem(ctx, LocalCouponKey); err != nil {
		s.logger.Error("LocalCartStore.Clear: failed to remove coupon", "err", err)
	}
	s.mu.Unlock()

	s.publish()
	return []models.CartLineItem{}, nil
}

func (s *LocalCartStore) Count(ctx context.Context) int {
	n := 0
	for _, item := range s.GetCart(ctx) {
		n += item.Quantity
	}
	return n
}

// ApplyCoupon replaces any previously applied coupon.
func (s *LocalCartStore) ApplyCoupon(ctx context.Context, code string) (models.Coupon, error) {
	coupon, found := models.LookupCoupon(code)
	if !found {
		return models.Coupon{}, fmt.Errorf("%w: %q", ErrUnknownCoupon, code)
	}

	s.mu.Lock()
	err := s.store.SetItem(ctx, LocalCouponKey, coupon.Code)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("LocalCartStore.ApplyCoupon: failed to persist coupon", "code", coupon.Code, "err", err)
		return models.Coupon{}, fmt.Errorf("failed to apply coupon: %w", err)
	}

	s.publish()
	return coupon, nil
}

func (s *LocalCartStore) RemoveCoupon(ctx context.Context) error {
	s.mu.Lock()
	err := s.store.RemoveItem(ctx, LocalCouponKey)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to remove coupon: %w", err)
	}

	s.publish()
	return nil
}

func (s *LocalCartStore) AppliedCoupon(ctx context.Context) *models.Coupon {
	code, found, err := s.store.GetItem(ctx, LocalCouponKey)
	if err != nil {
		s.logger.Error("LocalCartStore.AppliedCoupon: failed to read coupon", "err", err)
		return nil
	}
	if !found {
		return nil
	}
	coupon, known := models.LookupCoupon(code)
	if !known {
		s.logger.Warn("LocalCartStore.AppliedCoupon: stored coupon no longer exists", "code", code)
		return nil
	}
	return &coupon
}

func (s *LocalCartStore) Summary(ctx context.Context) calc.CartSummary {
	return calc.Summarize(s.GetCart(ctx), s.AppliedCoupon(ctx))
}

func (s *LocalCartStore) mutate(ctx context.Context, op string, fn func([]models.CartLineItem) ([]models.CartLineItem, bool)) []models.CartLineItem {
	s.mu.Lock()
	current := s.read(ctx)

	next, changed := fn(append([]models.CartLineItem(nil), current...))
	if !changed {
		s.mu.Unlock()
		return current
	}

	if err := s.write(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("LocalCartStore."+op+": failed to persist cart, keeping previous state", "err", err)
		return current
	}
	s.mu.Unlock()

	s.publish()
	return next
}

func (s *LocalCartStore) read(ctx context.Context) []models.CartLineItem {
	items := []models.CartLineItem{}
	if err := readJSON(ctx, s.store, LocalCartKey, &items); err != nil {
		if errors.Is(err, ErrStorageCorrupt) {
			s.logger.Warn("LocalCartStore: stored cart is corrupt, treating as empty", "err", err)
		} else {
			s.logger.Error("LocalCartStore: failed to read cart, treating as empty", "err", err)
		}
		return []models.CartLineItem{}
	}

	valid := make([]models.CartLineItem, 0, len(items))
	seen := make(map[string]int, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity < 1 {
			s.logger.Warn("LocalCartStore: dropping invalid stored line", "product_id", item.ProductID, "quantity", item.Quantity)
			continue
		}
		if i, dup := seen[item.ProductID]; dup {
			s.logger.Warn("LocalCartStore: merging duplicate stored line", "product_id", item.ProductID, "quantity", item.Quantity)
			valid[i].Quantity += item.Quantity
			continue
		}
		seen[item.ProductID] = len(valid)
		valid = append(valid, item)
	}
	return valid
}

func (s *LocalCartStore) write(ctx context.Context, items []models.CartLineItem) error {
	return writeJSON(ctx, s.store, LocalCartKey, items)
}

func (s *LocalCartStore) publish() {
	if s.bus != nil {
		s.bus.Publish(events.CartChanged)
	}
}

// readJSON decodes key into v. A missing key leaves v untouched.
func readJSON(ctx context.Context, store storage.Storage, key string, v any) error {
	raw, found, err := store.GetItem(ctx, key)
	if err != nil {
		return err
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrStorageCorrupt, key, err)
	}
	return nil
}

func writeJSON(ctx context.Context, store storage.Storage, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return store.SetItem(ctx, key, string(raw))
}
