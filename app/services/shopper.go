package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/storage"
)

// ShopperPrefix namespaces a shopper's keys in the persistent storage.
func ShopperPrefix(shopperID string) string {
	return "shopper:" + shopperID + ":"
}

// Shopper is everything the server keeps for one browser: its own bus, a
// persistent storage that outlives the process and a session storage that
// lives only as long as this value.
type Shopper struct {
	ID            string
	Bus           *events.Bus
	Session       *Session
	Cart          *LocalCartStore
	Wishlist      *Wishlist
	API           *StorefrontAPI
	Remote        *RemoteCartClient
	Backends      *BackendSelector
	CartBadge     *Badge
	WishlistBadge *Badge

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Shopper) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Shopper) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Shopper) close() {
	s.CartBadge.Close()
	s.WishlistBadge.Close()
}

// ShopperHub builds and caches Shoppers by id.
type ShopperHub struct {
	mu       sync.Mutex
	shoppers map[string]*Shopper
	local    storage.Storage
	api      *StorefrontAPI
	logger   *slog.Logger
	onEvict  []func(shopperID string)
	now      func() time.Time
}

func NewShopperHub(local storage.Storage, api *StorefrontAPI, logger *slog.Logger) *ShopperHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShopperHub{
		shoppers: make(map[string]*Shopper),
		local:    local,
		api:      api,
		logger:   logger,
		now:      time.Now,
	}
}

// OnEvict registers fn to run for every shopper dropped by Sweep or Forget.
func (h *ShopperHub) OnEvict(fn func(shopperID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEvict = append(h.onEvict, fn)
}

func (h *ShopperHub) Get(shopperID string) *Shopper {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.shoppers[shopperID]
	if !ok {
		s = h.build(shopperID)
		h.shoppers[shopperID] = s
	}
	s.touch(h.now())
	return s
}

func (h *ShopperHub) build(shopperID string) *Shopper {
	logger := h.logger.With("shopper_id", shopperID)
	bus := events.NewBus(logger)
	local := storage.Prefixed(h.local, ShopperPrefix(shopperID))
	session := NewSession(local, storage.NewMemory(), bus, logger)
	cart := NewLocalCartStore(local, bus, logger)
	wishlist := NewWishlist(local, bus, logger)
	api := h.api.WithTokens(session)
	remote := NewRemoteCartClient(api, bus, logger)
	backends := NewBackendSelector(session, NewLocalStorageBackend(cart), NewRemoteAPIBackend(remote))
	wishlistCount := func(ctx context.Context) (int, error) { return wishlist.Count(ctx), nil }

	return &Shopper{
		ID:            shopperID,
		Bus:           bus,
		Session:       session,
		Cart:          cart,
		Wishlist:      wishlist,
		API:           api,
		Remote:        remote,
		Backends:      backends,
		CartBadge:     NewBadge(bus, events.CartChanged, backends.Count, logger),
		WishlistBadge: NewBadge(bus, events.WishlistChanged, wishlistCount, logger),
	}
}

// Forget drops shopperID immediately, ending its session storage.
func (h *ShopperHub) Forget(shopperID string) {
	h.mu.Lock()
	s, ok := h.shoppers[shopperID]
	delete(h.shoppers, shopperID)
	hooks := append([]func(string){}, h.onEvict...)
	h.mu.Unlock()

	if ok {
		s.close()
		for _, fn := range hooks {
			fn(shopperID)
		}
	}
}

// Sweep forgets shoppers idle for longer than maxIdle and reports how many.
func (h *ShopperHub) Sweep(maxIdle time.Duration) int {
	now := h.now()

	h.mu.Lock()
	var idle []string
	for id, s := range h.shoppers {
		if s.idleSince(now) > maxIdle {
			idle = append(idle, id)
		}
	}
	h.mu.Unlock()

	for _, id := range idle {
		h.Forget(id)
	}
	if len(idle) > 0 {
		h.logger.Info("ShopperHub.Sweep: dropped idle shoppers", "count", len(idle))
	}
	return len(idle)
}

func (h *ShopperHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.shoppers)
}
