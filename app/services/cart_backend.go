package services

import (
	"context"

	"github.com/Rakhulsr/go-storefront/app/models"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// CartBackend is the cart a shopper currently works against. Line ids are
// product ids for the local cart and server item ids for the remote one.
type CartBackend interface {
	Name() string
	Items(ctx context.Context) ([]models.CartLineItem, error)
	Add(ctx context.Context, product models.CartLineItem, qty int) Result
	UpdateQuantity(ctx context.Context, lineID string, qty int) Result
	Remove(ctx context.Context, lineID string) Result
	Clear(ctx context.Context) Result
	Count(ctx context.Context) (int, error)
}

type LocalStorageBackend struct {
	store *LocalCartStore
}

func NewLocalStorageBackend(store *LocalCartStore) *LocalStorageBackend {
	return &LocalStorageBackend{store: store}
}

func (b *LocalStorageBackend) Name() string { return BackendLocal }

func (b *LocalStorageBackend) Items(ctx context.Context) ([]models.CartLineItem, error) {
	return b.store.GetCart(ctx), nil
}

func (b *LocalStorageBackend) Add(ctx context.Context, product models.CartLineItem, qty int) Result {
	return ok("Item added to cart", b.store.AddItem(ctx, product, qty))
}

func (b *LocalStorageBackend) UpdateQuantity(ctx context.Context, lineID string, qty int) Result {
	return ok("Cart updated", b.store.UpdateQuantity(ctx, lineID, qty))
}

func (b *LocalStorageBackend) Remove(ctx context.Context, lineID string) Result {
	return ok("Item removed from cart", b.store.RemoveItem(ctx, lineID))
}

func (b *LocalStorageBackend) Clear(ctx context.Context) Result {
	items, err := b.store.Clear(ctx)
	if err != nil {
		res := failed(err)
		res.Message = "Could not clear your cart. Please try again."
		res.Data = items
		return res
	}
	return ok("Cart cleared", items)
}

func (b *LocalStorageBackend) Count(ctx context.Context) (int, error) {
	return b.store.Count(ctx), nil
}

type RemoteAPIBackend struct {
	client *RemoteCartClient
}

func NewRemoteAPIBackend(client *RemoteCartClient) *RemoteAPIBackend {
	return &RemoteAPIBackend{client: client}
}

func (b *RemoteAPIBackend) Name() string { return BackendRemote }

func (b *RemoteAPIBackend) Items(ctx context.Context) ([]models.CartLineItem, error) {
	cart, err := b.client.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	return cart.LineItems(), nil
}

func (b *RemoteAPIBackend) Add(ctx context.Context, product models.CartLineItem, qty int) Result {
	return b.client.AddToCart(ctx, product.ProductID, qty)
}

// UpdateQuantity removes the line when qty drops below 1, like the local cart.
func (b *RemoteAPIBackend) UpdateQuantity(ctx context.Context, lineID string, qty int) Result {
	if qty < 1 {
		return b.client.RemoveFromCart(ctx, lineID)
	}
	return b.client.UpdateCartQuantity(ctx, lineID, qty)
}

func (b *RemoteAPIBackend) Remove(ctx context.Context, lineID string) Result {
	return b.client.RemoveFromCart(ctx, lineID)
}

func (b *RemoteAPIBackend) Clear(ctx context.Context) Result {
	return b.client.ClearCart(ctx)
}

func (b *RemoteAPIBackend) Count(ctx context.Context) (int, error) {
	cart, err := b.client.GetCart(ctx)
	if err != nil {
		return 0, err
	}
	return cart.Count(), nil
}

// BackendSelector picks the remote cart once the shopper has a token and the
// local cart otherwise.
type BackendSelector struct {
	session *Session
	local   CartBackend
	remote  CartBackend
}

func NewBackendSelector(session *Session, local, remote CartBackend) *BackendSelector {
	return &BackendSelector{session: session, local: local, remote: remote}
}

func (s *BackendSelector) For(ctx context.Context) CartBackend {
	if s.session.Authenticated(ctx) {
		return s.remote
	}
	return s.local
}

// Count is the badge counter for the active cart.
func (s *BackendSelector) Count(ctx context.Context) (int, error) {
	return s.For(ctx).Count(ctx)
}
