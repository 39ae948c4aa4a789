package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName   = "storefront-session"
	shopperIDSessionKey = "shopperID"
)

// ShopperStore keeps the anonymous shopper id in a signed and encrypted
// cookie. The id is what ties a browser to its server-side carts.
type ShopperStore interface {
	ShopperID(w http.ResponseWriter, r *http.Request) (id string, created bool, err error)
}

type CookieShopperStore struct {
	store *sessions.CookieStore
}

func NewCookieShopperStore(secure bool, keyPairs ...[]byte) *CookieShopperStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieShopperStore{store: store}
}

// ShopperID returns the id carried by the request cookie, minting and saving
// a new one when there is none or the cookie cannot be decoded.
func (c *CookieShopperStore) ShopperID(w http.ResponseWriter, r *http.Request) (string, bool, error) {
	// A cookie that fails to decode still yields a usable new session.
	session, _ := c.store.Get(r, sessionCookieName)

	if id, ok := session.Values[shopperIDSessionKey].(string); ok && id != "" {
		return id, false, nil
	}

	id := uuid.NewString()
	session.Values[shopperIDSessionKey] = id
	if err := session.Save(r, w); err != nil {
		return "", false, err
	}
	return id, true, nil
}
