package services

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated: no auth token in session")
	ErrStorageCorrupt     = errors.New("stored value is corrupt")
	ErrUnknownCoupon      = errors.New("unknown coupon code")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrStageIncomplete    = errors.New("checkout stage is incomplete")
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrAddressNotFound    = errors.New("address not found")
	ErrPaymentUnavailable = errors.New("payment method is not available")
	ErrCheckoutNotStarted = errors.New("checkout not started")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

const MsgLoginToAddToCart = "Please login to add items to cart"

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejectedError carries a non-2xx (or success:false) response. Message
// is what the server said, suitable for showing to the shopper.
type ServerRejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("%s: server rejected request (%d): %s", e.Op, e.StatusCode, e.Message)
}

// Result is what every cart mutation returns. Failures are carried in Err
// rather than returned separately so callers handle all outcomes uniformly.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Err     error  `json:"-"`
}

func ok(message string, data any) Result {
	if raw, isRaw := data.(json.RawMessage); isRaw && len(raw) == 0 {
		data = nil
	}
	return Result{Success: true, Message: message, Data: data}
}

func failed(err error) Result {
	return Result{Success: false, Message: UserMessage(err), Err: err}
}

// UserMessage picks the text to show for err.
func UserMessage(err error) string {
	var rejected *ServerRejectedError
	var netErr *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthenticated):
		return "Please login to continue"
	case errors.As(err, &rejected) && rejected.Message != "":
		return rejected.Message
	case errors.As(err, &netErr):
		return "Could not reach the store. Please check your connection and try again."
	default:
		return err.Error()
	}
}
