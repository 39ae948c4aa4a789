package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Rakhulsr/go-storefront/app/events"
	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
)

type Stage int

const (
	StageReview Stage = iota
	StageDelivery
	StagePayment
	StageConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageReview:
		return "review"
	case StageDelivery:
		return "delivery"
	case StagePayment:
		return "payment"
	case StageConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	for stage := StageReview; stage <= StageConfirmation; stage++ {
		if stage.String() == string(text) {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown checkout stage %q", text)
}

// CheckoutAPI is the part of the storefront API checkout needs.
type CheckoutAPI interface {
	ListAddresses(ctx context.Context) ([]models.Address, error)
	PlaceOrder(ctx context.Context, draft models.OrderDraft) (*models.PlacedOrder, error)
}

// CartReader yields the server cart being checked out.
type CartReader interface {
	GetCart(ctx context.Context) (*RemoteCart, error)
}

// CheckoutState is a read-only snapshot of an Orchestrator.
type CheckoutState struct {
	Stage          Stage                  `json:"stage"`
	Items          []models.CartLineItem  `json:"items"`
	Addresses      []models.Address       `json:"addresses"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods"`
	Draft          models.OrderDraft      `json:"draft"`
	Totals         calc.CheckoutTotals    `json:"totals"`
	CanAdvance     bool                   `json:"canAdvance"`
	ButtonText     string                 `json:"buttonText"`
	Placing        bool                   `json:"placing"`
	LastError      string                 `json:"lastError,omitempty"`
	Order          *models.PlacedOrder    `json:"order,omitempty"`
}

// Orchestrator walks one shopper through Review, Delivery, Payment and
// Confirmation. Stages cannot be skipped and only Payment to Confirmation has
// a side effect.
type Orchestrator struct {
	mu        sync.Mutex
	cart      CartReader
	api       CheckoutAPI
	local     *LocalCartStore
	bus       *events.Bus
	logger    *slog.Logger
	started   bool
	stage     Stage
	items     []models.CartLineItem
	addresses []models.Address
	payments  []models.PaymentMethod
	draft     models.OrderDraft
	placing   bool
	lastErr   error
	order     *models.PlacedOrder
}

func NewOrchestrator(cart CartReader, api CheckoutAPI, local *LocalCartStore, bus *events.Bus, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{cart: cart, api: api, local: local, bus: bus, logger: logger}
}

// Start loads the cart and resets the flow to Review. An empty cart fails with
// ErrEmptyCart and the caller should send the shopper back to the products.
func (o *Orchestrator) Start(ctx context.Context) error {
	cart, err := o.cart.GetCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart for checkout: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(cart.Items) == 0 {
		o.started = false
		return ErrEmptyCart
	}

	o.started = true
	o.stage = StageReview
	o.items = cart.LineItems()
	o.addresses = nil
	o.payments = models.DefaultPaymentMethods()
	o.draft = models.OrderDraft{PaymentMethod: models.PaymentCOD}
	o.placing = false
	o.lastErr = nil
	o.order = nil
	return nil
}

func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stage
}

func (o *Orchestrator) CanAdvance() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canAdvanceLocked()
}

func (o *Orchestrator) canAdvanceLocked() bool {
	if !o.started || o.placing {
		return false
	}
	switch o.stage {
	case StageReview:
		return len(o.items) > 0
	case StageDelivery:
		return o.draft.ShippingAddressID != ""
	case StagePayment:
		_, ok := o.paymentLocked(o.draft.PaymentMethod)
		return ok
	default:
		return false
	}
}

// Next advances one stage. Leaving Review loads the shopper's addresses;
// leaving Payment places the order and stays in Payment if that fails.
func (o *Orchestrator) Next(ctx context.Context) error {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return ErrCheckoutNotStarted
	}
	if o.stage == StageConfirmation || o.placing {
		o.mu.Unlock()
		return fmt.Errorf("%w: cannot advance from %s", ErrInvalidTransition, o.stage)
	}
	if !o.canAdvanceLocked() {
		stage := o.stage
		o.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStageIncomplete, stage)
	}

	switch o.stage {
	case StageReview:
		o.mu.Unlock()
		return o.enterDelivery(ctx)
	case StageDelivery:
		o.stage = StagePayment
		o.mu.Unlock()
		return nil
	default:
		draft := o.draft
		o.placing = true
		o.lastErr = nil
		o.mu.Unlock()
		return o.placeOrder(ctx, draft)
	}
}

func (o *Orchestrator) enterDelivery(ctx context.Context) error {
	addresses, err := o.api.ListAddresses(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.lastErr = err
		return fmt.Errorf("failed to load addresses: %w", err)
	}

	o.addresses = addresses
	if _, found := o.addressLocked(o.draft.ShippingAddressID); !found {
		o.draft.ShippingAddressID = ""
		for _, addr := range addresses {
			if addr.IsDefault {
				o.draft.ShippingAddressID = addr.ID
				break
			}
		}
	}
	o.lastErr = nil
	o.stage = StageDelivery
	return nil
}

func (o *Orchestrator) placeOrder(ctx context.Context, draft models.OrderDraft) error {
	order, err := o.api.PlaceOrder(ctx, draft)

	o.mu.Lock()
	o.placing = false
	if err != nil {
		o.lastErr = err
		o.mu.Unlock()
		o.logger.Warn("Orchestrator.placeOrder: order failed", "payment_method", draft.PaymentMethod, "err", err)
		return fmt.Errorf("failed to place order: %w", err)
	}
	o.order = order
	o.stage = StageConfirmation
	o.mu.Unlock()

	o.logger.Info("Orchestrator.placeOrder: order placed", "order_id", order.OrderID)

	if o.local != nil {
		if _, err := o.local.Clear(ctx); err == nil {
			return nil
		}
		o.logger.Warn("Orchestrator.placeOrder: local cart not cleared after order", "order_id", order.OrderID)
	}
	if o.bus != nil {
		o.bus.Publish(events.CartChanged)
	}
	return nil
}

// Back returns to the previous stage. Review has nothing before it and a
// confirmed order cannot be reopened.
func (o *Orchestrator) Back() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started {
		return ErrCheckoutNotStarted
	}
	if o.stage == StageReview || o.stage == StageConfirmation || o.placing {
		return fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, o.stage)
	}
	o.stage--
	return nil
}

func (o *Orchestrator) SelectAddress(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.editableLocked(); err != nil {
		return err
	}
	if _, found := o.addressLocked(id); !found {
		return fmt.Errorf("%w: %q", ErrAddressNotFound, id)
	}
	o.draft.ShippingAddressID = id
	return nil
}

func (o *Orchestrator) SelectPaymentMethod(code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.editableLocked(); err != nil {
		return err
	}
	if _, ok := o.paymentLocked(code); !ok {
		return fmt.Errorf("%w: %q", ErrPaymentUnavailable, code)
	}
	o.draft.PaymentMethod = code
	return nil
}

// ApplyCoupon records the code on the draft. The discount itself is applied
// by the server when the order is placed.
func (o *Orchestrator) ApplyCoupon(code string) (models.Coupon, error) {
	coupon, found := models.LookupCoupon(code)
	if !found {
		return models.Coupon{}, fmt.Errorf("%w: %q", ErrUnknownCoupon, code)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.editableLocked(); err != nil {
		return models.Coupon{}, err
	}
	o.draft.CouponCode = coupon.Code
	return coupon, nil
}

func (o *Orchestrator) RemoveCoupon() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.editableLocked(); err != nil {
		return err
	}
	o.draft.CouponCode = ""
	return nil
}

func (o *Orchestrator) Totals() calc.CheckoutTotals {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalsLocked()
}

func (o *Orchestrator) totalsLocked() calc.CheckoutTotals {
	return calc.CalculateCheckoutTotals(calc.Subtotal(o.items))
}

func (o *Orchestrator) ButtonText() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buttonTextLocked()
}

func (o *Orchestrator) buttonTextLocked() string {
	if o.placing {
		return "Placing Order..."
	}
	switch o.stage {
	case StageReview:
		return "Continue to Delivery"
	case StageDelivery:
		return "Continue to Payment"
	case StagePayment:
		total := format.Rupee(o.totalsLocked().Total)
		if o.draft.PaymentMethod == models.PaymentCOD {
			return "Place Order · Pay " + total + " on Delivery"
		}
		return "Pay " + total
	default:
		return "Continue Shopping"
	}
}

func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

func (o *Orchestrator) Order() *models.PlacedOrder {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.order
}

func (o *Orchestrator) Snapshot() CheckoutState {
	o.mu.Lock()
	defer o.mu.Unlock()

	state := CheckoutState{
		Stage:          o.stage,
		Items:          append([]models.CartLineItem{}, o.items...),
		Addresses:      append([]models.Address{}, o.addresses...),
		PaymentMethods: append([]models.PaymentMethod{}, o.payments...),
		Draft:          o.draft,
		Totals:         o.totalsLocked(),
		CanAdvance:     o.canAdvanceLocked(),
		ButtonText:     o.buttonTextLocked(),
		Placing:        o.placing,
		Order:          o.order,
	}
	if o.lastErr != nil {
		state.LastError = UserMessage(o.lastErr)
	}
	return state
}

func (o *Orchestrator) editableLocked() error {
	if !o.started {
		return ErrCheckoutNotStarted
	}
	if o.stage == StageConfirmation || o.placing {
		return fmt.Errorf("%w: order already submitted", ErrInvalidTransition)
	}
	return nil
}

func (o *Orchestrator) addressLocked(id string) (models.Address, bool) {
	if id == "" {
		return models.Address{}, false
	}
	for _, addr := range o.addresses {
		if addr.ID == id {
			return addr, true
		}
	}
	return models.Address{}, false
}

func (o *Orchestrator) paymentLocked(code string) (models.PaymentMethod, bool) {
	for _, method := range o.payments {
		if method.Code == code && method.Available {
			return method, true
		}
	}
	return models.PaymentMethod{}, false
}

// CheckoutRegistry holds the in-progress checkout of each shopper session.
type CheckoutRegistry struct {
	mu    sync.Mutex
	flows map[string]*Orchestrator
}

func NewCheckoutRegistry() *CheckoutRegistry {
	return &CheckoutRegistry{flows: make(map[string]*Orchestrator)}
}

// Begin replaces any previous checkout of sessionID with a fresh one.
func (r *CheckoutRegistry) Begin(sessionID string, o *Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[sessionID] = o
}

func (r *CheckoutRegistry) Get(sessionID string) (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.flows[sessionID]
	return o, ok
}

func (r *CheckoutRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, sessionID)
}

func (r *CheckoutRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}
