// Package checkout sequences address capture, payment method selection and
// order submission. One Orchestrator lives for the whole process.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/payment"
)

const DefaultRedirectDelay = 3 * time.Second

// OrdersPath is where the shopper lands after a confirmed order.
const OrdersPath = "/orders"

type Orders interface {
	CreateOrder(ctx context.Context, token string, req api.OrderPayload) (*domain.Order, error)
	VerifyPayment(ctx context.Context, token string, req api.VerifyPaymentRequest) error
	Upload(ctx context.Context, token string, f api.File) (string, error)
}

type Sessions interface {
	Current() *domain.Session
}

type Cart interface {
	Lines() domain.Cart
	ClearCart(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string)
}

type Timer interface {
	Stop() bool
}

type Option func(*Orchestrator)

// WithAfterFunc replaces time.AfterFunc for the post-confirmation redirect.
func WithAfterFunc(f func(time.Duration, func()) Timer) Option {
	return func(o *Orchestrator) { o.afterFunc = f }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithRedirectDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// State is a snapshot for rendering.
type State struct {
	Step         Step
	Address      domain.Address
	Method       Method
	PlacingOrder bool
	Error        string
	Pending      *payment.Token // gateway payment waiting on the widget
	OrderID      string
}

type Orchestrator struct {
	orders   Orders
	sessions Sessions
	cart     Cart
	gateway  payment.Gateway
	nav      Navigator
	log      *zap.Logger

	afterFunc func(time.Duration, func()) Timer
	now       func() time.Time
	delay     time.Duration

	mu           sync.Mutex
	step         Step
	address      domain.Address
	method       Method
	placingOrder bool
	lastErr      string
	pending      *payment.Token
	orderID      string
	redirect     Timer
}

func New(orders Orders, sessions Sessions, cart Cart, gateway payment.Gateway, nav Navigator, log *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		orders:   orders,
		sessions: sessions,
		cart:     cart,
		gateway:  gateway,
		nav:      nav,
		log:      log,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		now:    time.Now,
		delay:  DefaultRedirectDelay,
		step:   StepAddress,
		method: MethodGateway,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	st := State{
		Step:         o.step,
		Address:      o.address,
		Method:       o.method,
		PlacingOrder: o.placingOrder,
		Error:        o.lastErr,
		OrderID:      o.orderID,
	}
	if o.pending != nil {
		p := *o.pending
		st.Pending = &p
	}
	return st
}

// Begin starts a fresh checkout unless an order is being placed.
func (o *Orchestrator) Begin() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.placingOrder {
		return
	}
	o.resetLocked()
}

// SubmitAddress validates the shipping address and moves on to payment.
func (o *Orchestrator) SubmitAddress(addr domain.Address) error {
	addr = domain.Address{
		Street:     strings.TrimSpace(addr.Street),
		City:       strings.TrimSpace(addr.City),
		PostalCode: strings.TrimSpace(addr.PostalCode),
		Country:    strings.TrimSpace(addr.Country),
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.placingOrder {
		return ErrOrderInFlight
	}
	if !CanAdvance(o.step, StepPayment) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.step, StepPayment)
	}
	o.address = addr
	if !addr.Complete() {
		o.lastErr = ErrAddressIncomplete.Error()
		return ErrAddressIncomplete
	}
	o.lastErr = ""
	o.step = StepPayment
	return nil
}

func (o *Orchestrator) SelectMethod(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownMethod, m)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.placingOrder {
		return ErrOrderInFlight
	}
	if o.step != StepPayment {
		return fmt.Errorf("%w: method selection outside %s", ErrIllegalTransition, StepPayment)
	}
	o.method = m
	o.lastErr = ""
	return nil
}

// Close stops a scheduled redirect.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.redirect != nil {
		o.redirect.Stop()
		o.redirect = nil
	}
}

func (o *Orchestrator) resetLocked() {
	o.step = StepAddress
	o.address = domain.Address{}
	o.method = MethodGateway
	o.placingOrder = false
	o.lastErr = ""
	o.pending = nil
	o.orderID = ""
}
