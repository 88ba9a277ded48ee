// Package payment models the hosted payment widget as an injected capability.
// The checkout flow only sees the Gateway interface.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
)

var ErrUnknownPayment = errors.New("no pending payment for gateway order")

// Token identifies one gateway order the widget is opened for.
type Token struct {
	OrderID  string
	Amount   int64 // smallest currency unit
	Currency string
	KeyID    string
	Merchant string
}

// Confirmation is the gateway's signed success answer.
type Confirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// Failure is the gateway's own failure report, shown to the shopper as is.
type Failure struct {
	Code        string
	Description string
}

func (f Failure) Error() string {
	if f.Description != "" {
		return f.Description
	}
	return "payment failed"
}

type Gateway interface {
	CreatePayment(ctx context.Context, bearer string, amount decimal.Decimal) (Token, error)
	Open(token Token, onSuccess func(context.Context, Confirmation), onFailure func(Failure)) error
}

// OrderCreator is the API call that mints gateway orders.
type OrderCreator interface {
	CreateGatewayOrder(ctx context.Context, token string, amount float64) (*api.GatewayOrder, error)
}

type pending struct {
	token     Token
	onSuccess func(context.Context, Confirmation)
	onFailure func(Failure)
}

// Hosted drives the browser-side widget. Open only registers the callbacks;
// the widget page reports back through Complete or Fail.
type Hosted struct {
	orders   OrderCreator
	keyID    string
	merchant string
	log      *zap.Logger

	mu      sync.Mutex
	pending map[string]pending
}

func NewHosted(orders OrderCreator, keyID, merchant string, log *zap.Logger) *Hosted {
	return &Hosted{
		orders:   orders,
		keyID:    keyID,
		merchant: merchant,
		log:      log,
		pending:  make(map[string]pending),
	}
}

func (h *Hosted) CreatePayment(ctx context.Context, bearer string, amount decimal.Decimal) (Token, error) {
	order, err := h.orders.CreateGatewayOrder(ctx, bearer, amount.InexactFloat64())
	if err != nil {
		return Token{}, fmt.Errorf("create gateway order: %w", err)
	}
	return Token{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    h.keyID,
		Merchant: h.merchant,
	}, nil
}

// Open registers the callbacks for token. Opening the same order twice replaces the callbacks.
func (h *Hosted) Open(token Token, onSuccess func(context.Context, Confirmation), onFailure func(Failure)) error {
	if token.OrderID == "" {
		return errors.New("open payment: empty gateway order id")
	}
	h.mu.Lock()
	h.pending[token.OrderID] = pending{token: token, onSuccess: onSuccess, onFailure: onFailure}
	h.mu.Unlock()
	h.log.Info("payment widget opened", zap.String("gateway_order_id", token.OrderID), zap.Int64("amount", token.Amount))
	return nil
}

// Pending returns the token of an opened, unresolved payment.
func (h *Hosted) Pending(orderID string) (Token, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pending[orderID]
	return p.token, ok
}

// Complete resolves a payment with the widget's success answer. Each payment resolves at most once.
func (h *Hosted) Complete(ctx context.Context, c Confirmation) error {
	p, ok := h.take(c.OrderID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPayment, c.OrderID)
	}
	p.onSuccess(ctx, c)
	return nil
}

// Fail resolves a payment with the widget's failure report.
func (h *Hosted) Fail(orderID string, f Failure) error {
	p, ok := h.take(orderID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownPayment, orderID)
	}
	h.log.Warn("payment failed", zap.String("gateway_order_id", orderID), zap.String("code", f.Code))
	p.onFailure(f)
	return nil
}

func (h *Hosted) take(orderID string) (pending, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pending[orderID]
	if ok {
		delete(h.pending, orderID)
	}
	return p, ok
}
