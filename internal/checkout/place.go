package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/payment"
	"github.com/fjod/storefront/internal/pricing"
)

// PlaceOrder submits the order through the selected payment method. proof is
// only read for UPI orders. For gateway orders it returns once the widget is
// open; the outcome arrives through the gateway callbacks.
func (o *Orchestrator) PlaceOrder(ctx context.Context, proof *api.File) error {
	sess, method, addr, lines, err := o.startPlacing(proof)
	if err != nil {
		return err
	}

	breakdown := pricing.Compute(lines.Subtotal())
	payload := buildPayload(lines, addr, method, breakdown)
	log := o.log.With(zap.String("method", string(method)), zap.String("total", breakdown.Total.StringFixed(2)))

	switch method {
	case MethodGateway:
		return o.placeWithGateway(ctx, sess.Token, payload, breakdown.Total, log)
	case MethodUPI:
		ref, err := o.orders.Upload(ctx, sess.Token, *proof)
		if err != nil {
			log.Warn("payment proof upload failed", zap.Error(err))
			return o.fail(fmt.Errorf("%w: %w", ErrProofUploadFailed, err), ErrProofUploadFailed.Error())
		}
		paidAt := o.now()
		payload.PaymentProof = ref
		payload.IsPaid = true
		payload.PaidAt = &paidAt
	}

	order, err := o.orders.CreateOrder(ctx, sess.Token, payload)
	if err != nil {
		log.Warn("create order failed", zap.Error(err))
		return o.fail(err, api.Message(err, "Order failed to place. Please check your connection."))
	}
	log.Info("order placed", zap.String("order_id", order.ID))
	o.confirm(order.ID)
	return nil
}

// startPlacing runs every precondition and raises the in-flight guard.
func (o *Orchestrator) startPlacing(proof *api.File) (*domain.Session, Method, domain.Address, domain.Cart, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.placingOrder {
		return nil, "", domain.Address{}, nil, ErrOrderInFlight
	}
	if o.step != StepPayment {
		return nil, "", domain.Address{}, nil, fmt.Errorf("%w: place order in %s", ErrIllegalTransition, o.step)
	}
	if !o.address.Complete() {
		o.step = StepAddress
		o.lastErr = "Shipping address is missing. Please fill it in."
		return nil, "", domain.Address{}, nil, ErrAddressIncomplete
	}
	sess := o.sessions.Current()
	if !sess.Valid() {
		return nil, "", domain.Address{}, nil, ErrNotAuthenticated
	}
	lines := o.cart.Lines()
	if lines.IsEmpty() {
		o.lastErr = ErrEmptyCart.Error()
		return nil, "", domain.Address{}, nil, ErrEmptyCart
	}
	if o.method == MethodUPI && (proof == nil || proof.Body == nil) {
		o.lastErr = ErrProofRequired.Error()
		return nil, "", domain.Address{}, nil, ErrProofRequired
	}

	o.placingOrder = true
	o.lastErr = ""
	return sess, o.method, o.address, lines, nil
}

func (o *Orchestrator) placeWithGateway(ctx context.Context, bearer string, payload api.OrderPayload, total decimal.Decimal, log *zap.Logger) error {
	token, err := o.gateway.CreatePayment(ctx, bearer, total)
	if err != nil {
		log.Warn("create gateway payment failed", zap.Error(err))
		return o.fail(err, api.Message(err, "Order failed to place. Please check your connection."))
	}

	onSuccess := func(ctx context.Context, c payment.Confirmation) {
		err := o.orders.VerifyPayment(ctx, bearer, api.VerifyPaymentRequest{
			OrderPayload:     payload,
			GatewayOrderID:   c.OrderID,
			GatewayPaymentID: c.PaymentID,
			Signature:        c.Signature,
			OrderDetails:     payload,
		})
		if err != nil {
			log.Warn("payment verification failed", zap.String("gateway_order_id", c.OrderID), zap.Error(err))
			_ = o.fail(err, "Payment verification failed")
			return
		}
		log.Info("gateway payment verified", zap.String("gateway_order_id", c.OrderID))
		o.confirm("")
	}
	onFailure := func(f payment.Failure) {
		_ = o.fail(f, f.Error())
	}

	o.mu.Lock()
	o.pending = &token
	o.mu.Unlock()

	if err := o.gateway.Open(token, onSuccess, onFailure); err != nil {
		return o.fail(err, "Could not open the payment window")
	}
	return nil
}

// fail clears the in-flight guard and keeps the flow on the payment step.
func (o *Orchestrator) fail(err error, msg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.placingOrder = false
	o.pending = nil
	o.lastErr = msg
	var f payment.Failure
	if errors.As(err, &f) {
		return f
	}
	return fmt.Errorf("place order: %w", err)
}

// confirm shows the confirmation and schedules the cart clear and redirect.
// The in-flight guard stays raised until then.
func (o *Orchestrator) confirm(orderID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !CanAdvance(o.step, StepConfirmation) {
		o.log.Error("confirmation outside payment step", zap.Stringer("step", o.step))
		return
	}
	o.step = StepConfirmation
	o.pending = nil
	o.orderID = orderID
	o.redirect = o.afterFunc(o.delay, o.finish)
}

func (o *Orchestrator) finish() {
	if err := o.cart.ClearCart(context.Background()); err != nil {
		o.log.Error("failed to clear cart after order", zap.Error(err))
	}
	o.mu.Lock()
	o.resetLocked()
	o.redirect = nil
	o.mu.Unlock()
	o.nav.Navigate(OrdersPath)
}

func buildPayload(lines domain.Cart, addr domain.Address, method Method, b pricing.Breakdown) api.OrderPayload {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.OrderItem{
			Name:      l.Name,
			Qty:       l.Qty,
			Image:     l.Image,
			Price:     l.Price,
			ProductID: l.ProductID,
		})
	}
	country := addr.Country
	if country == "" {
		country = domain.DefaultCountry
	}
	return api.OrderPayload{
		OrderItems: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    addr.Street,
			City:       addr.City,
			PostalCode: addr.PostalCode,
			Country:    country,
		},
		PaymentMethod: string(method),
		ItemsPrice:    money(b.Subtotal),
		ShippingPrice: money(b.Shipping),
		TaxPrice:      money(b.Tax),
		TotalPrice:    money(b.Total),
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
