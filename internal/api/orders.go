package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/fjod/storefront/internal/domain"
)

// OrderPayload is the order draft the backend expects.
type OrderPayload struct {
	OrderItems      []domain.OrderItem     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=Razorpay UPI COD"`
	PaymentProof    string                 `json:"paymentProof,omitempty"`
	ItemsPrice      float64                `json:"itemsPrice" validate:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"gte=0"`
	TaxPrice        float64                `json:"taxPrice" validate:"gte=0"`
	TotalPrice      float64                `json:"totalPrice" validate:"gt=0"`
	IsPaid          bool                   `json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt"`
}

type GatewayOrderRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// GatewayOrder is the gateway's order token; Amount is in the smallest currency unit.
type GatewayOrder struct {
	ID       string `json:"id" validate:"required"`
	Amount   int64  `json:"amount" validate:"gt=0"`
	Currency string `json:"currency" validate:"required"`
}

// VerifyPaymentRequest carries the gateway's signed identifiers plus the full order.
// The order fields are sent both at the top level and under orderDetails.
type VerifyPaymentRequest struct {
	OrderPayload
	GatewayOrderID   string       `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string       `json:"razorpay_payment_id" validate:"required"`
	Signature        string       `json:"razorpay_signature" validate:"required"`
	OrderDetails     OrderPayload `json:"orderDetails"`
}

// POST /api/orders
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderPayload) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", token, req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// POST /api/orders/razorpay
func (c *Client) CreateGatewayOrder(ctx context.Context, token string, amount float64) (*GatewayOrder, error) {
	var out GatewayOrder
	if err := c.do(ctx, http.MethodPost, "/api/orders/razorpay", token, GatewayOrderRequest{Amount: amount}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// POST /api/orders/verify
func (c *Client) VerifyPayment(ctx context.Context, token string, req VerifyPaymentRequest) error {
	return c.do(ctx, http.MethodPost, "/api/orders/verify", token, req, nil)
}

// GET /api/orders/myorders
func (c *Client) MyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/myorders", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GET /api/orders (admin)
func (c *Client) Orders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PUT /api/orders/:id/deliver (admin)
func (c *Client) MarkDelivered(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/deliver", token, struct{}{}, nil)
}

// GET /api/orders/summary (admin)
func (c *Client) SalesSummary(ctx context.Context, token string) (*domain.SalesSummary, error) {
	var out domain.SalesSummary
	if err := c.do(ctx, http.MethodGet, "/api/orders/summary", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
