package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
)

// MockOrders implements OrderCreator for testing
type MockOrders struct {
	Order  *api.GatewayOrder
	Err    error
	Amount float64
	Bearer string
}

func (m *MockOrders) CreateGatewayOrder(_ context.Context, token string, amount float64) (*api.GatewayOrder, error) {
	m.Bearer = token
	m.Amount = amount
	return m.Order, m.Err
}

func TestCreatePayment(t *testing.T) {
	orders := &MockOrders{Order: &api.GatewayOrder{ID: "order_1", Amount: 34500, Currency: "INR"}}
	h := NewHosted(orders, "rzp_test", "NexaMart", zap.NewNop())

	tok, err := h.CreatePayment(context.Background(), "tok", decimal.NewFromInt(345))

	require.NoError(t, err)
	assert.Equal(t, 345.0, orders.Amount)
	assert.Equal(t, "tok", orders.Bearer)
	assert.Equal(t, Token{OrderID: "order_1", Amount: 34500, Currency: "INR", KeyID: "rzp_test", Merchant: "NexaMart"}, tok)
}

func TestCreatePayment_Error(t *testing.T) {
	h := NewHosted(&MockOrders{Err: errors.New("boom")}, "", "", zap.NewNop())

	_, err := h.CreatePayment(context.Background(), "tok", decimal.NewFromInt(10))

	assert.ErrorContains(t, err, "create gateway order")
}

func TestComplete_ResolvesOnce(t *testing.T) {
	h := NewHosted(&MockOrders{}, "", "", zap.NewNop())
	var got []Confirmation
	require.NoError(t, h.Open(Token{OrderID: "order_1"},
		func(_ context.Context, c Confirmation) { got = append(got, c) },
		func(Failure) { t.Fatal("unexpected failure") }))

	_, ok := h.Pending("order_1")
	assert.True(t, ok)

	c := Confirmation{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}
	require.NoError(t, h.Complete(context.Background(), c))
	err := h.Complete(context.Background(), c)

	assert.ErrorIs(t, err, ErrUnknownPayment)
	assert.Equal(t, []Confirmation{c}, got)
	_, ok = h.Pending("order_1")
	assert.False(t, ok)
}

func TestFail(t *testing.T) {
	h := NewHosted(&MockOrders{}, "", "", zap.NewNop())
	var got Failure
	require.NoError(t, h.Open(Token{OrderID: "order_1"},
		func(context.Context, Confirmation) { t.Fatal("unexpected success") },
		func(f Failure) { got = f }))

	require.NoError(t, h.Fail("order_1", Failure{Code: "BAD_REQUEST_ERROR", Description: "Card declined"}))

	assert.Equal(t, "Card declined", got.Error())
	assert.ErrorIs(t, h.Fail("order_1", Failure{}), ErrUnknownPayment)
}

func TestOpen_RequiresOrderID(t *testing.T) {
	h := NewHosted(&MockOrders{}, "", "", zap.NewNop())
	assert.Error(t, h.Open(Token{}, nil, nil))
}

func TestFailure_DefaultMessage(t *testing.T) {
	assert.Equal(t, "payment failed", Failure{}.Error())
}
