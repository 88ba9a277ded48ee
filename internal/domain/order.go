package domain

import "time"

// DefaultCountry is used when the shopper leaves the country blank.
const DefaultCountry = "India"

// Address is only held for the duration of a checkout.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.PostalCode != ""
}

type OrderItem struct {
	Name      string  `json:"name" validate:"required"`
	Qty       int     `json:"qty" validate:"gte=1"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" validate:"gte=0"`
	ProductID string  `json:"product" validate:"required"`
}

type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

type OrderUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Order struct {
	ID              string          `json:"_id" validate:"required"`
	User            *OrderUser      `json:"user,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems" validate:"-"`
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"-"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentProof    string          `json:"paymentProof,omitempty"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	IsDelivered     bool            `json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Customer returns the display name of the ordering user.
func (o Order) Customer() string {
	if o.User == nil || o.User.Name == "" {
		return "Guest"
	}
	return o.User.Name
}

type User struct {
	ID      string `json:"_id" validate:"required"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
