package domain

import "github.com/shopspring/decimal"

// CartLine is a snapshot of a product taken when it was put in the cart.
type CartLine struct {
	ProductID    string  `json:"_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	CountInStock int     `json:"countInStock"`
	Qty          int     `json:"qty"`
}

func NewCartLine(p Product, qty int) CartLine {
	return CartLine{
		ProductID:    p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Image:        p.Image,
		Category:     p.Category,
		Brand:        p.Brand,
		CountInStock: p.CountInStock,
		Qty:          qty,
	}
}

// Product rebuilds the product view of a line, used when the line itself is re-added.
func (l CartLine) Product() Product {
	return Product{
		ID:           l.ProductID,
		Name:         l.Name,
		Price:        l.Price,
		Image:        l.Image,
		Category:     l.Category,
		Brand:        l.Brand,
		CountInStock: l.CountInStock,
	}
}

func (l CartLine) Total() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Qty)))
}

type Cart []CartLine

func (c Cart) TotalQuantity() int {
	n := 0
	for _, l := range c {
		n += l.Qty
	}
	return n
}

func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c {
		sum = sum.Add(l.Total())
	}
	return sum
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
