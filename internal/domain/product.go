package domain

import "time"

type Review struct {
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID           string    `json:"_id" validate:"required"`
	Name         string    `json:"name" validate:"required"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" validate:"gte=0"`
	CountInStock int       `json:"countInStock" validate:"gte=0"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Reviews      []Review  `json:"reviews,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (p Product) InStock() bool {
	return p.CountInStock > 0
}
