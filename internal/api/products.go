package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/storefront/internal/domain"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment"`
}

// ProductRequest is the admin create/update body.
type ProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
	Description  string  `json:"description"`
}

// GET /api/products
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GET /api/products/:id
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// POST /api/products/:id/reviews
func (c *Client) CreateReview(ctx context.Context, token, productID string, req ReviewRequest) error {
	return c.do(ctx, http.MethodPost, "/api/products/"+url.PathEscape(productID)+"/reviews", token, req, nil)
}

// POST /api/products (admin)
func (c *Client) CreateProduct(ctx context.Context, token string, req ProductRequest) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", token, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PUT /api/products/:id (admin)
func (c *Client) UpdateProduct(ctx context.Context, token, id string, req ProductRequest) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), token, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DELETE /api/products/:id (admin)
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), token, nil, nil)
}
