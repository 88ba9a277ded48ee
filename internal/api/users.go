package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fjod/storefront/internal/domain"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	EmailOTP string `json:"emailOTP" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SendOTPResponse may echo the code back; Code is empty when the backend keeps it private.
type SendOTPResponse struct {
	Message string `json:"message"`
	Code    string `json:"emailOTP"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty"`
}

// ProfileResponse is the identity returned by a profile update; the token may be omitted.
type ProfileResponse struct {
	ID      string `json:"_id" validate:"required"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"required"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

type WishlistAddRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// POST /api/users/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.Session, error) {
	var s domain.Session
	if err := c.do(ctx, http.MethodPost, "/api/users/login", "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// POST /api/users
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.Session, error) {
	var s domain.Session
	if err := c.do(ctx, http.MethodPost, "/api/users", "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// POST /api/users/google
func (c *Client) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*domain.Session, error) {
	var s domain.Session
	if err := c.do(ctx, http.MethodPost, "/api/users/google", "", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// POST /api/users/send-otp
func (c *Client) SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResponse, error) {
	var out SendOTPResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/send-otp", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PUT /api/users/profile
func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GET /api/users/wishlist
func (c *Client) Wishlist(ctx context.Context, token string) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/users/wishlist", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// POST /api/users/wishlist
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) error {
	return c.do(ctx, http.MethodPost, "/api/users/wishlist", token, WishlistAddRequest{ProductID: productID}, nil)
}

// DELETE /api/users/wishlist/:id
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/wishlist/"+url.PathEscape(productID), token, nil, nil)
}

// GET /api/users (admin)
func (c *Client) Users(ctx context.Context, token string) ([]domain.User, error) {
	var out []domain.User
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
