package web

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
)

type ordersData struct {
	Orders []domain.Order
	Error  string
}

// ordersPage lists the shopper's orders, newest first.
func (s *Server) ordersPage(w http.ResponseWriter, r *http.Request) {
	orders, err := s.backend.MyOrders(r.Context(), s.token())
	data := ordersData{Orders: newestFirst(orders)}
	if err != nil {
		logger.FromContext(r.Context()).Warn("load orders failed", zap.Error(err))
		data.Error = api.Message(err, "Could not load your orders.")
	}
	s.render(w, r, http.StatusOK, "orders", "My orders", data)
}

func newestFirst(orders []domain.Order) []domain.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

type wishlistData struct {
	Products []domain.Product
	Error    string
}

func (s *Server) wishlistPage(w http.ResponseWriter, r *http.Request) {
	products, err := s.backend.Wishlist(r.Context(), s.token())
	data := wishlistData{Products: products}
	if err != nil {
		data.Error = api.Message(err, "Could not load your wishlist.")
	}
	s.render(w, r, http.StatusOK, "wishlist", "Wishlist", data)
}

func (s *Server) wishlistRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.RemoveFromWishlist(r.Context(), s.token(), chi.URLParam(r, "id")); err != nil {
		s.redirect(w, r, "/wishlist", "Failed to remove item")
		return
	}
	s.redirect(w, r, "/wishlist", "Removed from wishlist")
}

// wishlistToCart adds one unit; the item stays on the wishlist.
func (s *Server) wishlistToCart(w http.ResponseWriter, r *http.Request) {
	p, err := s.backend.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.redirect(w, r, "/wishlist", api.Message(err, "Could not load product."))
		return
	}
	if err := s.cart.AddToCart(r.Context(), *p, 1); err != nil {
		logger.FromContext(r.Context()).Error("add to cart failed", zap.Error(err))
	}
	s.redirect(w, r, "/wishlist", p.Name+" added to cart!")
}
