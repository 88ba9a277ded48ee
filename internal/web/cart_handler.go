package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
	"github.com/fjod/storefront/internal/pricing"
)

type cartData struct {
	Lines     domain.Cart
	Quantity  int
	Breakdown pricing.Breakdown
}

func (s *Server) cartPage(w http.ResponseWriter, r *http.Request) {
	lines := s.cart.Lines()
	s.render(w, r, http.StatusOK, "cart", "Cart", cartData{
		Lines:     lines,
		Quantity:  lines.TotalQuantity(),
		Breakdown: pricing.Compute(lines.Subtotal()),
	})
}

// cartSetQty replaces the line's quantity using its own snapshot.
func (s *Server) cartSetQty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, l := range s.cart.Lines() {
		if l.ProductID != id {
			continue
		}
		qty := clampQty(r.FormValue("qty"), l.CountInStock)
		if err := s.cart.AddToCart(r.Context(), l.Product(), qty); err != nil {
			logger.FromContext(r.Context()).Error("update cart failed", zap.Error(err))
		}
		break
	}
	s.redirect(w, r, "/cart", "")
}

func (s *Server) cartRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.cart.RemoveFromCart(r.Context(), chi.URLParam(r, "id")); err != nil {
		logger.FromContext(r.Context()).Error("remove from cart failed", zap.Error(err))
	}
	s.redirect(w, r, "/cart", "")
}

// cartCheckout starts a fresh checkout, or sends signed-out shoppers to login.
func (s *Server) cartCheckout(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Current() == nil {
		s.redirect(w, r, "/login", "")
		return
	}
	s.checkout.Begin()
	s.redirect(w, r, "/checkout", "")
}
