package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
)

const featuredCount = 8

func (s *Server) token() string {
	if sess := s.sessions.Current(); sess != nil {
		return sess.Token
	}
	return ""
}

type homeData struct {
	Featured   []domain.Product
	Categories []string
	Error      string
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	products, err := s.products(r.Context())
	data := homeData{Categories: catalog.Categories[1:]}
	if err != nil {
		logger.FromContext(r.Context()).Warn("load products failed", zap.Error(err))
		data.Error = api.Message(err, "Could not load products.")
	}
	data.Featured = catalog.Featured(products, featuredCount)
	s.render(w, r, http.StatusOK, "home", "Home", data)
}

type shopData struct {
	Products   []domain.Product
	Query      catalog.Query
	Categories []string
	Wishlist   map[string]bool
	Error      string
}

// loadWithWishlist fetches the catalog and, when signed in, the wishlist ids in parallel.
func (s *Server) loadWithWishlist(ctx context.Context) ([]domain.Product, map[string]bool, error) {
	var (
		products []domain.Product
		wished   = map[string]bool{}
		token    = s.token()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products(gctx)
		return err
	})
	if token != "" {
		g.Go(func() error {
			list, err := s.backend.Wishlist(gctx, token)
			if err != nil {
				logger.FromContext(ctx).Warn("load wishlist failed", zap.Error(err))
				return nil
			}
			for _, p := range list {
				wished[p.ID] = true
			}
			return nil
		})
	}
	err := g.Wait()
	return products, wished, err
}

func (s *Server) shop(w http.ResponseWriter, r *http.Request) {
	q := catalog.ParseQuery(r.URL.Query())
	products, wished, err := s.loadWithWishlist(r.Context())
	data := shopData{Query: q, Categories: catalog.Categories, Wishlist: wished}
	if err != nil {
		logger.FromContext(r.Context()).Warn("load shop failed", zap.Error(err))
		data.Error = api.Message(err, "Could not load products.")
	}
	data.Products = catalog.Apply(products, q)
	s.render(w, r, http.StatusOK, "shop", "Shop", data)
}

// quickAdd puts one unit in the cart from the shop grid.
func (s *Server) quickAdd(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Current() == nil {
		s.redirect(w, r, "/login", "")
		return
	}
	p, err := s.backend.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.redirect(w, r, "/shop", api.Message(err, "Could not load product."))
		return
	}
	if err := s.cart.AddToCart(r.Context(), *p, 1); err != nil {
		logger.FromContext(r.Context()).Error("add to cart failed", zap.Error(err))
	}
	s.redirect(w, r, back(r, "/shop"), p.Name+" added to cart!")
}

func (s *Server) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	token := s.token()
	if token == "" {
		s.redirect(w, r, "/login", "")
		return
	}
	id := chi.URLParam(r, "id")
	var err error
	msg := "Added to wishlist"
	if r.FormValue("wished") == "true" {
		msg = "Removed from wishlist"
		err = s.backend.RemoveFromWishlist(r.Context(), token, id)
	} else {
		err = s.backend.AddToWishlist(r.Context(), token, id)
	}
	if err != nil {
		msg = api.Message(err, "Failed to update wishlist")
	}
	s.redirect(w, r, back(r, "/product/"+id), msg)
}

type productData struct {
	Product *domain.Product
	Wished  bool
	MaxQty  int
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.backend.Product(r.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			s.renderError(w, r, http.StatusNotFound, api.Message(err, "Product not found"))
			return
		}
		s.renderError(w, r, http.StatusBadGateway, api.Message(err, "Could not load product."))
		return
	}
	data := productData{Product: p, MaxQty: p.CountInStock}
	if token := s.token(); token != "" {
		if list, err := s.backend.Wishlist(r.Context(), token); err == nil {
			for _, wp := range list {
				if wp.ID == p.ID {
					data.Wished = true
				}
			}
		}
	}
	s.render(w, r, http.StatusOK, "product", p.Name, data)
}

// productAddToCart adds the chosen quantity, clamped to what is in stock.
func (s *Server) productAddToCart(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Current() == nil {
		s.redirect(w, r, "/login", "")
		return
	}
	id := chi.URLParam(r, "id")
	p, err := s.backend.Product(r.Context(), id)
	if err != nil {
		s.redirect(w, r, "/product/"+id, api.Message(err, "Could not load product."))
		return
	}
	if !p.InStock() {
		s.redirect(w, r, "/product/"+id, "Out of stock")
		return
	}
	qty := clampQty(r.FormValue("qty"), p.CountInStock)
	if err := s.cart.AddToCart(r.Context(), *p, qty); err != nil {
		logger.FromContext(r.Context()).Error("add to cart failed", zap.Error(err))
	}
	s.redirect(w, r, "/cart", p.Name+" added to cart!")
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rating, _ := strconv.Atoi(r.FormValue("rating"))
	if rating < 1 || rating > 5 {
		s.redirect(w, r, "/product/"+id, "Please select a rating")
		return
	}
	err := s.backend.CreateReview(r.Context(), s.token(), id, api.ReviewRequest{
		Rating:  rating,
		Comment: r.FormValue("comment"),
	})
	if err != nil {
		s.redirect(w, r, "/product/"+id, api.Message(err, "Failed to submit review."))
		return
	}
	s.redirect(w, r, "/product/"+id, "Review Submitted Successfully!")
}

func clampQty(raw string, max int) int {
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		qty = 1
	}
	if max > 0 && qty > max {
		qty = max
	}
	return qty
}

// back returns the form's "back" field when it is a local path.
// Browsers read a backslash as a slash, so "/\host" counts as foreign.
func back(r *http.Request, fallback string) string {
	b := r.FormValue("back")
	if !strings.HasPrefix(b, "/") || strings.HasPrefix(b, "//") || strings.ContainsRune(b, '\\') {
		return fallback
	}
	u, err := url.Parse(b)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return b
}
