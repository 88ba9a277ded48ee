// Package web serves the storefront pages on a loopback address. It reads the
// session and cart stores directly and talks to the backend through the API
// client; it keeps no state of its own beyond a one-shot flash message.
package web

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
	"github.com/fjod/storefront/internal/payment"
	"github.com/fjod/storefront/internal/session"
)

// Backend is the subset of the API client the pages use.
type Backend interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	CreateReview(ctx context.Context, token, productID string, req api.ReviewRequest) error
	CreateProduct(ctx context.Context, token string, req api.ProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, token, id string, req api.ProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	Upload(ctx context.Context, token string, f api.File) (string, error)

	Wishlist(ctx context.Context, token string) ([]domain.Product, error)
	AddToWishlist(ctx context.Context, token, productID string) error
	RemoveFromWishlist(ctx context.Context, token, productID string) error
	Users(ctx context.Context, token string) ([]domain.User, error)

	MyOrders(ctx context.Context, token string) ([]domain.Order, error)
	Orders(ctx context.Context, token string) ([]domain.Order, error)
	MarkDelivered(ctx context.Context, token, id string) error
	SalesSummary(ctx context.Context, token string) (*domain.SalesSummary, error)
}

type Config struct {
	RequestTimeout time.Duration
	MaxUploadSize  int64
	Merchant       string

	// AllowedHosts extends the loopback names accepted in the Host header.
	AllowedHosts []string
}

type Server struct {
	cfg      Config
	backend  Backend
	sessions *session.Store
	cart     *cart.Store
	checkout *checkout.Orchestrator
	gateway  *payment.Hosted
	pages    *pages
	log      *zap.Logger
	loads    singleflight.Group // concurrent page loads share one catalog fetch

	allowedHosts []string
	crossOrigin  *http.CrossOriginProtection

	mu       sync.Mutex
	flash    string
	navigate string
}

// NewServer builds the server. The checkout orchestrator is created by the
// caller with the server as its navigator, so it is attached afterwards.
func NewServer(cfg Config, backend Backend, sessions *session.Store, c *cart.Store, gateway *payment.Hosted, log *zap.Logger) (*Server, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxUploadSize == 0 {
		cfg.MaxUploadSize = 5 << 20
	}
	hosts := slices.Clone(loopbackHosts)
	for _, h := range cfg.AllowedHosts {
		if h = strings.ToLower(strings.Trim(h, "[]")); h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	cop := http.NewCrossOriginProtection()
	cop.SetDenyHandler(http.HandlerFunc(crossOriginDenied))
	return &Server{
		cfg:          cfg,
		backend:      backend,
		sessions:     sessions,
		cart:         c,
		gateway:      gateway,
		pages:        p,
		log:          log,
		allowedHosts: hosts,
		crossOrigin:  cop,
	}, nil
}

// products fetches the catalog. The result is shared between callers and must not be mutated.
// The shared fetch outlives a cancelled caller; the API client timeout bounds it.
func (s *Server) products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.loads.Do("products", func() (any, error) {
		return s.backend.Products(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *Server) AttachCheckout(o *checkout.Orchestrator) {
	s.checkout = o
}

// Navigate records where the next checkout page view should go.
func (s *Server) Navigate(path string) {
	s.mu.Lock()
	s.navigate = path
	s.mu.Unlock()
	s.log.Info("navigation requested", zap.String("path", path))
}

func (s *Server) takeNavigation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.navigate
	s.navigate = ""
	return p
}

func (s *Server) setFlash(msg string) {
	s.mu.Lock()
	s.flash = msg
	s.mu.Unlock()
}

func (s *Server) takeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flash
	s.flash = ""
	return f
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.log))
	r.Use(middleware.Recoverer)
	r.Use(s.AllowHosts)
	// the session is process-wide, so other sites must not post on its behalf
	r.Use(s.crossOrigin.Handler)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.home)
	r.Route("/shop", func(r chi.Router) {
		r.Get("/", s.shop)
		r.Post("/add/{id}", s.quickAdd)
		r.Post("/wishlist/{id}", s.toggleWishlist)
	})
	r.Route("/product/{id}", func(r chi.Router) {
		r.Get("/", s.product)
		r.Post("/cart", s.productAddToCart)
		r.Post("/wishlist", s.toggleWishlist)
		r.With(s.RequireAuth).Post("/reviews", s.createReview)
	})
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.cartPage)
		r.Post("/{id}/qty", s.cartSetQty)
		r.Post("/{id}/remove", s.cartRemove)
		r.Post("/checkout", s.cartCheckout)
	})

	r.Get("/login", s.loginPage)
	r.Post("/login", s.login)
	r.Post("/login/google", s.googleLogin)
	r.Get("/register", s.registerPage)
	r.Post("/register/otp", s.sendOTP)
	r.Post("/register", s.register)
	r.Post("/logout", s.logout)

	r.Route("/checkout", func(r chi.Router) {
		r.Get("/", s.checkoutPage)
		r.Post("/address", s.checkoutAddress)
		r.Post("/method", s.checkoutMethod)
		r.Post("/place", s.checkoutPlace)
		r.Post("/gateway/callback", s.gatewayCallback)
		r.Post("/gateway/failure", s.gatewayFailure)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/profile", s.profilePage)
		r.Post("/profile", s.updateProfile)
		r.Get("/orders", s.ordersPage)
		r.Get("/wishlist", s.wishlistPage)
		r.Post("/wishlist/{id}/remove", s.wishlistRemove)
		r.Post("/wishlist/{id}/cart", s.wishlistToCart)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.RequireAdmin)
		r.Get("/", s.adminDashboard)
		r.Post("/products", s.adminSaveProduct)
		r.Get("/products/{id}/edit", s.adminEditProduct)
		r.Post("/products/{id}", s.adminSaveProduct)
		r.Post("/products/{id}/delete", s.adminDeleteProduct)
		r.Post("/orders/{id}/deliver", s.adminDeliver)
	})

	for path, page := range staticPages {
		r.Get(path, s.static(page))
	}

	return otelhttp.NewHandler(r, "storefront")
}
