package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
)

const lowStockAlerts = 5

var periods = []string{"daily", "weekly", "monthly", "yearly"}

type adminData struct {
	Tab        string
	Period     string
	Periods    []string
	Summary    *domain.SalesSummary
	Series     []domain.SalesPoint
	LowStock   []domain.StockLevel
	Products   []domain.Product
	Orders     []domain.Order
	Users      []domain.User
	Categories []string
	Edit       *domain.Product
	Error      string
}

// loadAdmin fetches what the active tab shows and nothing else, so a failing
// endpoint only affects its own tab.
func (s *Server) loadAdmin(r *http.Request) (adminData, error) {
	token := s.token()
	data := adminData{
		Tab:        r.URL.Query().Get("tab"),
		Period:     r.URL.Query().Get("period"),
		Periods:    periods,
		Categories: catalog.Categories[1:],
	}
	if data.Period == "" {
		data.Period = "daily"
	}

	ctx := r.Context()
	var err error
	switch data.Tab {
	case "products":
		data.Products, err = s.products(ctx)
	case "orders":
		data.Orders, err = s.backend.Orders(ctx, token)
		data.Orders = newestFirst(data.Orders)
	case "users":
		data.Users, err = s.backend.Users(ctx, token)
	default:
		data.Tab = "dashboard"
		data.Summary, err = s.backend.SalesSummary(ctx, token)
		if err == nil {
			data.Series = data.Summary.Series(data.Period)
			data.LowStock = data.Summary.LowStock(lowStockAlerts)
		}
	}
	return data, err
}

func (s *Server) adminDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.loadAdmin(r)
	if err != nil {
		logger.FromContext(r.Context()).Warn("load admin dashboard failed", zap.Error(err))
		data.Error = api.Message(err, "Could not load dashboard data.")
		data.Summary = &domain.SalesSummary{}
	}
	s.render(w, r, http.StatusOK, "admin", "Admin", data)
}

func (s *Server) adminEditProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.backend.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.redirect(w, r, "/admin?tab=products", api.Message(err, "Could not load product."))
		return
	}
	s.render(w, r, http.StatusOK, "admin_product", "Edit product", adminData{
		Tab:        "products",
		Edit:       p,
		Categories: catalog.Categories[1:],
	})
}

// adminSaveProduct creates a product, or updates one when the route carries an id.
// An attached image is uploaded first and its reference replaces the image field.
func (s *Server) adminSaveProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.redirect(w, r, "/admin?tab=products", "Image is too large")
		return
	}
	req, err := productRequest(r)
	if err != nil {
		s.redirect(w, r, "/admin?tab=products", err.Error())
		return
	}
	token := s.token()

	if f, hdr, err := r.FormFile("image_file"); err == nil {
		defer f.Close()
		ref, err := s.backend.Upload(r.Context(), token, api.File{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Body:        f,
		})
		if err != nil {
			s.redirect(w, r, "/admin?tab=products", "Image upload failed")
			return
		}
		req.Image = ref
	}

	id := chi.URLParam(r, "id")
	if id != "" {
		_, err = s.backend.UpdateProduct(r.Context(), token, id, req)
	} else {
		_, err = s.backend.CreateProduct(r.Context(), token, req)
	}
	if err != nil {
		s.redirect(w, r, "/admin?tab=products", api.Message(err, "Operation failed"))
		return
	}
	s.redirect(w, r, "/admin?tab=products", "Product saved")
}

func productRequest(r *http.Request) (api.ProductRequest, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil || price < 0 {
		return api.ProductRequest{}, errors.New("Price must be a non-negative number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(r.FormValue("countInStock")))
	if err != nil || stock < 0 {
		return api.ProductRequest{}, errors.New("Stock must be a non-negative integer")
	}
	req := api.ProductRequest{
		Name:         strings.TrimSpace(r.FormValue("name")),
		Price:        price,
		Image:        strings.TrimSpace(r.FormValue("image")),
		Brand:        strings.TrimSpace(r.FormValue("brand")),
		Category:     r.FormValue("category"),
		CountInStock: stock,
		Description:  r.FormValue("description"),
	}
	if req.Name == "" {
		return api.ProductRequest{}, errors.New("Name is required")
	}
	return req, nil
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteProduct(r.Context(), s.token(), chi.URLParam(r, "id")); err != nil {
		s.redirect(w, r, "/admin?tab=products", api.Message(err, "Delete failed"))
		return
	}
	s.redirect(w, r, "/admin?tab=products", "Product deleted")
}

func (s *Server) adminDeliver(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.MarkDelivered(r.Context(), s.token(), chi.URLParam(r, "id")); err != nil {
		s.redirect(w, r, "/admin?tab=orders", api.Message(err, "Delivery update failed"))
		return
	}
	s.redirect(w, r, "/admin?tab=orders", "Order marked as delivered")
}
