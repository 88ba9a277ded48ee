package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/logger"
	"github.com/fjod/storefront/internal/payment"
	"github.com/fjod/storefront/internal/pricing"
)

type checkoutData struct {
	State     checkout.State
	Lines     domain.Cart
	Breakdown pricing.Breakdown
	Methods   []checkout.Method
	Merchant  string
	Name      string
	Email     string
}

func (s *Server) checkoutPage(w http.ResponseWriter, r *http.Request) {
	if next := s.takeNavigation(); next != "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	lines := s.cart.Lines()
	data := checkoutData{
		State:     s.checkout.State(),
		Lines:     lines,
		Breakdown: pricing.Compute(lines.Subtotal()),
		Methods:   []checkout.Method{checkout.MethodGateway, checkout.MethodUPI, checkout.MethodCOD},
		Merchant:  s.cfg.Merchant,
	}
	if sess := s.sessions.Current(); sess != nil {
		data.Name, data.Email = sess.Name, sess.Email
	}
	s.render(w, r, http.StatusOK, "checkout", "Checkout", data)
}

func (s *Server) checkoutAddress(w http.ResponseWriter, r *http.Request) {
	err := s.checkout.SubmitAddress(domain.Address{
		Street:     r.FormValue("street"),
		City:       r.FormValue("city"),
		PostalCode: r.FormValue("postalCode"),
		Country:    r.FormValue("country"),
	})
	if err != nil && !errors.Is(err, checkout.ErrAddressIncomplete) {
		s.redirect(w, r, "/checkout", err.Error())
		return
	}
	s.redirect(w, r, "/checkout", "")
}

func (s *Server) checkoutMethod(w http.ResponseWriter, r *http.Request) {
	if err := s.checkout.SelectMethod(checkout.Method(r.FormValue("method"))); err != nil {
		s.redirect(w, r, "/checkout", err.Error())
		return
	}
	s.redirect(w, r, "/checkout", "")
}

func (s *Server) checkoutPlace(w http.ResponseWriter, r *http.Request) {
	var proof *api.File
	if s.checkout.State().Method == checkout.MethodUPI {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			s.redirect(w, r, "/checkout", "Screenshot is too large")
			return
		}
		if f, hdr, err := r.FormFile("proof"); err == nil {
			defer f.Close()
			proof = &api.File{Name: hdr.Filename, ContentType: hdr.Header.Get("Content-Type"), Body: f}
		}
	}

	err := s.checkout.PlaceOrder(r.Context(), proof)
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrNotAuthenticated):
		s.redirect(w, r, "/login", "Please login to place an order")
		return
	case errors.Is(err, checkout.ErrOrderInFlight), errors.Is(err, checkout.ErrIllegalTransition):
		s.setFlash(err.Error())
	default:
		logger.FromContext(r.Context()).Warn("place order failed", zap.Error(err))
	}
	s.redirect(w, r, "/checkout", "")
}

// gatewayCallback receives the widget's success handler fields.
func (s *Server) gatewayCallback(w http.ResponseWriter, r *http.Request) {
	err := s.gateway.Complete(r.Context(), payment.Confirmation{
		OrderID:   r.FormValue("razorpay_order_id"),
		PaymentID: r.FormValue("razorpay_payment_id"),
		Signature: r.FormValue("razorpay_signature"),
	})
	if err != nil {
		logger.FromContext(r.Context()).Warn("gateway callback rejected", zap.Error(err))
		s.redirect(w, r, "/checkout", "This payment is no longer pending")
		return
	}
	s.redirect(w, r, "/checkout", "")
}

func (s *Server) gatewayFailure(w http.ResponseWriter, r *http.Request) {
	err := s.gateway.Fail(r.FormValue("razorpay_order_id"), payment.Failure{
		Code:        r.FormValue("code"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		logger.FromContext(r.Context()).Warn("gateway failure rejected", zap.Error(err))
	}
	s.redirect(w, r, "/checkout", "")
}
