package web

import "net/http"

type staticPage struct {
	Title string
	Body  []string
}

var staticPages = map[string]staticPage{
	"/support": {Title: "Support", Body: []string{
		"Need help with an order? Write to support with your order number and we will get back within one business day.",
		"Payment issues for UPI orders are resolved once the uploaded screenshot is verified.",
	}},
	"/terms": {Title: "Terms of Service", Body: []string{
		"Orders are confirmed once payment is verified or, for cash on delivery, once dispatched.",
		"Prices include 18% tax. Shipping is free above 1000 and 50 otherwise.",
	}},
	"/privacy": {Title: "Privacy Policy", Body: []string{
		"Your session and cart are stored on this device only.",
		"Payment details are handled by the payment provider and never reach this application.",
	}},
	"/shipping": {Title: "Shipping Policy", Body: []string{
		"Orders above 1000 ship free. A flat fee of 50 applies to smaller orders.",
		"Orders are usually delivered within 3 to 7 business days.",
	}},
	"/categories": {Title: "Categories", Body: []string{
		"Electronics, Mens Wear, Women Wear, Kids Wear, Furniture, Mens Accessories and Women Accessories.",
	}},
	"/offers": {Title: "Offers", Body: []string{
		"Free shipping on every order above 1000.",
	}},
}

func (s *Server) static(p staticPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, "static", p.Title, p)
	}
}
