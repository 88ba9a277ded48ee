package web

import (
	"net"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/logger"
)

var loopbackHosts = []string{"localhost", "127.0.0.1", "::1"}

// AllowHosts rejects requests addressed to any host name but the ones the
// server listens as. A page on another domain that rebinds its DNS to the
// loopback address still sends its own name in Host.
func (s *Server) AllowHosts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = strings.ToLower(strings.Trim(host, "[]"))
		if !slices.Contains(s.allowedHosts, host) {
			logger.FromContext(r.Context()).Warn("request for foreign host rejected", zap.String("host", r.Host))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// crossOriginDenied answers state-changing requests sent by another site.
func crossOriginDenied(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Warn("cross-origin request rejected",
		zap.String("origin", r.Header.Get("Origin")),
		zap.String("sec_fetch_site", r.Header.Get("Sec-Fetch-Site")))
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// RequireAuth sends signed-out visitors to /login before any handler runs.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions.Current() == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets only admin sessions through.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := s.sessions.Current(); sess == nil || !sess.IsAdmin {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
