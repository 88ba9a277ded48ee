package web

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/logger"
)

type authData struct {
	Name     string
	Email    string
	OTPSent  bool
	Error    string
	Merchant string
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Current() != nil {
		s.redirect(w, r, "/", "")
		return
	}
	s.render(w, r, http.StatusOK, "login", "Sign in", authData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	if email == "" || r.FormValue("password") == "" {
		s.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", authData{Email: email, Error: "Email and password are required"})
		return
	}
	if !s.sessions.Login(r.Context(), email, r.FormValue("password")) {
		s.render(w, r, http.StatusUnauthorized, "login", "Sign in", authData{Email: email, Error: s.sessions.LastError()})
		return
	}
	s.redirect(w, r, "/", "")
}

func (s *Server) googleLogin(w http.ResponseWriter, r *http.Request) {
	credential := r.FormValue("credential")
	if credential == "" || !s.sessions.LoginWithSocialCredential(r.Context(), credential) {
		msg := s.sessions.LastError()
		if msg == "" {
			msg = "Google sign-in failed"
		}
		s.render(w, r, http.StatusUnauthorized, "login", "Sign in", authData{Error: msg})
		return
	}
	s.redirect(w, r, "/", "")
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", "Create account", authData{})
}

// sendOTP is the first registration step.
func (s *Server) sendOTP(w http.ResponseWriter, r *http.Request) {
	data := authData{Name: r.FormValue("name"), Email: strings.TrimSpace(r.FormValue("email"))}
	if data.Email == "" {
		data.Error = "Email is required"
		s.render(w, r, http.StatusUnprocessableEntity, "register", "Create account", data)
		return
	}
	msg, err := s.sessions.SendOTP(r.Context(), data.Email)
	if err != nil {
		logger.FromContext(r.Context()).Warn("send otp failed", zap.Error(err))
		data.Error = s.sessions.LastError()
		if data.Error == "" {
			data.Error = "Failed to send OTP"
		}
		s.render(w, r, http.StatusBadGateway, "register", "Create account", data)
		return
	}
	if msg == "" {
		msg = "OTP sent to " + data.Email
	}
	s.setFlash(msg)
	data.OTPSent = true
	s.render(w, r, http.StatusOK, "register", "Create account", data)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	data := authData{Name: r.FormValue("name"), Email: r.FormValue("email"), OTPSent: true}
	if data.Name == "" || data.Email == "" || r.FormValue("password") == "" || r.FormValue("otp") == "" {
		data.Error = "All fields are required"
		s.render(w, r, http.StatusUnprocessableEntity, "register", "Create account", data)
		return
	}
	if !s.sessions.Register(r.Context(), data.Name, data.Email, r.FormValue("password"), r.FormValue("otp")) {
		data.Error = s.sessions.LastError()
		s.render(w, r, http.StatusUnprocessableEntity, "register", "Create account", data)
		return
	}
	s.redirect(w, r, "/", "")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("logout failed", zap.Error(err))
	}
	s.redirect(w, r, "/login", "")
}

type profileData struct {
	Name  string
	Email string
	Error string
}

func (s *Server) profilePage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Current()
	s.render(w, r, http.StatusOK, "profile", "Profile", profileData{Name: sess.Name, Email: sess.Email})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	data := profileData{Name: r.FormValue("name"), Email: r.FormValue("email")}
	password := r.FormValue("password")
	if password != r.FormValue("confirm_password") {
		data.Error = "Passwords do not match"
		s.render(w, r, http.StatusUnprocessableEntity, "profile", "Profile", data)
		return
	}
	if !s.sessions.UpdateProfile(r.Context(), data.Name, data.Email, password) {
		data.Error = s.sessions.LastError()
		s.render(w, r, http.StatusUnprocessableEntity, "profile", "Profile", data)
		return
	}
	s.redirect(w, r, "/profile", "Profile Updated")
}
