// Package session holds the signed-in identity for the lifetime of the process
// and mirrors it to the durable "userInfo" record.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/storage"
)

var ErrInvalidOTP = errors.New("invalid OTP")

// Authenticator is the part of the API client the store needs.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (*domain.Session, error)
	Register(ctx context.Context, req api.RegisterRequest) (*domain.Session, error)
	GoogleLogin(ctx context.Context, req api.GoogleLoginRequest) (*domain.Session, error)
	SendOTP(ctx context.Context, req api.SendOTPRequest) (*api.SendOTPResponse, error)
	UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.ProfileResponse, error)
}

type Store struct {
	mu      sync.RWMutex
	kv      storage.KV
	auth    Authenticator
	log     *zap.Logger
	current *domain.Session
	loading bool
	lastErr string
	otps    map[string]string // email -> code echoed by the backend
}

// Open restores the persisted session, if any. A malformed or token-less
// record is discarded.
func Open(ctx context.Context, kv storage.KV, auth Authenticator, log *zap.Logger) (*Store, error) {
	s := &Store{kv: kv, auth: auth, log: log, otps: make(map[string]string)}

	var stored domain.Session
	err := storage.GetJSON(ctx, kv, storage.KeySession, &stored)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		if !errors.Is(err, storage.ErrCorrupt) {
			return nil, fmt.Errorf("load session: %w", err)
		}
		log.Warn("discarding unreadable session record", zap.Error(err))
		if err := kv.Delete(ctx, storage.KeySession); err != nil {
			return nil, fmt.Errorf("discard session: %w", err)
		}
	case !stored.Valid():
		log.Warn("discarding session record without token")
		if err := kv.Delete(ctx, storage.KeySession); err != nil {
			return nil, fmt.Errorf("discard session: %w", err)
		}
	default:
		s.current = &stored
	}
	return s, nil
}

// Current returns a copy of the signed-in session, or nil.
func (s *Store) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Login(ctx context.Context, email, password string) bool {
	return s.authenticate(ctx, func() (*domain.Session, error) {
		return s.auth.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	})
}

// Register creates an account. When the backend echoed an OTP for this
// email, a mismatching code is rejected without calling the API.
func (s *Store) Register(ctx context.Context, name, email, password, otp string) bool {
	email = strings.TrimSpace(email)
	key := strings.ToLower(email)
	s.mu.RLock()
	want, ok := s.otps[key]
	s.mu.RUnlock()
	if ok && want != strings.TrimSpace(otp) {
		s.fail(ErrInvalidOTP)
		return false
	}
	registered := s.authenticate(ctx, func() (*domain.Session, error) {
		return s.auth.Register(ctx, api.RegisterRequest{
			Name:     strings.TrimSpace(name),
			Email:    email,
			Password: password,
			EmailOTP: strings.TrimSpace(otp),
		})
	})
	if registered {
		// a code is good for one account
		s.mu.Lock()
		delete(s.otps, key)
		s.mu.Unlock()
	}
	return registered
}

func (s *Store) LoginWithSocialCredential(ctx context.Context, credential string) bool {
	return s.authenticate(ctx, func() (*domain.Session, error) {
		return s.auth.GoogleLogin(ctx, api.GoogleLoginRequest{Credential: credential})
	})
}

// SendOTP asks the backend to mail a registration code and returns its message.
func (s *Store) SendOTP(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	resp, err := s.auth.SendOTP(ctx, api.SendOTPRequest{Email: email})
	if err != nil {
		s.fail(err)
		return "", err
	}
	s.mu.Lock()
	if resp.Code != "" {
		s.otps[strings.ToLower(email)] = resp.Code
	}
	s.lastErr = ""
	s.mu.Unlock()
	return resp.Message, nil
}

// UpdateProfile changes the signed-in user's details. The old token is kept
// when the backend does not issue a new one.
func (s *Store) UpdateProfile(ctx context.Context, name, email, password string) bool {
	cur := s.Current()
	if cur == nil {
		s.fail(errors.New("not signed in"))
		return false
	}
	return s.authenticate(ctx, func() (*domain.Session, error) {
		resp, err := s.auth.UpdateProfile(ctx, cur.Token, api.UpdateProfileRequest{
			Name:     strings.TrimSpace(name),
			Email:    strings.TrimSpace(email),
			Password: password,
		})
		if err != nil {
			return nil, err
		}
		next := &domain.Session{
			ID:      resp.ID,
			Name:    resp.Name,
			Email:   resp.Email,
			IsAdmin: resp.IsAdmin,
			Token:   resp.Token,
		}
		if next.Token == "" {
			next.Token = cur.Token
		}
		return next, nil
	})
}

// Logout forgets the session locally. The cart is left alone and no request is made.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, storage.KeySession); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Error("failed to delete session record", zap.Error(err))
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// authenticate runs call with the loading flag set. Overlapping calls are not
// coordinated: whichever resolves last wins.
func (s *Store) authenticate(ctx context.Context, call func() (*domain.Session, error)) bool {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	sess, err := call()
	if err != nil {
		s.fail(err)
		return false
	}

	s.mu.Lock()
	s.current = sess
	s.loading = false
	s.lastErr = ""
	s.mu.Unlock()

	if err := storage.SetJSON(ctx, s.kv, storage.KeySession, sess); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
	}
	return true
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.loading = false
	s.lastErr = api.Message(err, "")
	s.mu.Unlock()
}
