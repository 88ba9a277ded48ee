package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/storage"
)

// MockAuth implements Authenticator for testing
type MockAuth struct {
	Session      *domain.Session
	Profile      *api.ProfileResponse
	OTP          *api.SendOTPResponse
	Err          error
	Calls        int
	LastRegister api.RegisterRequest
	LastToken    string
}

func (m *MockAuth) Login(_ context.Context, _ api.LoginRequest) (*domain.Session, error) {
	m.Calls++
	return m.Session, m.Err
}

func (m *MockAuth) Register(_ context.Context, req api.RegisterRequest) (*domain.Session, error) {
	m.Calls++
	m.LastRegister = req
	return m.Session, m.Err
}

func (m *MockAuth) GoogleLogin(_ context.Context, _ api.GoogleLoginRequest) (*domain.Session, error) {
	m.Calls++
	return m.Session, m.Err
}

func (m *MockAuth) SendOTP(_ context.Context, _ api.SendOTPRequest) (*api.SendOTPResponse, error) {
	m.Calls++
	return m.OTP, m.Err
}

func (m *MockAuth) UpdateProfile(_ context.Context, token string, _ api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	m.Calls++
	m.LastToken = token
	return m.Profile, m.Err
}

func ann() *domain.Session {
	return &domain.Session{ID: "u1", Name: "Ann", Email: "ann@example.com", Token: "tok"}
}

func openStore(t *testing.T, kv storage.KV, auth *MockAuth) *Store {
	t.Helper()
	s, err := Open(context.Background(), kv, auth, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestOpen_Empty(t *testing.T) {
	s := openStore(t, storage.NewMemory(), &MockAuth{})
	assert.Nil(t, s.Current())
	assert.False(t, s.Loading())
}

func TestOpen_RestoresSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, storage.SetJSON(ctx, kv, storage.KeySession, ann()))

	s := openStore(t, kv, &MockAuth{})

	require.NotNil(t, s.Current())
	assert.Equal(t, "tok", s.Current().Token)
}

func TestOpen_DiscardsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed", raw: `{"_id":`},
		{name: "no token", raw: `{"_id":"u1","email":"a@b.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(ctx, storage.KeySession, []byte(tt.raw)))

			s := openStore(t, kv, &MockAuth{})

			assert.Nil(t, s.Current())
			_, err := kv.Get(ctx, storage.KeySession)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestLogin_SuccessPersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := openStore(t, kv, &MockAuth{Session: ann()})

	ok := s.Login(ctx, "ann@example.com", "pw")

	require.True(t, ok)
	assert.Equal(t, "u1", s.Current().ID)
	assert.False(t, s.Loading())
	assert.Empty(t, s.LastError())

	var stored domain.Session
	require.NoError(t, storage.GetJSON(ctx, kv, storage.KeySession, &stored))
	assert.Equal(t, "tok", stored.Token)
}

func TestLogin_FailureKeepsBackendMessage(t *testing.T) {
	s := openStore(t, storage.NewMemory(), &MockAuth{
		Err: &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"},
	})

	ok := s.Login(context.Background(), "ann@example.com", "bad")

	assert.False(t, ok)
	assert.Nil(t, s.Current())
	assert.Equal(t, "Invalid email or password", s.LastError())
	assert.False(t, s.Loading())
}

func TestLogin_TransportMessage(t *testing.T) {
	s := openStore(t, storage.NewMemory(), &MockAuth{
		Err: &api.TransportError{Op: "POST /api/users/login", Err: errors.New("connection refused")},
	})

	ok := s.Login(context.Background(), "ann@example.com", "pw")

	assert.False(t, ok)
	assert.Contains(t, s.LastError(), "connection refused")
}

func TestLogout_LocalOnlyAndCartUntouched(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, storage.KeyCart, []byte(`[{"_id":"p1","qty":1}]`)))
	auth := &MockAuth{Session: ann()}
	s := openStore(t, kv, auth)
	require.True(t, s.Login(ctx, "ann@example.com", "pw"))
	calls := auth.Calls

	require.NoError(t, s.Logout(ctx))

	assert.Nil(t, s.Current())
	assert.Equal(t, calls, auth.Calls)
	_, err := kv.Get(ctx, storage.KeySession)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	cart, err := kv.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"p1","qty":1}]`, string(cart))
}

func TestRegister_RejectsWrongOTPLocally(t *testing.T) {
	ctx := context.Background()
	auth := &MockAuth{Session: ann(), OTP: &api.SendOTPResponse{Message: "OTP sent", Code: "123456"}}
	s := openStore(t, storage.NewMemory(), auth)

	msg, err := s.SendOTP(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent", msg)
	calls := auth.Calls

	ok := s.Register(ctx, "Ann", "ann@example.com", "pw", "000000")

	assert.False(t, ok)
	assert.Equal(t, ErrInvalidOTP.Error(), s.LastError())
	assert.Equal(t, calls, auth.Calls)

	ok = s.Register(ctx, "Ann", "ann@example.com", "pw", "123456")

	assert.True(t, ok)
	assert.Equal(t, "123456", auth.LastRegister.EmailOTP)
}

func TestRegister_ForgetsOTPAfterSuccess(t *testing.T) {
	ctx := context.Background()
	auth := &MockAuth{Session: ann(), OTP: &api.SendOTPResponse{Message: "OTP sent", Code: "123456"}}
	s := openStore(t, storage.NewMemory(), auth)

	_, err := s.SendOTP(ctx, "ann@example.com")
	require.NoError(t, err)
	require.True(t, s.Register(ctx, "Ann", "ann@example.com", "pw", "123456"))
	assert.NotContains(t, s.otps, "ann@example.com")

	calls := auth.Calls
	s.Register(ctx, "Ann", "ann@example.com", "pw", "999999")
	assert.Equal(t, calls+1, auth.Calls, "no stale code to check against locally")
	assert.Equal(t, "999999", auth.LastRegister.EmailOTP)
}

func TestRegister_WithoutEchoedOTPDefersToBackend(t *testing.T) {
	s := openStore(t, storage.NewMemory(), &MockAuth{
		Err: &api.Error{Status: http.StatusBadRequest, Message: "Invalid or expired OTP"},
	})

	ok := s.Register(context.Background(), "Ann", "ann@example.com", "pw", "111111")

	assert.False(t, ok)
	assert.Equal(t, "Invalid or expired OTP", s.LastError())
}

func TestLoginWithSocialCredential(t *testing.T) {
	s := openStore(t, storage.NewMemory(), &MockAuth{Session: ann()})

	assert.True(t, s.LoginWithSocialCredential(context.Background(), "google-jwt"))
	assert.Equal(t, "Ann", s.Current().Name)
}

func TestUpdateProfile_KeepsTokenWhenOmitted(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	auth := &MockAuth{
		Session: ann(),
		Profile: &api.ProfileResponse{ID: "u1", Name: "Ann B", Email: "annb@example.com"},
	}
	s := openStore(t, kv, auth)
	require.True(t, s.Login(ctx, "ann@example.com", "pw"))

	ok := s.UpdateProfile(ctx, "Ann B", "annb@example.com", "")

	require.True(t, ok)
	assert.Equal(t, "tok", auth.LastToken)
	cur := s.Current()
	assert.Equal(t, "Ann B", cur.Name)
	assert.Equal(t, "tok", cur.Token)

	var stored domain.Session
	require.NoError(t, storage.GetJSON(ctx, kv, storage.KeySession, &stored))
	assert.Equal(t, "annb@example.com", stored.Email)
}

func TestUpdateProfile_SignedOut(t *testing.T) {
	auth := &MockAuth{}
	s := openStore(t, storage.NewMemory(), auth)

	assert.False(t, s.UpdateProfile(context.Background(), "A", "a@b.com", ""))
	assert.Equal(t, 0, auth.Calls)
}
