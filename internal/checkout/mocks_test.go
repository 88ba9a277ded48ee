package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/api"
	"github.com/fjod/storefront/internal/domain"
)

// MockOrders implements Orders for testing
type MockOrders struct {
	mu           sync.Mutex
	Created      []api.OrderPayload
	Verified     []api.VerifyPaymentRequest
	Uploaded     []string
	UploadRef    string
	UploadErr    error
	CreateErr    error
	VerifyErr    error
	GatewayOrder *api.GatewayOrder
	GatewayErr   error
	GatewayAmt   float64
}

func (m *MockOrders) CreateOrder(_ context.Context, _ string, req api.OrderPayload) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, req)
	return &domain.Order{ID: "o1"}, nil
}

func (m *MockOrders) VerifyPayment(_ context.Context, _ string, req api.VerifyPaymentRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verified = append(m.Verified, req)
	return m.VerifyErr
}

func (m *MockOrders) Upload(_ context.Context, _ string, f api.File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploaded = append(m.Uploaded, f.Name)
	return m.UploadRef, m.UploadErr
}

func (m *MockOrders) CreateGatewayOrder(_ context.Context, _ string, amount float64) (*api.GatewayOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GatewayAmt = amount
	return m.GatewayOrder, m.GatewayErr
}

type MockSessions struct {
	Session *domain.Session
}

func (m MockSessions) Current() *domain.Session {
	return m.Session
}

// MockNavigator records every navigation
type MockNavigator struct {
	mu    sync.Mutex
	Paths []string
	ch    chan string
}

func (m *MockNavigator) Navigate(path string) {
	m.mu.Lock()
	m.Paths = append(m.Paths, path)
	m.mu.Unlock()
	if m.ch != nil {
		m.ch <- path
	}
}

// manualTimers captures scheduled funcs so tests decide when they fire.
type manualTimers struct {
	delays []time.Duration
	funcs  []func()
}

type manualTimer struct{ stopped bool }

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) Timer {
	m.delays = append(m.delays, d)
	m.funcs = append(m.funcs, f)
	return &manualTimer{}
}

func (m *manualTimers) fire() {
	for _, f := range m.funcs {
		f()
	}
	m.funcs = nil
}
