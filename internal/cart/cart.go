// Package cart keeps the shopper's pending lines and writes the whole line
// array to the durable "cartItems" record after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/storage"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

type Store struct {
	mu    sync.RWMutex
	kv    storage.KV
	log   *zap.Logger
	lines domain.Cart
}

// Open restores the persisted cart. An unreadable record starts an empty cart.
func Open(ctx context.Context, kv storage.KV, log *zap.Logger) (*Store, error) {
	s := &Store{kv: kv, log: log, lines: domain.Cart{}}

	var stored domain.Cart
	err := storage.GetJSON(ctx, kv, storage.KeyCart, &stored)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, storage.ErrCorrupt):
		log.Warn("discarding unreadable cart record", zap.Error(err))
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	default:
		for _, l := range stored {
			if l.ProductID == "" || l.Qty < 1 {
				continue
			}
			s.lines = s.upsert(s.lines, l)
		}
	}
	return s, nil
}

// AddToCart sets the quantity for product, replacing any existing line with a
// fresh snapshot. It does not add to the previous quantity.
func (s *Store) AddToCart(ctx context.Context, p domain.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = s.upsert(s.lines, domain.NewCartLine(p, qty))
	return s.save(ctx)
}

// RemoveFromCart drops the line for productID; absent ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(domain.Cart, 0, len(s.lines))
	for _, l := range s.lines {
		if l.ProductID != productID {
			next = append(next, l)
		}
	}
	s.lines = next
	return s.save(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = domain.Cart{}
	return s.save(ctx)
}

// Lines returns a copy of the current lines.
func (s *Store) Lines() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.Cart, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.TotalQuantity()
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Subtotal()
}

func (s *Store) upsert(lines domain.Cart, line domain.CartLine) domain.Cart {
	next := make(domain.Cart, len(lines), len(lines)+1)
	copy(next, lines)
	for i := range next {
		if next[i].ProductID == line.ProductID {
			next[i] = line
			return next
		}
	}
	return append(next, line)
}

// save must be called with mu held. The in-memory change stands even when
// the write fails.
func (s *Store) save(ctx context.Context) error {
	if err := storage.SetJSON(ctx, s.kv, storage.KeyCart, s.lines); err != nil {
		s.log.Error("failed to persist cart", zap.Int("lines", len(s.lines)), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
