package memory

import (
	"context"
	"sync"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

// CartStore keeps the last saved snapshot in process memory.
type CartStore struct {
	mu    sync.Mutex
	cart  domain.Cart
	saved bool
	saves int
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

// NewCartStoreWith starts from an existing snapshot, as if it had been saved before.
func NewCartStoreWith(cart domain.Cart) *CartStore {
	return &CartStore{cart: cart, saved: true}
}

func (s *CartStore) Load(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return domain.Cart{}, domain.ErrSnapshotNotFound
	}
	return s.cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart
	s.saved = true
	s.saves++
	return nil
}

// Saves counts successful Save calls.
func (s *CartStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
