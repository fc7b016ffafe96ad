package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/snapshot"
	"github.com/redis/go-redis/v9"
)

// CartStore keeps one cart snapshot under a single string key.
type CartStore struct {
	client *redis.Client
	key    string
}

func NewCartStore(client *redis.Client, key string) *CartStore {
	return &CartStore{
		client: client,
		key:    key,
	}
}

// Key builds the storage key for a cart, e.g. "@RocketShoes:cart:<cartID>".
func Key(prefix, cartID string) string {
	return prefix + ":" + cartID
}

func (s *CartStore) Load(ctx context.Context) (domain.Cart, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, domain.ErrSnapshotNotFound
		}
		return domain.Cart{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	return snapshot.Decode(raw)
}

func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	body, err := snapshot.Encode(cart)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, string(body), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
