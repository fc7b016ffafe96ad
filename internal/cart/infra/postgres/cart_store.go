package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/snapshot"
	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS cart_snapshots (
	cart_id    UUID PRIMARY KEY,
	entries    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const loadSnapshot = `SELECT entries FROM cart_snapshots WHERE cart_id = $1`

const upsertSnapshot = `
INSERT INTO cart_snapshots (cart_id, entries, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (cart_id) DO UPDATE SET entries = EXCLUDED.entries, updated_at = now()`

// CartStore keeps one row per cart holding the whole snapshot as JSONB.
type CartStore struct {
	db     *sql.DB
	cartID uuid.UUID
}

func NewCartStore(db *sql.DB, cartID string) (*CartStore, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, fmt.Errorf("cart id: %w", err)
	}

	return &CartStore{
		db:     db,
		cartID: id,
	}, nil
}

func (s *CartStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *CartStore) Load(ctx context.Context) (domain.Cart, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, loadSnapshot, s.cartID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("load cart %s: %w", s.cartID, err)
	}

	return snapshot.Decode(raw)
}

func (s *CartStore) Save(ctx context.Context, cart domain.Cart) error {
	body, err := snapshot.Encode(cart)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertSnapshot, s.cartID, string(body)); err != nil {
		return fmt.Errorf("save cart %s: %w", s.cartID, err)
	}
	return nil
}
