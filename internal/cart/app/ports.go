package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
)

type StockOracle interface {
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
}

type CatalogLookup interface {
	Product(ctx context.Context, productID int64) (domain.Product, error)
}

// CartStore persists whole snapshots. Load returns domain.ErrSnapshotNotFound
// when nothing has been saved yet.
type CartStore interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}

// Notifier must not block the caller for long; delivery failures are the
// notifier's own concern.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notice)
}

type Recorder interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, domain.Notice) {}
