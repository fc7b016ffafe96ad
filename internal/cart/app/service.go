package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/google/uuid"
)

const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Result reports what an operation did. Failure is nil iff Committed is
// true; Notice is the single notice emitted for a failure.
type Result struct {
	Cart      domain.Cart
	Committed bool
	Failure   error
	Notice    *domain.Notice
}

type Deps struct {
	Stock    StockOracle
	Catalog  CatalogLookup
	Store    CartStore
	Notifier Notifier
	Recorder Recorder
	Logger   *slog.Logger
}

// Manager owns the current cart. Operations are serialized: one runs to
// completion, lookups included, before the next one reads the cart.
type Manager struct {
	opMu    sync.Mutex
	current atomic.Pointer[domain.Cart]

	stock    StockOracle
	catalog  CatalogLookup
	store    CartStore
	notifier Notifier
	recorder Recorder
	log      *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewManager restores the last saved snapshot, or starts empty if there is none.
func NewManager(ctx context.Context, deps Deps) (*Manager, error) {
	if deps.Stock == nil || deps.Catalog == nil || deps.Store == nil {
		return nil, errors.New("cart manager: stock, catalog and store are required")
	}

	m := &Manager{
		stock:    deps.Stock,
		catalog:  deps.Catalog,
		store:    deps.Store,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		log:      deps.Logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}
	if m.log == nil {
		m.log = slog.Default()
	}

	cart, err := deps.Store.Load(ctx)
	if errors.Is(err, domain.ErrSnapshotNotFound) {
		cart, err = domain.EmptyCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}

	m.current.Store(&cart)
	m.log.Info("cart restored", slog.Int("entries", cart.Len()))
	return m, nil
}

func (m *Manager) Cart() domain.Cart {
	return *m.current.Load()
}

func (m *Manager) Add(ctx context.Context, productID int64) Result {
	return m.run(ctx, domain.OpAdd, productID, func(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
		stock, err := m.fetchStock(ctx, productID)
		if err != nil {
			return cart, err
		}

		if cart.Contains(productID) {
			return cart.Increment(stock)
		}

		if stock.Quantity < 1 {
			return cart, fmt.Errorf("%w: product %d has no stock", domain.ErrOutOfStock, productID)
		}

		product, err := m.catalog.Product(ctx, productID)
		if err != nil {
			return cart, classify(err, domain.ErrProductNotFound)
		}
		product.ID = productID

		return cart.Append(product, stock)
	})
}

func (m *Manager) Remove(ctx context.Context, productID int64) Result {
	return m.run(ctx, domain.OpRemove, productID, func(_ context.Context, cart domain.Cart) (domain.Cart, error) {
		return cart.Remove(productID)
	})
}

func (m *Manager) SetQuantity(ctx context.Context, productID int64, quantity int) Result {
	return m.run(ctx, domain.OpSetQuantity, productID, func(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
		if quantity <= 0 {
			return cart, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
		}
		if !cart.Contains(productID) {
			return cart, domain.ErrProductNotInCart
		}

		stock, err := m.fetchStock(ctx, productID)
		if err != nil {
			return cart, err
		}

		return cart.SetQuantity(productID, quantity, stock)
	})
}

type decision func(ctx context.Context, cart domain.Cart) (domain.Cart, error)

// run applies decide under the operation lock. The failure notice is
// emitted after the lock is released.
func (m *Manager) run(ctx context.Context, op domain.Op, productID int64, decide decision) Result {
	res := m.apply(ctx, op, productID, decide)
	if res.Notice != nil {
		m.notifier.Notify(ctx, *res.Notice)
	}
	return res
}

func (m *Manager) apply(ctx context.Context, op domain.Op, productID int64, decide decision) Result {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	start := m.now()
	log := m.log.With(
		slog.String("op", string(op)),
		slog.String("op_id", m.newID()),
		slog.Int64("product_id", productID),
	)

	current := m.Cart()
	next, err := decide(ctx, current)
	if err == nil {
		// persist first; a snapshot that could not be saved is never exposed
		if saveErr := m.store.Save(ctx, next); saveErr != nil {
			err = fmt.Errorf("persist cart: %w", saveErr)
		}
	}

	if err != nil {
		return m.fail(log, op, productID, current, err, start)
	}

	m.current.Store(&next)
	m.recorder.ObserveOperation(string(op), OutcomeCommitted, m.now().Sub(start))
	log.Info("cart committed", slog.Int("entries", next.Len()))

	return Result{Cart: next, Committed: true}
}

func (m *Manager) fail(log *slog.Logger, op domain.Op, productID int64, current domain.Cart, err error, start time.Time) Result {
	outOfStock := errors.Is(err, domain.ErrOutOfStock)

	notice := domain.Notice{
		ID:        m.newID(),
		Kind:      domain.FailureNotice(op, outOfStock),
		Op:        op,
		ProductID: productID,
		Reason:    err.Error(),
		At:        m.now(),
	}

	outcome := OutcomeFailed
	if outOfStock {
		outcome = OutcomeRejected
		log.Info("cart operation rejected", slog.String("notice", string(notice.Kind)), slog.Any("err", err))
	} else {
		log.Warn("cart operation failed", slog.String("notice", string(notice.Kind)), slog.Any("err", err))
	}
	m.recorder.ObserveOperation(string(op), outcome, m.now().Sub(start))

	return Result{Cart: current, Failure: err, Notice: &notice}
}

func (m *Manager) fetchStock(ctx context.Context, productID int64) (domain.Stock, error) {
	stock, err := m.stock.Stock(ctx, productID)
	if err != nil {
		return domain.Stock{}, classify(err, domain.ErrStockUnavailable)
	}
	stock.ProductID = productID
	return stock, nil
}

func classify(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
