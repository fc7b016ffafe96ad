package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	product domain.Product
	stock   domain.Stock
	err     error
	calls   int
}

func (f *fakeSource) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	f.calls++
	return f.product, f.err
}

func (f *fakeSource) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	f.calls++
	return f.stock, f.err
}

func TestGetProduct(t *testing.T) {
	t.Run("non-positive id -> invalid, source untouched", func(t *testing.T) {
		src := &fakeSource{}
		svc := NewService(src, src)
		for _, id := range []int64{0, -4} {
			if _, err := svc.GetProduct(context.Background(), id); err != ErrInvalidInput {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		}
		if src.calls != 0 {
			t.Fatalf("source called for invalid id")
		}
	})

	t.Run("found", func(t *testing.T) {
		src := &fakeSource{product: domain.Product{ID: 3, Title: "Court", Price: decimal.RequireFromString("99.9")}}
		p, err := NewService(src, src).GetProduct(context.Background(), 3)
		if err != nil || p.Title != "Court" {
			t.Fatalf("got (%+v, %v)", p, err)
		}
	})

	t.Run("not found passes through", func(t *testing.T) {
		src := &fakeSource{err: ErrNotFound}
		_, err := NewService(src, src).GetProduct(context.Background(), 3)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("mismatched id -> error", func(t *testing.T) {
		src := &fakeSource{product: domain.Product{ID: 4}}
		if _, err := NewService(src, src).GetProduct(context.Background(), 3); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestGetStock(t *testing.T) {
	t.Run("non-positive id -> invalid", func(t *testing.T) {
		src := &fakeSource{}
		if _, err := NewService(src, src).GetStock(context.Background(), 0); err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative amount -> error", func(t *testing.T) {
		src := &fakeSource{stock: domain.Stock{ProductID: 1, Amount: -1}}
		if _, err := NewService(src, src).GetStock(context.Background(), 1); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("zero amount is valid", func(t *testing.T) {
		src := &fakeSource{stock: domain.Stock{ProductID: 1, Amount: 0}}
		st, err := NewService(src, src).GetStock(context.Background(), 1)
		if err != nil || st.Amount != 0 {
			t.Fatalf("got (%+v, %v)", st, err)
		}
	})

	t.Run("every call reaches the source", func(t *testing.T) {
		src := &fakeSource{stock: domain.Stock{ProductID: 1, Amount: 2}}
		svc := NewService(src, src)
		_, _ = svc.GetStock(context.Background(), 1)
		_, _ = svc.GetStock(context.Background(), 1)
		if src.calls != 2 {
			t.Fatalf("expected 2 source calls, got %d", src.calls)
		}
	})
}
