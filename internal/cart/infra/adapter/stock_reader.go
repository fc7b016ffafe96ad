package adapter

import (
	"context"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
)

type StockServiceReader struct {
	svc *catalogapp.Service
}

func NewStockServiceReader(svc *catalogapp.Service) *StockServiceReader {
	return &StockServiceReader{svc: svc}
}

// Stock reports any failure to resolve the product as domain.ErrStockUnavailable.
func (r *StockServiceReader) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	st, err := r.svc.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("%w: %w", domain.ErrStockUnavailable, err)
	}

	return domain.Stock{
		ProductID: st.ProductID,
		Quantity:  st.Amount,
	}, nil
}
