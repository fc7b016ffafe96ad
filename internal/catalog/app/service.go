package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Service is the read side of the remote catalog: product metadata and
// live stock. Nothing is cached; every call reaches the source.
type Service struct {
	products ProductSource
	stock    StockSource
}

func NewService(products ProductSource, stock StockSource) *Service {
	return &Service{
		products: products,
		stock:    stock,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, ErrInvalidInput
	}

	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if p.ID != id {
		return domain.Product{}, fmt.Errorf("catalog returned product %d for %d", p.ID, id)
	}
	return p, nil
}

func (s *Service) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	if productID <= 0 {
		return domain.Stock{}, ErrInvalidInput
	}

	st, err := s.stock.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, err
	}
	if st.Amount < 0 {
		return domain.Stock{}, fmt.Errorf("negative stock %d for product %d", st.Amount, productID)
	}
	return st, nil
}
