package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/shoping-cart/internal/catalog/app"
)

type CatalogServiceReader struct {
	svc *catalogapp.Service
}

func NewCatalogServiceReader(svc *catalogapp.Service) *CatalogServiceReader {
	return &CatalogServiceReader{svc: svc}
}

func (r *CatalogServiceReader) Product(ctx context.Context, productID int64) (domain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
			return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrProductNotFound, err)
		}
		return domain.Product{}, err
	}

	return domain.Product{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
	}, nil
}
