package app

import (
	"context"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
)

type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type StockSource interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
}
