package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
}

// Stock is the quantity currently available for a product.
type Stock struct {
	ProductID int64
	Amount    int
}
