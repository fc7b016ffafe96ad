package domain

import "errors"

var (
	ErrOutOfStock       = errors.New("requested quantity out of stock")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductNotInCart = errors.New("product not in cart")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrStockUnavailable = errors.New("stock unavailable")

	ErrSnapshotNotFound = errors.New("cart snapshot not found")
	ErrCorruptSnapshot  = errors.New("corrupt cart snapshot")
)
