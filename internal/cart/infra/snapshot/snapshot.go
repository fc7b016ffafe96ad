// Package snapshot encodes carts in the layout the storefront keeps in local
// storage: a JSON array of {"id","title","price","image","amount"} objects.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/shopspring/decimal"
)

type entry struct {
	ID     int64       `json:"id"`
	Title  string      `json:"title"`
	Price  json.Number `json:"price"`
	Image  string      `json:"image"`
	Amount int         `json:"amount"`
}

func Encode(cart domain.Cart) ([]byte, error) {
	entries := cart.Entries()
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{
			ID:     e.ProductID,
			Title:  e.Title,
			Price:  json.Number(e.Price.String()),
			Image:  e.Image,
			Amount: e.Quantity,
		})
	}
	return json.Marshal(out)
}

func Decode(data []byte) (domain.Cart, error) {
	var in []entry
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Cart{}, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}

	entries := make([]domain.CartEntry, 0, len(in))
	for _, e := range in {
		price := decimal.Zero
		if e.Price != "" {
			p, err := decimal.NewFromString(e.Price.String())
			if err != nil {
				return domain.Cart{}, fmt.Errorf("%w: product %d price: %v", domain.ErrCorruptSnapshot, e.ID, err)
			}
			price = p
		}
		entries = append(entries, domain.CartEntry{
			ProductID: e.ID,
			Title:     e.Title,
			Price:     price,
			Image:     e.Image,
			Quantity:  e.Amount,
		})
	}

	return domain.Restore(entries)
}
