package snapshot

import (
	"errors"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/shopspring/decimal"
)

func TestEncode(t *testing.T) {
	cart, err := domain.Restore([]domain.CartEntry{
		{ProductID: 2, Title: "Trail", Price: decimal.RequireFromString("219.9"), Image: "trail.jpg", Quantity: 1},
		{ProductID: 1, Title: "Runner", Price: decimal.RequireFromString("139.9"), Image: "runner.jpg", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	got, err := Encode(cart)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `[{"id":2,"title":"Trail","price":219.9,"image":"trail.jpg","amount":1},{"id":1,"title":"Runner","price":139.9,"image":"runner.jpg","amount":3}]`
	if string(got) != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	got, err := Encode(domain.EmptyCart())
	if err != nil || string(got) != "[]" {
		t.Fatalf("got (%s, %v)", got, err)
	}
}

func TestDecode(t *testing.T) {
	t.Run("storefront layout", func(t *testing.T) {
		cart, err := Decode([]byte(`[{"id":1,"title":"Runner","price":139.9,"image":"runner.jpg","amount":2},{"id":5,"title":"Court","price":"99.90","image":"court.jpg","amount":1}]`))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		entries := cart.Entries()
		if len(entries) != 2 || entries[0].ProductID != 1 || entries[0].Quantity != 2 || entries[1].ProductID != 5 {
			t.Fatalf("got %+v", entries)
		}
		if !entries[1].Price.Equal(decimal.RequireFromString("99.9")) {
			t.Fatalf("price %s", entries[1].Price)
		}
	})

	t.Run("zero amount is corrupt", func(t *testing.T) {
		_, err := Decode([]byte(`[{"id":1,"title":"x","price":1,"image":"","amount":0}]`))
		if !errors.Is(err, domain.ErrCorruptSnapshot) {
			t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
		}
	})

	t.Run("garbage is corrupt", func(t *testing.T) {
		_, err := Decode([]byte(`{"cart":`))
		if !errors.Is(err, domain.ErrCorruptSnapshot) {
			t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
		}
	})
}
