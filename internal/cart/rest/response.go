package rest

import "github.com/dwikikusuma/shoping-cart/internal/cart/domain"

type itemResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Amount   int    `json:"amount"`
	Subtotal string `json:"subtotal"`
}

type cartResponse struct {
	Items    []itemResponse `json:"items"`
	Count    int            `json:"count"`
	Subtotal string         `json:"subtotal"`
}

type errorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Notice   string `json:"notice,omitempty"`
	NoticeID string `json:"notice_id,omitempty"`
}

type failureResponse struct {
	Error errorBody     `json:"error"`
	Cart  *cartResponse `json:"cart,omitempty"`
}

func toCartResponse(c domain.Cart) *cartResponse {
	entries := c.Entries()
	out := &cartResponse{
		Items:    make([]itemResponse, 0, len(entries)),
		Count:    len(entries),
		Subtotal: c.Subtotal().StringFixed(2),
	}
	for _, e := range entries {
		out.Items = append(out.Items, itemResponse{
			ID:       e.ProductID,
			Title:    e.Title,
			Price:    e.Price.StringFixed(2),
			Image:    e.Image,
			Amount:   e.Quantity,
			Subtotal: e.Subtotal().StringFixed(2),
		})
	}
	return out
}
