package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/catalog/app"
	"github.com/dwikikusuma/shoping-cart/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// Client reads the storefront JSON API:
//
//	GET {base}/products/{id} -> {"id": 1, "title": "...", "price": 179.9, "image": "..."}
//	GET {base}/stock/{id}    -> {"id": 1, "amount": 3}
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

type productDTO struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type stockDTO struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var dto productDTO
	if err := c.get(ctx, "products", id, &dto); err != nil {
		return domain.Product{}, err
	}
	if dto.ID == 0 {
		dto.ID = id
	}

	return domain.Product{
		ID:    dto.ID,
		Title: dto.Title,
		Price: dto.Price,
		Image: dto.Image,
	}, nil
}

func (c *Client) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	var dto stockDTO
	if err := c.get(ctx, "stock", productID, &dto); err != nil {
		return domain.Stock{}, err
	}

	return domain.Stock{
		ProductID: productID,
		Amount:    dto.Amount,
	}, nil
}

func (c *Client) get(ctx context.Context, resource string, id int64, out any) error {
	url := c.baseURL + "/" + resource + "/" + strconv.FormatInt(id, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s/%d: %w", resource, id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s/%d: %w", resource, id, app.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s/%d: unexpected status %d: %s", resource, id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s/%d: %w", resource, id, err)
	}
	return nil
}
