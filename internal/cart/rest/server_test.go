package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/memory"
	"github.com/dwikikusuma/shoping-cart/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

type mapStock map[int64]int

func (m mapStock) Stock(ctx context.Context, id int64) (domain.Stock, error) {
	q, ok := m[id]
	if !ok {
		return domain.Stock{}, errors.New("connection refused")
	}
	return domain.Stock{ProductID: id, Quantity: q}, nil
}

type mapCatalog map[int64]string

func (m mapCatalog) Product(ctx context.Context, id int64) (domain.Product, error) {
	title, ok := m[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return domain.Product{ID: id, Title: title, Price: decimal.RequireFromString("139.9"), Image: "shoe.jpg"}, nil
}

func newTestServer(t *testing.T, reg prometheus.Registerer) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	mgr, err := app.NewManager(context.Background(), app.Deps{
		Stock:   mapStock{1: 2, 2: 0, 3: 5},
		Catalog: mapCatalog{1: "Runner", 2: "Trail"},
		Store:   memory.NewCartStore(),
		Logger:  log,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	var m *metrics.ServerMetrics
	if reg != nil {
		m = metrics.NewServerMetrics(reg, "cart")
	}

	mux := http.NewServeMux()
	NewServer(mgr, log, m).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestServer(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		srv := newTestServer(t, nil)
		code, body := do(t, srv, http.MethodGet, "/cart", "")
		if code != http.StatusOK || body["count"] != float64(0) || body["subtotal"] != "0.00" {
			t.Fatalf("got %d %v", code, body)
		}
	})

	t.Run("add twice then out of stock -> 409", func(t *testing.T) {
		srv := newTestServer(t, nil)
		do(t, srv, http.MethodPost, "/cart/items/1", "")
		code, body := do(t, srv, http.MethodPost, "/cart/items/1", "")
		if code != http.StatusOK || body["subtotal"] != "279.80" {
			t.Fatalf("got %d %v", code, body)
		}

		code, body = do(t, srv, http.MethodPost, "/cart/items/1", "")
		if code != http.StatusConflict || errorCode(body) != "FAILED_PRECONDITION" {
			t.Fatalf("got %d %v", code, body)
		}
		e := body["error"].(map[string]any)
		if e["notice"] != string(domain.NoticeInsufficientStock) || e["message"] != domain.NoticeInsufficientStock.Message() {
			t.Fatalf("unexpected notice: %v", e)
		}
		cart := body["cart"].(map[string]any)
		items := cart["items"].([]any)
		if len(items) != 1 || items[0].(map[string]any)["amount"] != float64(2) {
			t.Fatalf("cart changed on failure: %v", cart)
		}
	})

	t.Run("unknown product -> 404", func(t *testing.T) {
		srv := newTestServer(t, nil)
		code, body := do(t, srv, http.MethodPost, "/cart/items/3", "")
		if code != http.StatusNotFound || errorCode(body) != "NOT_FOUND" {
			t.Fatalf("got %d %v", code, body)
		}
	})

	t.Run("stock down -> 503", func(t *testing.T) {
		srv := newTestServer(t, nil)
		code, body := do(t, srv, http.MethodPost, "/cart/items/9", "")
		if code != http.StatusServiceUnavailable || errorCode(body) != "UNAVAILABLE" {
			t.Fatalf("got %d %v", code, body)
		}
	})

	t.Run("bad product id -> 400", func(t *testing.T) {
		srv := newTestServer(t, nil)
		code, body := do(t, srv, http.MethodPost, "/cart/items/abc", "")
		if code != http.StatusBadRequest || errorCode(body) != "INVALID_ARGUMENT" {
			t.Fatalf("got %d %v", code, body)
		}
	})

	t.Run("set quantity", func(t *testing.T) {
		srv := newTestServer(t, nil)
		do(t, srv, http.MethodPost, "/cart/items/1", "")

		code, body := do(t, srv, http.MethodPut, "/cart/items/1", `{"amount":2}`)
		if code != http.StatusOK || body["subtotal"] != "279.80" {
			t.Fatalf("got %d %v", code, body)
		}

		code, body = do(t, srv, http.MethodPut, "/cart/items/1", `{"amount":0}`)
		if code != http.StatusBadRequest || errorCode(body) != "INVALID_ARGUMENT" {
			t.Fatalf("got %d %v", code, body)
		}

		code, body = do(t, srv, http.MethodPut, "/cart/items/1", `{"amount":3}`)
		if code != http.StatusConflict {
			t.Fatalf("got %d %v", code, body)
		}

		code, _ = do(t, srv, http.MethodPut, "/cart/items/1", `{}`)
		if code != http.StatusBadRequest {
			t.Fatalf("missing amount: got %d", code)
		}
	})

	t.Run("remove", func(t *testing.T) {
		srv := newTestServer(t, nil)
		do(t, srv, http.MethodPost, "/cart/items/1", "")

		code, body := do(t, srv, http.MethodDelete, "/cart/items/1", "")
		if code != http.StatusOK || body["count"] != float64(0) {
			t.Fatalf("got %d %v", code, body)
		}

		code, body = do(t, srv, http.MethodDelete, "/cart/items/1", "")
		if code != http.StatusNotFound {
			t.Fatalf("got %d %v", code, body)
		}
		if body["error"].(map[string]any)["notice"] != string(domain.NoticeRemoveFailed) {
			t.Fatalf("unexpected notice: %v", body)
		}
	})

	t.Run("requests are counted", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		srv := newTestServer(t, reg)
		do(t, srv, http.MethodGet, "/cart", "")
		do(t, srv, http.MethodDelete, "/cart/items/1", "")

		got, err := testutil.GatherAndCount(reg, "shop_cart_http_requests_total")
		if err != nil {
			t.Fatalf("gather: %v", err)
		}
		if got != 2 {
			t.Fatalf("expected 2 series, got %d", got)
		}
	})
}
