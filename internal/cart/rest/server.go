package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CartManager interface {
	Cart() domain.Cart
	Add(ctx context.Context, productID int64) app.Result
	Remove(ctx context.Context, productID int64) app.Result
	SetQuantity(ctx context.Context, productID int64, quantity int) app.Result
}

type Server struct {
	mgr     CartManager
	log     *slog.Logger
	metrics *metrics.ServerMetrics
}

// NewServer builds the cart HTTP API. m may be nil.
func NewServer(mgr CartManager, log *slog.Logger, m *metrics.ServerMetrics) *Server {
	return &Server{mgr: mgr, log: log, metrics: m}
}

// Register mounts the cart routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	s.handle(mux, "GET /cart", "get_cart", s.getCart)
	s.handle(mux, "POST /cart/items/{productId}", "add", s.addItem)
	s.handle(mux, "DELETE /cart/items/{productId}", "remove", s.removeItem)
	s.handle(mux, "PUT /cart/items/{productId}", "set_quantity", s.setQuantity)
}

func (s *Server) handle(mux *http.ServeMux, pattern, name string, h http.HandlerFunc) {
	var handler http.Handler = h
	if s.metrics != nil {
		handler = s.metrics.Wrap(name, handler)
	}
	mux.Handle(pattern, handler)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCartResponse(s.mgr.Cart()))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}
	s.writeResult(w, s.mgr.Add(r.Context(), id))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}
	s.writeResult(w, s.mgr.Remove(r.Context(), id))
}

type setQuantityRequest struct {
	Amount *int `json:"amount"`
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.productID(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	if err := dec.Decode(&req); err != nil || req.Amount == nil {
		s.writeError(w, status.Error(codes.InvalidArgument, "body must be {\"amount\": <int>}"))
		return
	}

	s.writeResult(w, s.mgr.SetQuantity(r.Context(), id, *req.Amount))
}

func (s *Server) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, status.Error(codes.InvalidArgument, "productId must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) writeResult(w http.ResponseWriter, res app.Result) {
	if res.Committed {
		writeJSON(w, http.StatusOK, toCartResponse(res.Cart))
		return
	}

	httpStatus, code, _ := httpStatusFromGRPC(toStatus(res.Failure))
	body := failureResponse{
		Error: errorBody{Code: code},
		Cart:  toCartResponse(res.Cart),
	}
	if res.Notice != nil {
		body.Error.Message = res.Notice.Kind.Message()
		body.Error.Notice = string(res.Notice.Kind)
		body.Error.NoticeID = res.Notice.ID
	}
	writeJSON(w, httpStatus, body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	httpStatus, code, msg := httpStatusFromGRPC(err)
	if httpStatus >= http.StatusInternalServerError {
		s.log.Error("request failed", slog.Any("err", err))
	}
	writeJSON(w, httpStatus, failureResponse{Error: errorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
