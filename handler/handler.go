package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Furniture-Final-Project/Furniture-sub000/metrics"
	"github.com/Furniture-Final-Project/Furniture-sub000/service"
)

// Handler is the HTTP layer that talks to service.Service. It owns the
// mapping from the checkout error set to status codes; nothing below it
// knows about HTTP.
type Handler struct {
	svc service.ServiceInterface
	m   *metrics.CheckoutMetrics
}

func NewHandler(s service.ServiceInterface, m *metrics.CheckoutMetrics) *Handler {
	return &Handler{svc: s, m: m}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Checkout
	r.HandleFunc("/checkout", h.Checkout).Methods("POST")

	// Products
	r.HandleFunc("/products", h.CreateProduct).Methods("POST")
	r.HandleFunc("/products/list", h.ListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	r.HandleFunc("/products/{id}", h.UpdateProduct).Methods("PUT")
	r.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")

	// Cart
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")
	r.HandleFunc("/cart/list", h.ListCart).Methods("GET")

	// Users
	r.HandleFunc("/users", h.RegisterUser).Methods("POST")
	r.HandleFunc("/users/{id}", h.GetUser).Methods("GET")

	// Orders
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET")
	r.HandleFunc("/orders/{id}/status", h.UpdateOrderStatus).Methods("POST")
	r.HandleFunc("/orders", h.ListOrders).Methods("GET")

	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// checkoutStatus maps a checkout failure to its status code and a stable
// label for metrics.
func checkoutStatus(err error) (int, string) {
	var (
		productMissing *service.ProductMissingError
		outOfStock     *service.OutOfStockError
		orderCreation  *service.OrderCreationError
		adjustFailed   *service.InventoryAdjustError
	)
	switch {
	case errors.Is(err, service.ErrInvalidAddress):
		return http.StatusBadRequest, "invalid_address"
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, "invalid_payment_method"
	case errors.As(err, &orderCreation):
		return http.StatusBadRequest, "order_creation_failed"
	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment_declined"
	case errors.Is(err, service.ErrCartEmpty):
		return http.StatusNotFound, "cart_empty"
	case errors.Is(err, service.ErrUserMissing):
		return http.StatusNotFound, "user_missing"
	case errors.As(err, &productMissing):
		return http.StatusNotFound, "product_missing"
	case errors.As(err, &outOfStock):
		return http.StatusConflict, "out_of_stock"
	case errors.As(err, &adjustFailed):
		return http.StatusInternalServerError, "inventory_adjust_failed"
	}
	return http.StatusInternalServerError, "internal_error"
}

// --- checkout ---

type checkoutReq struct {
	UserID        int64  `json:"user_id"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

// Checkout handles POST /checkout
// body: { "user_id": 1, "address": "...", "payment_method": "credit_card" }
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == 0 {
		writeErr(w, http.StatusBadRequest, "user_id required")
		return
	}

	res, err := h.svc.Checkout(req.UserID, req.Address, req.PaymentMethod)
	if err != nil {
		code, outcome := checkoutStatus(err)
		h.m.Observe(outcome, float64(time.Since(start).Milliseconds()))
		writeErr(w, code, err.Error())
		return
	}
	h.m.Observe("success", float64(time.Since(start).Milliseconds()))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"order_id": res.OrderID,
		"message":  res.Message,
	})
}
