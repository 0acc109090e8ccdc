package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Furniture-Final-Project/Furniture-sub000/service"
	"github.com/Furniture-Final-Project/Furniture-sub000/store"
)

type addRemoveCartReq struct {
	UserID    int64  `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"` // optional for remove
}

// AddToCart handles POST /cart/add
// body: { "user_id": 1, "product_id": "chair-0", "quantity": 2 }
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addRemoveCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == 0 {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Quantity <= 0 {
		writeErr(w, http.StatusBadRequest, "quantity must be > 0")
		return
	}
	if err := h.svc.AddToCart(req.UserID, req.ProductID, req.Quantity); err != nil {
		var missing *service.ProductMissingError
		if errors.As(err, &missing) {
			writeErr(w, http.StatusNotFound, err.Error())
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveFromCart handles POST /cart/remove
// body: { "user_id": 1, "product_id": "chair-0" }
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req addRemoveCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == 0 {
		writeErr(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if err := h.svc.RemoveFromCart(req.UserID, req.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeErr(w, http.StatusNotFound, "cart line not found")
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ListCart handles GET /cart/list?user_id=...
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeErr(w, http.StatusBadRequest, "user_id required")
		return
	}
	items, total, err := h.svc.GetCart(userID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "items": items, "total": total})
}
