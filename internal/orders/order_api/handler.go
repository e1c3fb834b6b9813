package order_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
	"ms-bakery/internal/orders"
	"ms-bakery/internal/orders/qr"
)

type Handler struct {
	OrderService *orders.Service
	Logger       *logger.Logger
}

func NewHandler(orderService *orders.Service, log *logger.Logger) *Handler {
	return &Handler{
		OrderService: orderService,
		Logger:       log,
	}
}

// CreateOrder takes a back-office order straight into the store, bypassing
// the storefront wizard.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.OrderService.PlaceOrder(order); err != nil {
		switch {
		case errors.Is(err, orders.ErrMissingContact), errors.Is(err, orders.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.Logger.Error("API", fmt.Sprintf("CreateOrder: %v", err))
			http.Error(w, "Could not create order", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		h.respondOrderError(w, orderID, err)
		return
	}

	h.writeJSON(w, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := models.OrderFilter{
		Search: r.URL.Query().Get("search"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		filter.PageSize = size
	}

	page, err := h.OrderService.ListOrders(filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		http.Error(w, "Could not list orders", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, page)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	order.OrderID = orderID

	if err := h.OrderService.UpdateOrder(order); err != nil {
		h.respondOrderError(w, orderID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.OrderService.UpdateOrderStatus(orderID, req.Status); err != nil {
		if errors.Is(err, orders.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.respondOrderError(w, orderID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	if err := h.OrderService.CancelOrder(orderID); err != nil {
		if errors.Is(err, orders.ErrNotCancellable) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.respondOrderError(w, orderID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PickupQR streams the pickup code as a PNG for printing or on-screen scan.
func (h *Handler) PickupQR(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	png, err := h.OrderService.PickupQR(orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotReadyForPickup) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.respondOrderError(w, orderID, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// VerifyPickup checks a scanned code and marks the order picked up.
func (h *Handler) VerifyPickup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	order, err := h.OrderService.VerifyPickup(req.Code)
	if err != nil {
		switch {
		case errors.Is(err, qr.ErrInvalidPayload):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, orders.ErrAlreadyPickedUp), errors.Is(err, orders.ErrNotReadyForPickup):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "Order not found", http.StatusNotFound)
		default:
			h.Logger.Error("API", fmt.Sprintf("VerifyPickup: %v", err))
			http.Error(w, "Could not verify pickup", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, order)
}

func (h *Handler) respondOrderError(w http.ResponseWriter, orderID string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	h.Logger.Error("API", fmt.Sprintf("order %s: %v", orderID, err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
