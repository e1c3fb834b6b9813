package payment_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/payments"
)

type Handler struct {
	PaymentService *payments.Service
	Logger         *logger.Logger
}

func NewHandler(paymentService *payments.Service, log *logger.Logger) *Handler {
	return &Handler{
		PaymentService: paymentService,
		Logger:         log,
	}
}

// TakeDeposit charges a deposit against an order. An omitted or zero amount
// means the standard half-total deposit.
func (h *Handler) TakeDeposit(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req struct {
		Amount float64 `json:"amount"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	payment, err := h.PaymentService.TakeDeposit(orderID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidAmount):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, payments.ErrPaymentInProgress):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "Order not found", http.StatusNotFound)
		default:
			h.Logger.Error("API", fmt.Sprintf("TakeDeposit: %v", err))
			http.Error(w, "Could not take the deposit", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payment)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "paymentId")

	payment, err := h.PaymentService.GetPayment(paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Payment not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("payment %s: %v", paymentID, err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, payment)
}

func (h *Handler) ListOrderPayments(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	found, err := h.PaymentService.ListPaymentsForOrder(orderID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrderPayments: %v", err))
		http.Error(w, "Could not list payments", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, found)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
