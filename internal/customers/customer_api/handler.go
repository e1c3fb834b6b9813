package customer_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/customers"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

type Handler struct {
	CustomerService *customers.Service
	Logger          *logger.Logger
}

func NewHandler(customerService *customers.Service, log *logger.Logger) *Handler {
	return &Handler{
		CustomerService: customerService,
		Logger:          log,
	}
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.CustomerService.CreateCustomer(customer)
	if err != nil {
		if errors.Is(err, customers.ErrMissingNameOrEmail) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("CreateCustomer: %v", err))
		http.Error(w, "Could not create customer", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	customer, err := h.CustomerService.GetCustomer(customerID)
	if err != nil {
		h.respondCustomerError(w, customerID, err)
		return
	}

	h.writeJSON(w, customer)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	found, err := h.CustomerService.ListCustomers(r.URL.Query().Get("search"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListCustomers: %v", err))
		http.Error(w, "Could not list customers", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, found)
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	customer.CustomerID = customerID

	if err := h.CustomerService.UpdateCustomer(customer); err != nil {
		if errors.Is(err, customers.ErrMissingNameOrEmail) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.respondCustomerError(w, customerID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")

	if err := h.CustomerService.DeleteCustomer(customerID); err != nil {
		h.respondCustomerError(w, customerID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondCustomerError(w http.ResponseWriter, customerID string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}
	h.Logger.Error("API", fmt.Sprintf("customer %s: %v", customerID, err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
