package product_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
	"ms-bakery/internal/products"
)

type Handler struct {
	ProductService *products.Service
	Logger         *logger.Logger
}

func NewHandler(productService *products.Service, log *logger.Logger) *Handler {
	return &Handler{
		ProductService: productService,
		Logger:         log,
	}
}

// ListProducts serves the storefront catalog page. Only active products
// unless all=true is passed by the back office.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	found, err := h.ProductService.ListProducts(activeOnly, r.URL.Query().Get("search"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListProducts: %v", err))
		http.Error(w, "Could not list products", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, found)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.ProductService.GetProduct(productID)
	if err != nil {
		h.respondProductError(w, productID, err)
		return
	}

	h.writeJSON(w, product)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.ProductService.CreateProduct(product)
	if err != nil {
		if errors.Is(err, products.ErrMissingName) || errors.Is(err, products.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("CreateProduct: %v", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	product.ProductID = productID

	if err := h.ProductService.UpdateProduct(product); err != nil {
		if errors.Is(err, products.ErrMissingName) || errors.Is(err, products.ErrInvalidPrice) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.respondProductError(w, productID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	if err := h.ProductService.DeleteProduct(productID); err != nil {
		h.respondProductError(w, productID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondProductError(w http.ResponseWriter, productID string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	h.Logger.Error("API", fmt.Sprintf("product %s: %v", productID, err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
