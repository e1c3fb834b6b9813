package board_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-bakery/internal/auth"
	"ms-bakery/internal/board"
	"ms-bakery/internal/logger"
)

type Handler struct {
	BoardService *board.Service
	Logger       *logger.Logger
}

func NewHandler(boardService *board.Service, log *logger.Logger) *Handler {
	return &Handler{
		BoardService: boardService,
		Logger:       log,
	}
}

// GetBoard returns the full board snapshot, optionally filtered by search.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	view, err := h.BoardService.LoadOrders(search)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetBoard: %v", err))
		http.Error(w, "Could not load the fulfillment board", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, view)
}

// MoveOrder handles a drag-and-drop between columns.
func (h *Handler) MoveOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID    string `json:"order_id"`
		FromColumn string `json:"from_column"`
		ToColumn   string `json:"to_column"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.OrderID == "" || req.FromColumn == "" || req.ToColumn == "" {
		http.Error(w, "order_id, from_column and to_column are required", http.StatusBadRequest)
		return
	}

	movedBy := ""
	if user, ok := auth.UserFromContext(r.Context()); ok {
		movedBy = user.UserID
	}

	view, err := h.BoardService.MoveOrder(req.OrderID, req.FromColumn, req.ToColumn, movedBy)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("MoveOrder: %v", err))
		http.Error(w, "Could not move the order", http.StatusInternalServerError)
		return
	}
	if view == nil {
		// No-op move with no cached board yet; fall back to a fresh load
		view, err = h.BoardService.Refresh()
		if err != nil {
			http.Error(w, "Could not load the fulfillment board", http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, view)
}

// RefreshBoard refetches the board with the current filter.
func (h *Handler) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	view, err := h.BoardService.Refresh()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("RefreshBoard: %v", err))
		http.Error(w, "Could not refresh the fulfillment board", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, view)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
