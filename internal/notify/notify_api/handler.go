package notify_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/notify"
)

// Handler exposes the notification center over HTTP: a snapshot of active
// toasts plus an SSE stream the admin shell subscribes to.
type Handler struct {
	Toaster *notify.Toaster
	Logger  *logger.Logger
}

func NewHandler(toaster *notify.Toaster, log *logger.Logger) *Handler {
	return &Handler{
		Toaster: toaster,
		Logger:  log,
	}
}

// ListActive returns the currently visible toasts.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Toaster.Active()); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode toasts: %v", err))
	}
}

// Dismiss removes one toast before its timer fires.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.Toaster.Dismiss(chi.URLParam(r, "toastId"))
	w.WriteHeader(http.StatusNoContent)
}

// Stream pushes every new toast to the client as a server-sent event.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	h.setupSSEHeaders(w)

	ctx := r.Context()
	toastChan := h.Toaster.Subscribe(ctx)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	h.Logger.Info("SSE", "client connected to notification stream")

	for {
		select {
		case toast, ok := <-toastChan:
			if !ok {
				return
			}

			jsonData, err := json.Marshal(toast)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("failed to serialize toast: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: toast\ndata: %s\n\n", jsonData)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "client disconnected from notification stream")
			return
		}
	}
}

func (h *Handler) setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
