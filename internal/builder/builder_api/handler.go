package builder_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-bakery/internal/builder"
	builderredis "ms-bakery/internal/builder/redis"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

type Handler struct {
	BuilderService *builder.Service
	Previews       builder.PreviewStore
	Logger         *logger.Logger
}

func NewHandler(builderService *builder.Service, previews builder.PreviewStore, log *logger.Logger) *Handler {
	return &Handler{
		BuilderService: builderService,
		Previews:       previews,
		Logger:         log,
	}
}

// sessionView is what the storefront renders: the flow plus derived price.
type sessionView struct {
	SessionID      string            `json:"session_id"`
	Draft          models.OrderDraft `json:"draft"`
	Steps          models.StepState  `json:"steps"`
	EstimatedPrice float64           `json:"estimated_price"`
}

func (h *Handler) view(sessionID string, flow *builder.Flow) sessionView {
	price, err := h.BuilderService.EstimatedPrice(flow)
	if err != nil {
		// Unknown flavor keys shouldn't break rendering; fall back to base
		price = h.BuilderService.Config.BasePrice
	}
	return sessionView{
		SessionID:      sessionID,
		Draft:          flow.Draft,
		Steps:          flow.Steps,
		EstimatedPrice: price,
	}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, flow, err := h.BuilderService.StartSession(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("StartSession: %v", err))
		http.Error(w, "Could not start builder session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.view(sessionID, flow)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("StartSession: failed to encode response: %v", err))
	}
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	flow, err := h.BuilderService.Session(r.Context(), sessionID)
	if err != nil {
		h.respondSessionError(w, sessionID, err)
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

func (h *Handler) OpenStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	flow, err := h.BuilderService.OpenStep(r.Context(), sessionID, req.Step)
	if err != nil {
		h.respondSessionError(w, sessionID, err)
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

func (h *Handler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	flow, err := h.BuilderService.CompleteStep(r.Context(), sessionID, req.Step)
	if err != nil {
		var validationErr *builder.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.Logger.Warn("API", fmt.Sprintf("CompleteStep: validation failed: %v", err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":  "validation failed",
				"fields": validationErr.Fields,
				"view":   h.view(sessionID, flow),
			})
		case errors.Is(err, builder.ErrStepLocked):
			http.Error(w, "Step is locked", http.StatusConflict)
		case errors.Is(err, builderredis.ErrSessionNotFound):
			http.Error(w, "Builder session not found", http.StatusNotFound)
		default:
			h.Logger.Error("API", fmt.Sprintf("CompleteStep: %v", err))
			http.Error(w, "Could not complete step: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

func (h *Handler) SetOccasion(w http.ResponseWriter, r *http.Request) {
	h.applySetter(w, r, func(sessionID string, body map[string]string) (*builder.Flow, error) {
		return h.BuilderService.SetOccasion(r.Context(), sessionID, body["occasion"])
	})
}

func (h *Handler) SetFlavor(w http.ResponseWriter, r *http.Request) {
	h.applySetter(w, r, func(sessionID string, body map[string]string) (*builder.Flow, error) {
		return h.BuilderService.SetFlavor(r.Context(), sessionID, body["flavor"])
	})
}

func (h *Handler) SetDesign(w http.ResponseWriter, r *http.Request) {
	h.applySetter(w, r, func(sessionID string, body map[string]string) (*builder.Flow, error) {
		return h.BuilderService.SetDesign(r.Context(), sessionID, body["design"])
	})
}

func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req struct {
		Contact   models.Contact `json:"contact"`
		EventDate string         `json:"event_date"`
		Servings  int            `json:"servings"`
		Message   string         `json:"message"`
		Notes     string         `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	flow, err := h.BuilderService.SetDetails(r.Context(), sessionID, req.Contact, req.EventDate, req.Servings, req.Message, req.Notes)
	if err != nil {
		h.respondSetterError(w, sessionID, err)
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read image: "+err.Error(), http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	flow, slot, err := h.BuilderService.UploadImage(r.Context(), sessionID, header.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, builderredis.ErrSessionNotFound) {
			http.Error(w, "Builder session not found", http.StatusNotFound)
			return
		}
		// Rejections (type, size, slot count) were already toasted
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
			"view":  h.view(sessionID, flow),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"slot": slot,
		"view": h.view(sessionID, flow),
	})
}

func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		http.Error(w, "Invalid slot index", http.StatusBadRequest)
		return
	}

	flow, err := h.BuilderService.RemoveImage(r.Context(), sessionID, slot)
	if err != nil {
		h.respondSessionError(w, sessionID, err)
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

// ServePreview streams a stored preview back to the storefront.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	data, contentType, err := h.Previews.GetPreview(handle)
	if err != nil {
		http.Error(w, "Preview not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (h *Handler) applySetter(w http.ResponseWriter, r *http.Request, apply func(sessionID string, body map[string]string) (*builder.Flow, error)) {
	sessionID := chi.URLParam(r, "sessionId")

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	flow, err := apply(sessionID, body)
	if err != nil {
		h.respondSetterError(w, sessionID, err)
		return
	}

	h.writeJSON(w, h.view(sessionID, flow))
}

func (h *Handler) respondSetterError(w http.ResponseWriter, sessionID string, err error) {
	switch {
	case errors.Is(err, builderredis.ErrSessionNotFound):
		http.Error(w, "Builder session not found", http.StatusNotFound)
	case errors.Is(err, builder.ErrStepLocked):
		http.Error(w, "Step is locked", http.StatusConflict)
	default:
		h.Logger.Warn("API", fmt.Sprintf("setter rejected for session %s: %v", sessionID, err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (h *Handler) respondSessionError(w http.ResponseWriter, sessionID string, err error) {
	if errors.Is(err, builderredis.ErrSessionNotFound) {
		http.Error(w, "Builder session not found", http.StatusNotFound)
		return
	}
	h.Logger.Error("API", fmt.Sprintf("session %s: %v", sessionID, err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Error("API", fmt.Sprintf("failed to encode response: %v", err))
	}
}
