package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// DraftStore persists wizard sessions between requests.
type DraftStore interface {
	Load(ctx context.Context, sessionID string) (*Flow, error)
	Save(ctx context.Context, sessionID string, flow *Flow) error
	Delete(ctx context.Context, sessionID string) error
}

// OrderPlacer accepts a finished draft as a new order.
type OrderPlacer interface {
	PlaceOrder(order models.Order) error
}

// Notifier is the toast sink; delivery is fire-and-forget.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Catalog validates flavor and design keys against the live catalog.
type Catalog interface {
	FlavorSurcharge(key string) (float64, error)
	ValidateDesign(key string) error
}

// Service runs the five-step custom order wizard: it loads the session's
// flow, applies one transition, persists the result, and emits toasts for
// the outcomes the customer needs to see.
type Service struct {
	Drafts   DraftStore
	Orders   OrderPlacer
	Toasts   Notifier
	Catalog  Catalog
	Previews PreviewStore
	Logger   *logger.Logger
	Config   config.BuilderConfig

	// overridable in tests so upload latency doesn't slow the suite
	sleep func(time.Duration)
}

func NewService(drafts DraftStore, orders OrderPlacer, toasts Notifier, catalog Catalog, previews PreviewStore, log *logger.Logger, cfg config.BuilderConfig) *Service {
	if cfg.BasePrice <= 0 {
		cfg.BasePrice = 50
	}
	if cfg.MaxImages <= 0 {
		cfg.MaxImages = 5
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 * 1024 * 1024
	}
	return &Service{
		Drafts:   drafts,
		Orders:   orders,
		Toasts:   toasts,
		Catalog:  catalog,
		Previews: previews,
		Logger:   log,
		Config:   cfg,
		sleep:    time.Sleep,
	}
}

// StartSession creates a fresh wizard session and returns its id.
func (s *Service) StartSession(ctx context.Context) (string, *Flow, error) {
	sessionID := uuid.NewString()
	flow := NewFlow(s.Config.MaxImages, s.Config.MaxImageBytes)

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return "", nil, fmt.Errorf("failed to start builder session: %w", err)
	}

	s.Logger.LogBuilder(sessionID, "session started")
	return sessionID, flow, nil
}

// Session returns the current flow state for a session.
func (s *Service) Session(ctx context.Context, sessionID string) (*Flow, error) {
	return s.Drafts.Load(ctx, sessionID)
}

// OpenStep expands or collapses a step. Opening a locked step changes
// nothing and emits no toast; the UI simply keeps the step closed.
func (s *Service) OpenStep(ctx context.Context, sessionID string, step int) (*Flow, error) {
	flow, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !flow.OpenStep(step) {
		s.Logger.LogBuilder(sessionID, fmt.Sprintf("open step %d refused: locked", step))
		return flow, nil
	}

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, err
	}
	return flow, nil
}

// CompleteStep validates and completes a step, unlocking the next one.
// Completing the review step submits the order.
func (s *Service) CompleteStep(ctx context.Context, sessionID string, step int) (*Flow, error) {
	flow, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if step == StepReview {
		return s.submit(ctx, sessionID, flow)
	}

	if err := flow.CompleteStep(step); err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			s.Toasts.Error("Missing required fields: " + strings.Join(validationErr.Fields, ", "))
		}
		return flow, err
	}

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, err
	}

	s.Logger.LogBuilder(sessionID, fmt.Sprintf("step %d completed", step))
	return flow, nil
}

// submit sends the accumulated draft to the order store. Success resets the
// session so the wizard can be reused; failure keeps the draft intact so the
// customer can retry without re-entering anything.
func (s *Service) submit(ctx context.Context, sessionID string, flow *Flow) (*Flow, error) {
	if !flow.CanOpen(StepReview) {
		return flow, ErrStepLocked
	}

	price, err := s.EstimatedPrice(flow)
	if err != nil {
		s.Toasts.Error("We couldn't price your order. Please review your flavor choice.")
		return flow, err
	}

	order := models.Order{
		OrderID:      uuid.NewString(),
		CustomerRef:  flow.Draft.Contact.Name,
		Occasion:     flow.Draft.Occasion,
		Flavor:       flow.Draft.Flavor,
		Design:       flow.Draft.Design,
		Message:      flow.Draft.Message,
		Notes:        flow.Draft.Notes,
		Servings:     flow.Draft.Servings,
		PickupDate:   flow.Draft.EventDate,
		Priority:     models.PriorityNormal,
		Status:       models.StatusPending,
		TotalAmount:  price,
		ContactName:  flow.Draft.Contact.Name,
		ContactEmail: flow.Draft.Contact.Email,
		ContactPhone: flow.Draft.Contact.Phone,
		CreatedAt:    time.Now(),
	}

	if err := s.Orders.PlaceOrder(order); err != nil {
		s.Logger.Error("BUILDER", fmt.Sprintf("submit failed for session %s: %v", sessionID, err))
		s.Toasts.Error("We couldn't submit your order. Please try again.")
		return flow, fmt.Errorf("failed to submit order: %w", err)
	}

	// Release preview resources before wiping the draft
	for _, handle := range flow.PreviewHandles() {
		s.Previews.ReleasePreview(handle)
	}

	flow.Reset()
	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		s.Logger.Error("BUILDER", fmt.Sprintf("failed to reset session %s after submit: %v", sessionID, err))
	}

	s.Logger.LogOrder("SUBMIT", order.OrderID, "custom order submitted from builder")
	s.Toasts.Success("Your order has been received! We'll be in touch soon.")
	return flow, nil
}

// EstimatedPrice derives the running price: base price plus the selected
// flavor's surcharge.
func (s *Service) EstimatedPrice(flow *Flow) (float64, error) {
	if flow.Draft.Flavor == "" {
		return s.Config.BasePrice, nil
	}
	surcharge, err := s.Catalog.FlavorSurcharge(flow.Draft.Flavor)
	if err != nil {
		return 0, err
	}
	return s.Config.BasePrice + surcharge, nil
}

// ---------------- STEP SETTERS ----------------

func (s *Service) SetOccasion(ctx context.Context, sessionID, occasion string) (*Flow, error) {
	return s.mutate(ctx, sessionID, func(flow *Flow) error {
		return flow.SetOccasion(occasion)
	})
}

func (s *Service) SetFlavor(ctx context.Context, sessionID, flavor string) (*Flow, error) {
	return s.mutate(ctx, sessionID, func(flow *Flow) error {
		if _, err := s.Catalog.FlavorSurcharge(flavor); err != nil {
			return err
		}
		return flow.SetFlavor(flavor)
	})
}

func (s *Service) SetDesign(ctx context.Context, sessionID, design string) (*Flow, error) {
	return s.mutate(ctx, sessionID, func(flow *Flow) error {
		if err := s.Catalog.ValidateDesign(design); err != nil {
			return err
		}
		return flow.SetDesign(design)
	})
}

func (s *Service) SetDetails(ctx context.Context, sessionID string, contact models.Contact, eventDate string, servings int, message, notes string) (*Flow, error) {
	return s.mutate(ctx, sessionID, func(flow *Flow) error {
		return flow.SetDetails(contact, eventDate, servings, message, notes)
	})
}

func (s *Service) mutate(ctx context.Context, sessionID string, apply func(*Flow) error) (*Flow, error) {
	flow, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := apply(flow); err != nil {
		return flow, err
	}
	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, err
	}
	return flow, nil
}

// ---------------- IMAGE UPLOADS ----------------

// UploadImage validates and stores one inspiration image. The slot passes
// through a transient uploading state with simulated latency before
// resolving to filled, mirroring the storefront's upload feel.
func (s *Service) UploadImage(ctx context.Context, sessionID, fileName, contentType string, data []byte) (*Flow, int, error) {
	flow, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, -1, err
	}

	slot, err := flow.BeginUpload(fileName, contentType, int64(len(data)))
	if err != nil {
		s.Toasts.Error(err.Error())
		return flow, -1, err
	}

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, -1, err
	}

	s.sleep(s.Config.UploadLatency)

	handle, err := s.Previews.CreatePreview(data, contentType)
	if err != nil {
		// Roll the slot back to empty; the upload never completed
		flow.Draft.Images[slot] = models.ImageSlot{State: models.SlotEmpty}
		_ = s.Drafts.Save(ctx, sessionID, flow)
		s.Toasts.Error("Upload failed. Please try again.")
		return flow, -1, fmt.Errorf("failed to create preview: %w", err)
	}

	if err := flow.FinishUpload(slot, handle); err != nil {
		s.Previews.ReleasePreview(handle)
		return flow, -1, err
	}

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, -1, err
	}

	s.Logger.LogBuilder(sessionID, fmt.Sprintf("image %q uploaded to slot %d", fileName, slot))
	s.Toasts.Success("Image uploaded")
	return flow, slot, nil
}

// RemoveImage clears a filled slot, releasing its preview resource.
func (s *Service) RemoveImage(ctx context.Context, sessionID string, slot int) (*Flow, error) {
	flow, err := s.Drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	handle, err := flow.RemoveImage(slot)
	if err != nil {
		return flow, err
	}
	s.Previews.ReleasePreview(handle)

	if err := s.Drafts.Save(ctx, sessionID, flow); err != nil {
		return nil, err
	}

	s.Toasts.Info("Image removed")
	return flow, nil
}
