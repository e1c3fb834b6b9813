package builder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// Mock implementations for testing

type MemDraftStore struct {
	flows        map[string]*Flow
	shouldFailOn string
	errorMsg     string
}

func NewMemDraftStore() *MemDraftStore {
	return &MemDraftStore{flows: make(map[string]*Flow)}
}

func (m *MemDraftStore) Load(ctx context.Context, sessionID string) (*Flow, error) {
	if m.shouldFailOn == "Load" {
		return nil, errors.New(m.errorMsg)
	}
	flow, exists := m.flows[sessionID]
	if !exists {
		return nil, errors.New("builder session not found or expired")
	}
	// Return a copy so callers behave like they would against redis
	copied := *flow
	copied.Draft.Images = append([]models.ImageSlot{}, flow.Draft.Images...)
	copied.Steps.Completed = append([]int{}, flow.Steps.Completed...)
	return &copied, nil
}

func (m *MemDraftStore) Save(ctx context.Context, sessionID string, flow *Flow) error {
	if m.shouldFailOn == "Save" {
		return errors.New(m.errorMsg)
	}
	copied := *flow
	copied.Draft.Images = append([]models.ImageSlot{}, flow.Draft.Images...)
	copied.Steps.Completed = append([]int{}, flow.Steps.Completed...)
	m.flows[sessionID] = &copied
	return nil
}

func (m *MemDraftStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.flows, sessionID)
	return nil
}

type MockOrderPlacer struct {
	orders       []models.Order
	shouldFailOn string
	errorMsg     string
}

func (m *MockOrderPlacer) PlaceOrder(order models.Order) error {
	if m.shouldFailOn == "PlaceOrder" {
		return errors.New(m.errorMsg)
	}
	m.orders = append(m.orders, order)
	return nil
}

type MockToaster struct {
	successes []string
	errored   []string
	infos     []string
}

func (m *MockToaster) Success(message string) { m.successes = append(m.successes, message) }
func (m *MockToaster) Error(message string)   { m.errored = append(m.errored, message) }
func (m *MockToaster) Info(message string)    { m.infos = append(m.infos, message) }

type MockCatalog struct {
	surcharges map[string]float64
	designs    map[string]bool
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		surcharges: map[string]float64{"vanilla": 0, "almond": 8, "red-velvet": 12},
		designs:    map[string]bool{"classic": true, "rustic": true, "modern": true},
	}
}

func (m *MockCatalog) FlavorSurcharge(key string) (float64, error) {
	surcharge, ok := m.surcharges[key]
	if !ok {
		return 0, fmt.Errorf("flavor %s not found", key)
	}
	return surcharge, nil
}

func (m *MockCatalog) ValidateDesign(key string) error {
	if !m.designs[key] {
		return fmt.Errorf("design %s not found", key)
	}
	return nil
}

func setupService(t *testing.T) (*Service, *MemDraftStore, *MockOrderPlacer, *MockToaster, *MemoryPreviewStore) {
	t.Helper()

	drafts := NewMemDraftStore()
	orders := &MockOrderPlacer{}
	toasts := &MockToaster{}
	previews := NewMemoryPreviewStore()

	svc := NewService(drafts, orders, toasts, NewMockCatalog(), previews, logger.NewLogger(), config.BuilderConfig{
		BasePrice:     50,
		MaxImages:     5,
		MaxImageBytes: 5 * 1024 * 1024,
		UploadLatency: time.Millisecond,
	})
	svc.sleep = func(time.Duration) {}

	return svc, drafts, orders, toasts, previews
}

func TestHappyPathSubmitsOrderAndResets(t *testing.T) {
	svc, _, orders, toasts, _ := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.SetOccasion(ctx, sessionID, "birthday")
	require.NoError(t, err)
	flow, err := svc.CompleteStep(ctx, sessionID, StepOccasion)
	require.NoError(t, err)
	assert.Equal(t, StepFlavor, flow.Steps.OpenStep, "step 2 should unlock and open")

	_, err = svc.SetFlavor(ctx, sessionID, "almond")
	require.NoError(t, err)
	flow, err = svc.CompleteStep(ctx, sessionID, StepFlavor)
	require.NoError(t, err)

	price, err := svc.EstimatedPrice(flow)
	require.NoError(t, err)
	assert.Equal(t, 58.0, price, "base 50 + almond surcharge 8")

	_, err = svc.SetDesign(ctx, sessionID, "classic")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepDesign)
	require.NoError(t, err)

	contact := models.Contact{Name: "Jane", Email: "jane@x.com"}
	_, err = svc.SetDetails(ctx, sessionID, contact, "2025-12-01", 20, "Happy birthday!", "")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepDetails)
	require.NoError(t, err)

	flow, err = svc.CompleteStep(ctx, sessionID, StepReview)
	require.NoError(t, err)

	// Exactly one order with the accumulated draft
	require.Len(t, orders.orders, 1)
	order := orders.orders[0]
	assert.Equal(t, "birthday", order.Occasion)
	assert.Equal(t, "almond", order.Flavor)
	assert.Equal(t, "classic", order.Design)
	assert.Equal(t, "Jane", order.ContactName)
	assert.Equal(t, "jane@x.com", order.ContactEmail)
	assert.Equal(t, 20, order.Servings)
	assert.Equal(t, 58.0, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)

	// Exactly one success toast and a fully reset session
	assert.Len(t, toasts.successes, 1)
	assert.Empty(t, flow.Steps.Completed)
	assert.Equal(t, StepOccasion, flow.Steps.OpenStep)
	assert.Empty(t, flow.Draft.Occasion)
}

func TestBlockedAdvanceChangesNothing(t *testing.T) {
	svc, _, _, toasts, _ := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	flow, err := svc.OpenStep(ctx, sessionID, StepDesign)
	require.NoError(t, err)

	assert.Equal(t, StepOccasion, flow.Steps.OpenStep, "step 3 must stay locked")
	assert.Empty(t, toasts.errored, "blocked advance emits no notification")
	assert.Empty(t, toasts.successes)
}

func TestValidationFailureEmitsSingleErrorToast(t *testing.T) {
	svc, _, orders, toasts, _ := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.CompleteStep(ctx, sessionID, StepOccasion)
	require.Error(t, err)

	assert.Len(t, toasts.errored, 1)
	assert.Contains(t, toasts.errored[0], "occasion")
	assert.Empty(t, orders.orders, "validation failures never reach the order store")
}

func TestSubmitFailureKeepsDraftIntact(t *testing.T) {
	svc, drafts, orders, toasts, _ := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.SetOccasion(ctx, sessionID, "wedding")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepOccasion)
	require.NoError(t, err)
	_, err = svc.SetFlavor(ctx, sessionID, "red-velvet")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepFlavor)
	require.NoError(t, err)
	_, err = svc.SetDesign(ctx, sessionID, "rustic")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepDesign)
	require.NoError(t, err)
	_, err = svc.SetDetails(ctx, sessionID, models.Contact{Name: "Ann", Email: "ann@x.com"}, "2026-02-14", 80, "", "")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepDetails)
	require.NoError(t, err)

	orders.shouldFailOn = "PlaceOrder"
	orders.errorMsg = "store unavailable"

	_, err = svc.CompleteStep(ctx, sessionID, StepReview)
	require.Error(t, err)

	assert.Len(t, toasts.errored, 1)
	assert.Empty(t, toasts.successes)

	// The persisted draft survives so the customer can retry
	flow, err := drafts.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "wedding", flow.Draft.Occasion)
	assert.Equal(t, "red-velvet", flow.Draft.Flavor)
	assert.True(t, flow.Steps.IsCompleted(StepDetails))

	// Retry succeeds once the store recovers
	orders.shouldFailOn = ""
	_, err = svc.CompleteStep(ctx, sessionID, StepReview)
	require.NoError(t, err)
	assert.Len(t, orders.orders, 1)
}

func TestSubmitBeforeDetailsIsLocked(t *testing.T) {
	svc, _, orders, _, _ := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.CompleteStep(ctx, sessionID, StepReview)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Empty(t, orders.orders)
}

func TestUploadLifecycleAndToasts(t *testing.T) {
	svc, _, _, toasts, previews := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	// Rejected type
	_, _, err = svc.UploadImage(ctx, sessionID, "party.gif", "image/gif", []byte("gif"))
	require.Error(t, err)
	require.Len(t, toasts.errored, 1)
	assert.Equal(t, "Please upload JPG or PNG images only", toasts.errored[0])

	// Accepted upload
	flow, slot, err := svc.UploadImage(ctx, sessionID, "cake.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, 0, slot)
	assert.Equal(t, models.SlotFilled, flow.Draft.Images[0].State)
	assert.Equal(t, 1, previews.Count())
	assert.Len(t, toasts.successes, 1)

	// Removal releases the preview and emits an info toast
	flow, err = svc.RemoveImage(ctx, sessionID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.SlotEmpty, flow.Draft.Images[0].State)
	assert.Equal(t, 0, previews.Count())
	assert.Len(t, toasts.infos, 1)
}

func TestSubmitReleasesPreviews(t *testing.T) {
	svc, _, _, _, previews := setupService(t)
	ctx := context.Background()

	sessionID, _, err := svc.StartSession(ctx)
	require.NoError(t, err)

	_, err = svc.SetOccasion(ctx, sessionID, "birthday")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepOccasion)
	require.NoError(t, err)
	_, err = svc.SetFlavor(ctx, sessionID, "vanilla")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepFlavor)
	require.NoError(t, err)
	_, err = svc.SetDesign(ctx, sessionID, "modern")
	require.NoError(t, err)
	_, _, err = svc.UploadImage(ctx, sessionID, "idea.jpg", "image/jpeg", []byte("jpg"))
	require.NoError(t, err)
	require.Equal(t, 1, previews.Count())
	_, err = svc.CompleteStep(ctx, sessionID, StepDesign)
	require.NoError(t, err)
	_, err = svc.SetDetails(ctx, sessionID, models.Contact{Name: "Bo", Email: "bo@x.com"}, "2026-03-01", 12, "", "")
	require.NoError(t, err)
	_, err = svc.CompleteStep(ctx, sessionID, StepDetails)
	require.NoError(t, err)

	_, err = svc.CompleteStep(ctx, sessionID, StepReview)
	require.NoError(t, err)
	assert.Equal(t, 0, previews.Count(), "submit releases preview handles")
}
