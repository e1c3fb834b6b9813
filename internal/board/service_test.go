package board

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// MockOrderStore serves a fixed set of orders and records status updates.
type MockOrderStore struct {
	orders       []models.Order
	listCalls    int
	updateCalls  []string
	shouldFailOn string
	errorMsg     string
	lastFilter   models.OrderFilter
}

func (m *MockOrderStore) ListOrders(filter models.OrderFilter) (*models.OrderPage, error) {
	m.listCalls++
	m.lastFilter = filter
	if m.shouldFailOn == "ListOrders" {
		return nil, errors.New(m.errorMsg)
	}
	orders := make([]models.Order, len(m.orders))
	copy(orders, m.orders)
	return &models.OrderPage{Orders: orders, Total: len(orders)}, nil
}

func (m *MockOrderStore) UpdateOrderStatus(orderID, status string) error {
	m.updateCalls = append(m.updateCalls, orderID+":"+status)
	if m.shouldFailOn == "UpdateOrderStatus" {
		return errors.New(m.errorMsg)
	}
	for i := range m.orders {
		if m.orders[i].OrderID == orderID {
			m.orders[i].Status = status
		}
	}
	return nil
}

type MockToaster struct {
	successes []string
	failures  []string
}

func (m *MockToaster) Success(message string) { m.successes = append(m.successes, message) }
func (m *MockToaster) Error(message string)   { m.failures = append(m.failures, message) }

type MockPublisher struct {
	events       []models.OrderStatusEvent
	shouldFailOn string
	errorMsg     string
}

func (m *MockPublisher) PublishOrderStatusChanged(event models.OrderStatusEvent) error {
	if m.shouldFailOn == "PublishOrderStatusChanged" {
		return errors.New(m.errorMsg)
	}
	m.events = append(m.events, event)
	return nil
}

func setupService(orders ...models.Order) (*Service, *MockOrderStore, *MockToaster, *MockPublisher) {
	store := &MockOrderStore{orders: orders}
	toasts := &MockToaster{}
	events := &MockPublisher{}
	svc := NewService(store, toasts, events, logger.NewLogger(), config.BoardConfig{PageSize: 250})
	return svc, store, toasts, events
}

func order(id, status string) models.Order {
	return models.Order{OrderID: id, CustomerRef: "Dana", Status: status}
}

func TestLoadOrdersPartitionsIntoSixColumns(t *testing.T) {
	svc, store, _, _ := setupService(
		order("ORD-1", models.StatusPending),
		order("ORD-2", models.StatusInPrep),
		order("ORD-3", models.StatusInPrep),
		order("ORD-4", models.StatusPickedUp),
	)

	view, err := svc.LoadOrders("")
	require.NoError(t, err)

	require.Len(t, view.Columns, 6)
	assert.Equal(t, "pending", view.Columns[0].ID)
	assert.Equal(t, "picked_up", view.Columns[5].ID)

	counts := map[string]int{}
	for _, column := range view.Columns {
		counts[column.ID] = len(column.Orders)
	}
	assert.Equal(t, 1, counts["pending"])
	assert.Equal(t, 2, counts["in_prep"])
	assert.Equal(t, 0, counts["ready"])
	assert.Equal(t, 1, counts["picked_up"])
	assert.Equal(t, 4, view.Total)

	assert.Equal(t, 1, store.lastFilter.Page)
	assert.Equal(t, 250, store.lastFilter.PageSize)
}

func TestUnknownStatusLandsInPending(t *testing.T) {
	svc, _, _, _ := setupService(
		order("ORD-1", "on_hold"),
		order("ORD-2", models.StatusReady),
	)

	view, err := svc.LoadOrders("")
	require.NoError(t, err)

	require.Len(t, view.Columns[0].Orders, 1)
	assert.Equal(t, "ORD-1", view.Columns[0].Orders[0].OrderID)
}

func TestMoveToSameColumnIsNoOp(t *testing.T) {
	svc, store, toasts, _ := setupService(order("ORD-1", models.StatusPending))

	_, err := svc.LoadOrders("")
	require.NoError(t, err)
	listsBefore := store.listCalls

	view, err := svc.MoveOrder("ORD-1", "pending", "pending", "baker-1")
	require.NoError(t, err)

	assert.Empty(t, store.updateCalls)
	assert.Equal(t, listsBefore, store.listCalls)
	assert.Empty(t, toasts.successes)
	assert.Empty(t, toasts.failures)
	require.NotNil(t, view)
	assert.Len(t, view.Columns[0].Orders, 1)
}

func TestMoveOrderUpdatesStatusAndRefetches(t *testing.T) {
	svc, store, toasts, events := setupService(order("ORD-1", models.StatusPending))

	_, err := svc.LoadOrders("")
	require.NoError(t, err)
	listsBefore := store.listCalls

	view, err := svc.MoveOrder("ORD-1", "pending", "in_prep", "baker-1")
	require.NoError(t, err)

	// Exactly one store update, then a refetch
	require.Equal(t, []string{"ORD-1:in_prep"}, store.updateCalls)
	assert.Equal(t, listsBefore+1, store.listCalls)

	require.Len(t, toasts.successes, 1)
	assert.Contains(t, toasts.successes[0], "ORD-1")
	assert.Contains(t, toasts.successes[0], "in_prep")

	require.Len(t, events.events, 1)
	assert.Equal(t, models.StatusPending, events.events[0].FromStatus)
	assert.Equal(t, models.StatusInPrep, events.events[0].ToStatus)
	assert.Equal(t, "baker-1", events.events[0].MovedBy)

	// The refetched view shows the order in its new column
	assert.Empty(t, view.Columns[0].Orders)
	require.Len(t, view.Columns[1].Orders, 1)
	assert.Equal(t, "ORD-1", view.Columns[1].Orders[0].OrderID)
}

func TestMoveBackwardIsAllowed(t *testing.T) {
	svc, store, _, _ := setupService(order("ORD-1", models.StatusReady))

	_, err := svc.LoadOrders("")
	require.NoError(t, err)

	view, err := svc.MoveOrder("ORD-1", "ready", "in_prep", "baker-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"ORD-1:in_prep"}, store.updateCalls)
	require.Len(t, view.Columns[1].Orders, 1)
}

func TestFailedMoveToastsWithoutRollback(t *testing.T) {
	svc, store, toasts, events := setupService(order("ORD-1", models.StatusPending))
	store.shouldFailOn = "UpdateOrderStatus"
	store.errorMsg = "connection reset"

	_, err := svc.LoadOrders("")
	require.NoError(t, err)
	listsBefore := store.listCalls

	_, err = svc.MoveOrder("ORD-1", "pending", "ready", "baker-1")
	require.Error(t, err)

	require.Len(t, toasts.failures, 1)
	assert.Contains(t, toasts.failures[0], "ORD-1")
	assert.Empty(t, toasts.successes)
	assert.Empty(t, events.events)
	// No compensating refetch on failure
	assert.Equal(t, listsBefore, store.listCalls)
}

func TestMoveRejectsUnknownColumn(t *testing.T) {
	svc, store, _, _ := setupService(order("ORD-1", models.StatusPending))

	_, err := svc.MoveOrder("ORD-1", "pending", "shipped", "baker-1")
	require.Error(t, err)
	assert.Empty(t, store.updateCalls)
}

func TestPublishFailureDoesNotUndoMove(t *testing.T) {
	svc, store, toasts, events := setupService(order("ORD-1", models.StatusPending))
	events.shouldFailOn = "PublishOrderStatusChanged"
	events.errorMsg = "broker down"

	view, err := svc.MoveOrder("ORD-1", "pending", "in_prep", "baker-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"ORD-1:in_prep"}, store.updateCalls)
	require.Len(t, toasts.successes, 1)
	require.Len(t, view.Columns[1].Orders, 1)
}

func TestRefreshKeepsSearchFilter(t *testing.T) {
	svc, store, _, _ := setupService(order("ORD-1", models.StatusPending))

	_, err := svc.LoadOrders("dana")
	require.NoError(t, err)

	_, err = svc.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "dana", store.lastFilter.Search)
}

func TestColumnMappingCoversAllStatuses(t *testing.T) {
	for i, status := range models.OrderStatuses {
		column := Columns()[i]
		assert.Equal(t, status, column.Status, fmt.Sprintf("column %s", column.ID))
		assert.Equal(t, column.ID, ColumnForStatus(status))
	}
	assert.Equal(t, "pending", ColumnForStatus("garbage"))
}
