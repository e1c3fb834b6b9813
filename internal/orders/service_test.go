package orders

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

// MockDB is an in-memory DBLayer with switchable failures.
type MockDB struct {
	orders       map[string]models.Order
	shouldFailOn string
	errorMsg     string
}

func NewMockDB() *MockDB {
	return &MockDB{orders: make(map[string]models.Order)}
}

func (m *MockDB) CreateOrder(order models.Order) error {
	if m.shouldFailOn == "CreateOrder" {
		return errors.New(m.errorMsg)
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockDB) GetOrderByID(id string) (*models.Order, error) {
	if m.shouldFailOn == "GetOrderByID" {
		return nil, errors.New(m.errorMsg)
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &order, nil
}

func (m *MockDB) UpdateOrder(order models.Order) error {
	if m.shouldFailOn == "UpdateOrder" {
		return errors.New(m.errorMsg)
	}
	m.orders[order.OrderID] = order
	return nil
}

func (m *MockDB) UpdateOrderStatus(orderID, status string) error {
	if m.shouldFailOn == "UpdateOrderStatus" {
		return errors.New(m.errorMsg)
	}
	order, ok := m.orders[orderID]
	if !ok {
		return sql.ErrNoRows
	}
	order.Status = status
	m.orders[orderID] = order
	return nil
}

func (m *MockDB) DeleteOrder(id string) error {
	if m.shouldFailOn == "DeleteOrder" {
		return errors.New(m.errorMsg)
	}
	delete(m.orders, id)
	return nil
}

func (m *MockDB) ListOrders(filter models.OrderFilter) (*models.OrderPage, error) {
	if m.shouldFailOn == "ListOrders" {
		return nil, errors.New(m.errorMsg)
	}
	var orders []models.Order
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	return &models.OrderPage{Orders: orders, Total: len(orders)}, nil
}

type MockKafka struct {
	created      []models.OrderCreatedEvent
	shouldFailOn string
	errorMsg     string
}

func (m *MockKafka) PublishOrderCreated(event models.OrderCreatedEvent) error {
	if m.shouldFailOn == "PublishOrderCreated" {
		return errors.New(m.errorMsg)
	}
	m.created = append(m.created, event)
	return nil
}

type MockQR struct {
	payloads map[string]models.PickupPayload
}

func NewMockQR() *MockQR {
	return &MockQR{payloads: make(map[string]models.PickupPayload)}
}

func (m *MockQR) GeneratePickupQR(payload models.PickupPayload) ([]byte, error) {
	m.payloads["code-"+payload.OrderID] = payload
	return []byte("png-bytes"), nil
}

func (m *MockQR) DecodePayload(encrypted string) (*models.PickupPayload, error) {
	payload, ok := m.payloads[encrypted]
	if !ok {
		return nil, errors.New("pickup code is invalid")
	}
	return &payload, nil
}

func setupService() (*Service, *MockDB, *MockKafka, *MockQR) {
	db := NewMockDB()
	kafka := &MockKafka{}
	qr := NewMockQR()
	svc := NewService(db, kafka, qr, logger.NewLogger())
	return svc, db, kafka, qr
}

func validOrder() models.Order {
	return models.Order{
		OrderID:      "order-1",
		CustomerRef:  "Dana",
		Occasion:     "birthday",
		Flavor:       "almond",
		ContactName:  "Dana",
		ContactEmail: "dana@example.com",
		TotalAmount:  58,
		PickupDate:   time.Now().Add(72 * time.Hour),
	}
}

func TestPlaceOrderDefaultsAndPublishes(t *testing.T) {
	svc, db, kafka, _ := setupService()

	order := validOrder()
	order.OrderID = ""
	require.NoError(t, svc.PlaceOrder(order))

	require.Len(t, db.orders, 1)
	for _, stored := range db.orders {
		assert.NotEmpty(t, stored.OrderID)
		assert.Equal(t, models.StatusPending, stored.Status)
		assert.Equal(t, models.PriorityNormal, stored.Priority)
		assert.False(t, stored.CreatedAt.IsZero())
	}

	require.Len(t, kafka.created, 1)
	assert.Equal(t, "almond", kafka.created[0].Flavor)
}

func TestPlaceOrderRequiresContact(t *testing.T) {
	svc, db, _, _ := setupService()

	order := validOrder()
	order.ContactEmail = ""
	err := svc.PlaceOrder(order)
	assert.ErrorIs(t, err, ErrMissingContact)
	assert.Empty(t, db.orders)
}

func TestPlaceOrderSurvivesKafkaOutage(t *testing.T) {
	svc, db, kafka, _ := setupService()
	kafka.shouldFailOn = "PublishOrderCreated"
	kafka.errorMsg = "broker down"

	require.NoError(t, svc.PlaceOrder(validOrder()))
	assert.Len(t, db.orders, 1)
}

func TestUpdateOrderStatusValidates(t *testing.T) {
	svc, db, _, _ := setupService()
	require.NoError(t, db.CreateOrder(validOrder()))

	err := svc.UpdateOrderStatus("order-1", "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, svc.UpdateOrderStatus("order-1", models.StatusInPrep))
	assert.Equal(t, models.StatusInPrep, db.orders["order-1"].Status)
}

func TestCancelOrderOnlyWhilePending(t *testing.T) {
	svc, db, _, _ := setupService()

	order := validOrder()
	order.Status = models.StatusPending
	require.NoError(t, db.CreateOrder(order))
	require.NoError(t, svc.CancelOrder("order-1"))
	assert.Empty(t, db.orders)

	inPrep := validOrder()
	inPrep.OrderID = "order-2"
	inPrep.Status = models.StatusInPrep
	require.NoError(t, db.CreateOrder(inPrep))
	err := svc.CancelOrder("order-2")
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Len(t, db.orders, 1)
}

func TestPickupQRRequiresReadyOrder(t *testing.T) {
	svc, db, _, _ := setupService()

	order := validOrder()
	order.Status = models.StatusInPrep
	require.NoError(t, db.CreateOrder(order))

	_, err := svc.PickupQR("order-1")
	assert.ErrorIs(t, err, ErrNotReadyForPickup)

	require.NoError(t, db.UpdateOrderStatus("order-1", models.StatusReady))
	png, err := svc.PickupQR("order-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), png)
}

func TestVerifyPickupMarksOrderPickedUp(t *testing.T) {
	svc, db, _, _ := setupService()

	order := validOrder()
	order.Status = models.StatusReady
	require.NoError(t, db.CreateOrder(order))

	_, err := svc.PickupQR("order-1")
	require.NoError(t, err)

	picked, err := svc.VerifyPickup("code-order-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPickedUp, picked.Status)
	assert.Equal(t, models.StatusPickedUp, db.orders["order-1"].Status)

	// Scanning the same code twice is refused
	_, err = svc.VerifyPickup("code-order-1")
	assert.ErrorIs(t, err, ErrAlreadyPickedUp)
}

func TestVerifyPickupRejectsUnknownCode(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.VerifyPickup("bogus")
	assert.Error(t, err)
}
