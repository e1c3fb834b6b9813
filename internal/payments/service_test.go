package payments

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

type MockDB struct {
	payments     map[string]models.Payment
	shouldFailOn string
	errorMsg     string
}

func NewMockDB() *MockDB {
	return &MockDB{payments: make(map[string]models.Payment)}
}

func (m *MockDB) CreatePayment(payment models.Payment) error {
	if m.shouldFailOn == "CreatePayment" {
		return errors.New(m.errorMsg)
	}
	m.payments[payment.PaymentID] = payment
	return nil
}

func (m *MockDB) GetPaymentByID(id string) (*models.Payment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &payment, nil
}

func (m *MockDB) ListPaymentsByOrder(orderID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range m.payments {
		if payment.OrderID == orderID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (m *MockDB) UpdatePaymentStatus(paymentID, status, intentID string) error {
	if m.shouldFailOn == "UpdatePaymentStatus" {
		return errors.New(m.errorMsg)
	}
	payment := m.payments[paymentID]
	payment.Status = status
	payment.IntentID = intentID
	m.payments[paymentID] = payment
	return nil
}

type MockOrders struct {
	orders map[string]models.Order
}

func (m *MockOrders) GetOrder(orderID string) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &order, nil
}

type MockLock struct {
	held     map[string]string
	released []string
}

func NewMockLock() *MockLock {
	return &MockLock{held: make(map[string]string)}
}

func (m *MockLock) Acquire(orderID, paymentID string) (bool, error) {
	if _, taken := m.held[orderID]; taken {
		return false, nil
	}
	m.held[orderID] = paymentID
	return true, nil
}

func (m *MockLock) Release(orderID, paymentID string) error {
	if m.held[orderID] == paymentID {
		delete(m.held, orderID)
		m.released = append(m.released, orderID)
	}
	return nil
}

type MockGatewayRecorder struct {
	calls        int
	shouldFailOn string
	errorMsg     string
	lastAmount   float64
}

func (m *MockGatewayRecorder) CreateDepositIntent(paymentID, orderID string, amount float64, currency string) (*IntentResult, error) {
	m.calls++
	m.lastAmount = amount
	if m.shouldFailOn == "CreateDepositIntent" {
		return nil, errors.New(m.errorMsg)
	}
	return &IntentResult{IntentID: "pi_test", Status: models.PaymentSucceeded}, nil
}

func setupService() (*Service, *MockDB, *MockLock, *MockGatewayRecorder) {
	db := NewMockDB()
	lock := NewMockLock()
	gateway := &MockGatewayRecorder{}
	orders := &MockOrders{orders: map[string]models.Order{
		"order-1": {OrderID: "order-1", TotalAmount: 100, Status: models.StatusPending},
	}}
	svc := NewService(db, orders, lock, gateway, logger.NewLogger(), config.StripeConfig{Currency: "usd"})
	return svc, db, lock, gateway
}

func TestTakeDepositDefaultsToHalfTotal(t *testing.T) {
	svc, db, lock, gateway := setupService()

	payment, err := svc.TakeDeposit("order-1", 0)
	require.NoError(t, err)

	assert.Equal(t, 50.0, payment.Amount)
	assert.Equal(t, 50.0, gateway.lastAmount)
	assert.Equal(t, models.PaymentSucceeded, payment.Status)
	assert.Equal(t, "pi_test", payment.IntentID)
	assert.Equal(t, models.PaymentSucceeded, db.payments[payment.PaymentID].Status)

	// Lock was released after the charge
	assert.Empty(t, lock.held)
	assert.Equal(t, []string{"order-1"}, lock.released)
}

func TestTakeDepositRejectsBadAmounts(t *testing.T) {
	svc, db, _, gateway := setupService()

	_, err := svc.TakeDeposit("order-1", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.TakeDeposit("order-1", 150)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, db.payments)
	assert.Equal(t, 0, gateway.calls)
}

func TestTakeDepositRefusedWhileLocked(t *testing.T) {
	svc, _, lock, gateway := setupService()
	lock.held["order-1"] = "someone-else"

	_, err := svc.TakeDeposit("order-1", 25)
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	assert.Equal(t, 0, gateway.calls)
}

func TestGatewayFailureMarksPaymentFailed(t *testing.T) {
	svc, db, lock, gateway := setupService()
	gateway.shouldFailOn = "CreateDepositIntent"
	gateway.errorMsg = "card declined"

	_, err := svc.TakeDeposit("order-1", 25)
	require.Error(t, err)

	// The failed attempt stays on record for reconciliation
	require.Len(t, db.payments, 1)
	for _, payment := range db.payments {
		assert.Equal(t, models.PaymentFailed, payment.Status)
	}
	assert.Empty(t, lock.held)
}

func TestTakeDepositUnknownOrder(t *testing.T) {
	svc, _, _, _ := setupService()

	_, err := svc.TakeDeposit("no-such-order", 25)
	assert.Error(t, err)
}
