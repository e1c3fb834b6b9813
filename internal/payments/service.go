package payments

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ms-bakery/internal/config"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
	"ms-bakery/internal/utils"
)

var (
	ErrPaymentInProgress = errors.New("a deposit is already being taken for this order")
	ErrInvalidAmount     = errors.New("deposit amount must be positive and no more than the order total")
)

// DBLayer is the payment repository surface the service depends on.
type DBLayer interface {
	CreatePayment(payment models.Payment) error
	GetPaymentByID(id string) (*models.Payment, error)
	ListPaymentsByOrder(orderID string) ([]models.Payment, error)
	UpdatePaymentStatus(paymentID, status, intentID string) error
}

// OrderLookup resolves the order a deposit is taken against.
type OrderLookup interface {
	GetOrder(orderID string) (*models.Order, error)
}

// DepositLock serializes deposit attempts per order.
type DepositLock interface {
	Acquire(orderID, paymentID string) (bool, error)
	Release(orderID, paymentID string) error
}

// Service takes deposits against orders: half the order total by default,
// charged through the configured gateway under a per-order lock.
type Service struct {
	DB      DBLayer
	Orders  OrderLookup
	Lock    DepositLock
	Gateway Gateway
	Logger  *logger.Logger
	Config  config.StripeConfig
}

func NewService(db DBLayer, orders OrderLookup, lock DepositLock, gateway Gateway, log *logger.Logger, cfg config.StripeConfig) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Service{
		DB:      db,
		Orders:  orders,
		Lock:    lock,
		Gateway: gateway,
		Logger:  log,
		Config:  cfg,
	}
}

// TakeDeposit charges a deposit for an order. A zero amount means the
// standard deposit, half the order total.
func (s *Service) TakeDeposit(orderID string, amount float64) (*models.Payment, error) {
	order, err := s.Orders.GetOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	if amount == 0 {
		// Standard deposit is half the total, rounded to cents
		amount = math.Round(order.TotalAmount*50) / 100
	}
	if amount <= 0 || amount > order.TotalAmount {
		return nil, ErrInvalidAmount
	}

	paymentID := utils.GeneratePaymentID()

	acquired, err := s.Lock.Acquire(orderID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire deposit lock: %w", err)
	}
	if !acquired {
		return nil, ErrPaymentInProgress
	}
	defer func() {
		if err := s.Lock.Release(orderID, paymentID); err != nil {
			s.Logger.Error("PAYMENT", fmt.Sprintf("failed to release deposit lock for order %s: %v", orderID, err))
		}
	}()

	payment := models.Payment{
		PaymentID: paymentID,
		OrderID:   orderID,
		Amount:    amount,
		Currency:  s.Config.Currency,
		Status:    models.PaymentPending,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	result, err := s.Gateway.CreateDepositIntent(paymentID, orderID, amount, s.Config.Currency)
	if err != nil {
		// Keep the failed record for the accountant's reconciliation
		if dbErr := s.DB.UpdatePaymentStatus(paymentID, models.PaymentFailed, ""); dbErr != nil {
			s.Logger.Error("PAYMENT", fmt.Sprintf("failed to mark payment %s failed: %v", paymentID, dbErr))
		}
		return nil, fmt.Errorf("deposit failed: %w", err)
	}

	if err := s.DB.UpdatePaymentStatus(paymentID, result.Status, result.IntentID); err != nil {
		return nil, fmt.Errorf("failed to record payment outcome: %w", err)
	}

	payment.Status = result.Status
	payment.IntentID = result.IntentID

	s.Logger.Info("PAYMENT", fmt.Sprintf("deposit of %.2f %s taken for order %s (%s)", amount, payment.Currency, orderID, result.Status))
	return &payment, nil
}

// GetPayment returns one payment by id.
func (s *Service) GetPayment(paymentID string) (*models.Payment, error) {
	return s.DB.GetPaymentByID(paymentID)
}

// ListPaymentsForOrder returns every deposit attempt for an order.
func (s *Service) ListPaymentsForOrder(orderID string) ([]models.Payment, error) {
	return s.DB.ListPaymentsByOrder(orderID)
}
