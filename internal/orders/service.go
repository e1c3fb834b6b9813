package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

var (
	ErrMissingContact    = errors.New("order needs a contact name and email")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrNotCancellable    = errors.New("only pending orders can be cancelled")
	ErrNotReadyForPickup = errors.New("order is not ready for pickup")
	ErrAlreadyPickedUp   = errors.New("order was already picked up")
)

// DBLayer is the order repository surface the service depends on.
type DBLayer interface {
	CreateOrder(order models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	UpdateOrder(order models.Order) error
	UpdateOrderStatus(orderID, status string) error
	DeleteOrder(id string) error
	ListOrders(filter models.OrderFilter) (*models.OrderPage, error)
}

// KafkaPublisher streams order lifecycle events downstream.
type KafkaPublisher interface {
	PublishOrderCreated(event models.OrderCreatedEvent) error
}

// PickupCoder issues and verifies encrypted pickup QR codes.
type PickupCoder interface {
	GeneratePickupQR(payload models.PickupPayload) ([]byte, error)
	DecodePayload(encrypted string) (*models.PickupPayload, error)
}

// Service owns the order lifecycle: intake from the builder or the back
// office, status updates from the board, and pickup handoff.
type Service struct {
	DB     DBLayer
	Kafka  KafkaPublisher
	QR     PickupCoder
	Logger *logger.Logger
}

func NewService(db DBLayer, kafka KafkaPublisher, qr PickupCoder, log *logger.Logger) *Service {
	return &Service{
		DB:     db,
		Kafka:  kafka,
		QR:     qr,
		Logger: log,
	}
}

// PlaceOrder persists a new order and announces it on the created stream.
// The Kafka publish is best effort: a broker outage never loses an order.
func (s *Service) PlaceOrder(order models.Order) error {
	if order.ContactName == "" || order.ContactEmail == "" {
		return ErrMissingContact
	}

	if order.OrderID == "" {
		order.OrderID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if !models.IsValidStatus(order.Status) {
		return ErrInvalidStatus
	}
	if order.Priority == "" {
		order.Priority = models.PriorityNormal
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	if err := s.DB.CreateOrder(order); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("failed to create order %s: %v", order.OrderID, err))
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.Logger.LogOrder("CREATE", order.OrderID, fmt.Sprintf("%s cake for %s", order.Flavor, order.ContactName))

	if s.Kafka != nil {
		event := models.OrderCreatedEvent{
			OrderID:     order.OrderID,
			CustomerRef: order.CustomerRef,
			Occasion:    order.Occasion,
			Flavor:      order.Flavor,
			TotalAmount: order.TotalAmount,
			PickupDate:  order.PickupDate,
			CreatedAt:   order.CreatedAt,
		}
		if err := s.Kafka.PublishOrderCreated(event); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish created event for %s: %v", order.OrderID, err))
		}
	}

	return nil
}

// GetOrder returns one order by id.
func (s *Service) GetOrder(orderID string) (*models.Order, error) {
	return s.DB.GetOrderByID(orderID)
}

// ListOrders returns a filtered page of orders.
func (s *Service) ListOrders(filter models.OrderFilter) (*models.OrderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 250
	}
	return s.DB.ListOrders(filter)
}

// UpdateOrderStatus moves an order to a new production status.
func (s *Service) UpdateOrderStatus(orderID, status string) error {
	if !models.IsValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.DB.UpdateOrderStatus(orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	s.Logger.LogOrder("STATUS", orderID, "status set to "+status)
	return nil
}

// UpdateOrder saves back-office edits to an order's details.
func (s *Service) UpdateOrder(order models.Order) error {
	if _, err := s.DB.GetOrderByID(order.OrderID); err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	order.UpdatedAt = time.Now()
	if err := s.DB.UpdateOrder(order); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	s.Logger.LogOrder("UPDATE", order.OrderID, "order details updated")
	return nil
}

// CancelOrder removes an order that hasn't entered production yet.
func (s *Service) CancelOrder(orderID string) error {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if order.Status != models.StatusPending {
		return ErrNotCancellable
	}
	if err := s.DB.DeleteOrder(orderID); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	s.Logger.LogOrder("CANCEL", orderID, "pending order cancelled")
	return nil
}

// PickupQR renders the encrypted pickup code for an order that's ready to
// leave the shop.
func (s *Service) PickupQR(orderID string) ([]byte, error) {
	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if order.Status != models.StatusReady && order.Status != models.StatusCompleted {
		return nil, ErrNotReadyForPickup
	}

	payload := models.PickupPayload{
		OrderID:     order.OrderID,
		CustomerRef: order.CustomerRef,
		PickupDate:  order.PickupDate,
	}
	png, err := s.QR.GeneratePickupQR(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to generate pickup QR: %w", err)
	}
	return png, nil
}

// VerifyPickup validates a scanned code and hands the order over, marking
// it picked up.
func (s *Service) VerifyPickup(encrypted string) (*models.Order, error) {
	payload, err := s.QR.DecodePayload(encrypted)
	if err != nil {
		return nil, err
	}

	order, err := s.DB.GetOrderByID(payload.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if order.Status == models.StatusPickedUp {
		return nil, ErrAlreadyPickedUp
	}
	if order.Status != models.StatusReady && order.Status != models.StatusCompleted {
		return nil, ErrNotReadyForPickup
	}

	if err := s.DB.UpdateOrderStatus(order.OrderID, models.StatusPickedUp); err != nil {
		return nil, fmt.Errorf("failed to mark order picked up: %w", err)
	}
	order.Status = models.StatusPickedUp

	s.Logger.LogOrder("PICKUP", order.OrderID, "order handed over")
	return order, nil
}
