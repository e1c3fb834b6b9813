package customers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

var ErrMissingNameOrEmail = errors.New("customer needs a name and email")

// DBLayer is the customer repository surface the service depends on.
type DBLayer interface {
	GetCustomerByID(id string) (*models.Customer, error)
	GetCustomerByEmail(email string) (*models.Customer, error)
	CreateCustomer(customer models.Customer) error
	UpdateCustomer(customer models.Customer) error
	DeleteCustomer(id string) error
	ListCustomers(search string) ([]models.Customer, error)
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// CreateCustomer stores a new customer record.
func (s *Service) CreateCustomer(customer models.Customer) (*models.Customer, error) {
	if customer.Name == "" || customer.Email == "" {
		return nil, ErrMissingNameOrEmail
	}
	if customer.CustomerID == "" {
		customer.CustomerID = uuid.NewString()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}

	if err := s.DB.CreateCustomer(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.Logger.LogDatabase("INSERT", "customers", "customer "+customer.CustomerID+" created")
	return &customer, nil
}

// FindOrCreateByEmail reuses an existing record when a repeat customer
// places a new order through the storefront.
func (s *Service) FindOrCreateByEmail(name, email, phone string) (*models.Customer, error) {
	if existing, err := s.DB.GetCustomerByEmail(email); err == nil {
		return existing, nil
	}
	return s.CreateCustomer(models.Customer{Name: name, Email: email, Phone: phone})
}

func (s *Service) GetCustomer(id string) (*models.Customer, error) {
	return s.DB.GetCustomerByID(id)
}

func (s *Service) ListCustomers(search string) ([]models.Customer, error) {
	return s.DB.ListCustomers(search)
}

// UpdateCustomer saves edits to an existing record.
func (s *Service) UpdateCustomer(customer models.Customer) error {
	if customer.Name == "" || customer.Email == "" {
		return ErrMissingNameOrEmail
	}
	if _, err := s.DB.GetCustomerByID(customer.CustomerID); err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	if err := s.DB.UpdateCustomer(customer); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (s *Service) DeleteCustomer(id string) error {
	if _, err := s.DB.GetCustomerByID(id); err != nil {
		return fmt.Errorf("customer not found: %w", err)
	}
	return s.DB.DeleteCustomer(id)
}
