package products

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
)

var (
	ErrMissingName  = errors.New("product needs a name")
	ErrInvalidPrice = errors.New("product price must be positive")
)

// DBLayer is the product repository surface the service depends on.
type DBLayer interface {
	GetProductByID(id string) (*models.Product, error)
	CreateProduct(product models.Product) error
	UpdateProduct(product models.Product) error
	DeleteProduct(id string) error
	ListProducts(activeOnly bool, search string) ([]models.Product, error)
}

// FlavorChecker validates a product's flavor key against the live catalog.
type FlavorChecker interface {
	FlavorSurcharge(key string) (float64, error)
}

type Service struct {
	DB      DBLayer
	Flavors FlavorChecker
	Logger  *logger.Logger
}

func NewService(db DBLayer, flavors FlavorChecker, log *logger.Logger) *Service {
	return &Service{DB: db, Flavors: flavors, Logger: log}
}

func (s *Service) validate(product models.Product) error {
	if product.Name == "" {
		return ErrMissingName
	}
	if product.BasePrice <= 0 {
		return ErrInvalidPrice
	}
	if product.FlavorKey != "" && s.Flavors != nil {
		if _, err := s.Flavors.FlavorSurcharge(product.FlavorKey); err != nil {
			return fmt.Errorf("unknown flavor %q: %w", product.FlavorKey, err)
		}
	}
	return nil
}

// CreateProduct adds a standard cake to the catalog.
func (s *Service) CreateProduct(product models.Product) (*models.Product, error) {
	if err := s.validate(product); err != nil {
		return nil, err
	}
	if product.ProductID == "" {
		product.ProductID = uuid.NewString()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	if err := s.DB.CreateProduct(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.Logger.LogDatabase("INSERT", "products", "product "+product.ProductID+" created")
	return &product, nil
}

func (s *Service) GetProduct(id string) (*models.Product, error) {
	return s.DB.GetProductByID(id)
}

// ListProducts returns catalog products. The storefront asks for active
// only; the back office sees everything.
func (s *Service) ListProducts(activeOnly bool, search string) ([]models.Product, error) {
	return s.DB.ListProducts(activeOnly, search)
}

func (s *Service) UpdateProduct(product models.Product) error {
	if err := s.validate(product); err != nil {
		return err
	}
	if _, err := s.DB.GetProductByID(product.ProductID); err != nil {
		return fmt.Errorf("product not found: %w", err)
	}
	if err := s.DB.UpdateProduct(product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (s *Service) DeleteProduct(id string) error {
	if _, err := s.DB.GetProductByID(id); err != nil {
		return fmt.Errorf("product not found: %w", err)
	}
	return s.DB.DeleteProduct(id)
}
