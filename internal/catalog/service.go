package catalog

import (
	"fmt"

	"ms-bakery/internal/models"
)

type DBLayer interface {
	GetFlavor(key string) (*models.Flavor, error)
	ListFlavors() ([]models.Flavor, error)
	GetDesign(key string) (*models.Design, error)
	ListDesigns() ([]models.Design, error)
}

// Service answers catalog lookups for the builder and the public pages.
type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

func (s *Service) Flavors() ([]models.Flavor, error) {
	return s.DB.ListFlavors()
}

func (s *Service) Designs() ([]models.Design, error) {
	return s.DB.ListDesigns()
}

// FlavorSurcharge returns the surcharge for a flavor key, or an error if the
// flavor is unknown or retired.
func (s *Service) FlavorSurcharge(key string) (float64, error) {
	flavor, err := s.DB.GetFlavor(key)
	if err != nil {
		return 0, fmt.Errorf("flavor %s not found: %w", key, err)
	}
	if !flavor.Active {
		return 0, fmt.Errorf("flavor %s is no longer offered", key)
	}
	return flavor.Surcharge, nil
}

// ValidateDesign checks that a design key exists and is active.
func (s *Service) ValidateDesign(key string) error {
	design, err := s.DB.GetDesign(key)
	if err != nil {
		return fmt.Errorf("design %s not found: %w", key, err)
	}
	if !design.Active {
		return fmt.Errorf("design %s is no longer offered", key)
	}
	return nil
}
