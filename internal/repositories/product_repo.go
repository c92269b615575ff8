package repositories

import (
	"eclat/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock reduces the product's stock by quantity, flooring at 0.
	// An unknown id is a silent no-op.
	DecrementStock(id string, quantity int) error
}
