package services

import (
	"fmt"
	"sort"
	"strings"

	"eclat/internal/models"
	"eclat/internal/repositories"
)

// ProductSort names the supported catalog orderings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "priceAsc"
	SortPriceDesc ProductSort = "priceDesc"
)

// ProductFilter narrows and orders the catalog listing. Zero values mean
// "no constraint"; the zero sort is newest-first.
type ProductFilter struct {
	Search   string
	Category models.Category
	Material models.Material
	Featured bool
	SortBy   ProductSort
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// ListProducts retrieves products matching the filter, sorted per SortBy.
func (s *ProductService) ListProducts(filter ProductFilter) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Material != "" && p.Material != filter.Material {
			continue
		}
		if filter.Featured && !p.Featured {
			continue
		}
		filtered = append(filtered, p)
	}

	switch filter.SortBy {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	default: // newest first
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	}
	return filtered, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// AdjustStock changes a product's stock by delta, flooring at 0, and returns
// the updated product. Used by the back-office +/- controls.
func (s *ProductService) AdjustStock(id string, delta int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	stock := product.Stock + delta
	if stock < 0 {
		stock = 0
	}
	product.Stock = stock
	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", id, err)
	}
	return product, nil
}

// SetStock sets a product's stock to an absolute value, flooring at 0.
func (s *ProductService) SetStock(id string, stock int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if stock < 0 {
		stock = 0
	}
	product.Stock = stock
	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to set stock for product %s: %w", id, err)
	}
	return product, nil
}
