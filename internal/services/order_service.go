package services

import (
	"encoding/json"
	"fmt"
	"log"

	"eclat/internal/models"
	"eclat/internal/repositories"
)

// Products with stock at or below this show up in the back-office low-stock
// counter.
const lowStockThreshold = 5

// DashboardStats is the back-office overview.
type DashboardStats struct {
	TotalRevenue  float64 `json:"total_revenue"`
	OrderCount    int     `json:"order_count"`
	ProductCount  int     `json:"product_count"`
	LowStockCount int     `json:"low_stock_count"`
}

// OrderService handles back-office order management. Order creation itself
// belongs to the checkout engine (CartService).
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus sets the status of an existing order. Any of the known
// statuses may be set in any order; the lifecycle is administered, not
// enforced.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"order_id": id,
			"status":   status,
		}
		body, err := json.Marshal(event)
		if err != nil {
			log.Printf("Failed to marshal status event: %v", err)
		} else if err := s.publisher.Publish("order.status_changed", body); err != nil {
			log.Printf("Warning: failed to publish order.status_changed for order %s: %v", id, err)
		}
	}

	return nil
}

// Stats computes the dashboard overview from the order and product stores.
func (s *OrderService) Stats() (*DashboardStats, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for stats: %w", err)
	}
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products for stats: %w", err)
	}

	stats := &DashboardStats{
		OrderCount:   len(orders),
		ProductCount: len(products),
	}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
	}
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			stats.LowStockCount++
		}
	}
	return stats, nil
}
