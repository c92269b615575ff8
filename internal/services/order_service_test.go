package services_test

import (
	"fmt"
	"testing"

	"eclat/internal/models"
	"eclat/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	// Test successful status update
	mockOrderRepo.On("UpdateStatus", "order-1", models.StatusShipped).Return(nil).Once()
	err := service.UpdateOrderStatus("order-1", models.StatusShipped)
	assert.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)

	// Any known status may be set in any order.
	mockOrderRepo.On("UpdateStatus", "order-1", models.StatusPending).Return(nil).Once()
	err = service.UpdateOrderStatus("order-1", models.StatusPending)
	assert.NoError(t, err)
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	err := service.UpdateOrderStatus("order-1", "Cancelled")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
	mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateOrderStatus_OrderNotFound(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockOrderRepo, new(MockProductRepository), nil)

	mockOrderRepo.On("UpdateStatus", "order-99", models.StatusDelivered).
		Return(fmt.Errorf("order with ID order-99 not found for status update")).Once()

	err := service.UpdateOrderStatus("order-99", models.StatusDelivered)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found for status update")
	mockOrderRepo.AssertExpectations(t)
}

func TestOrderService_Stats(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	mockOrderRepo.On("GetAll").Return([]models.Order{
		{ID: "o1", Total: 1200},
		{ID: "o2", Total: 550},
	}, nil).Once()
	mockProductRepo.On("GetAll").Return([]models.Product{
		{ID: "1", Stock: 15},
		{ID: "2", Stock: 5}, // at the threshold counts as low
		{ID: "3", Stock: 0},
	}, nil).Once()

	stats, err := service.Stats()
	assert.NoError(t, err)
	assert.Equal(t, 1750.0, stats.TotalRevenue)
	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, 3, stats.ProductCount)
	assert.Equal(t, 2, stats.LowStockCount)
	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}

func TestOrderService_Stats_EmptyStores(t *testing.T) {
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	service := services.NewOrderService(mockOrderRepo, mockProductRepo, nil)

	mockOrderRepo.On("GetAll").Return([]models.Order{}, nil).Once()
	mockProductRepo.On("GetAll").Return([]models.Product{}, nil).Once()

	stats, err := service.Stats()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, 0, stats.OrderCount)
	assert.Equal(t, 0, stats.ProductCount)
	assert.Equal(t, 0, stats.LowStockCount)
	mockOrderRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
}
