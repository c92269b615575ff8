package repositories

import (
	"sync"
	"time"

	"eclat/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	snapshot *models.CartSnapshot
	mu       sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{}
}

// Load returns the saved snapshot, or nil if none exists.
func (r *MockCartRepository) Load() (*models.CartSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, nil
	}
	copied := *r.snapshot
	copied.Items = append([]models.CartItem(nil), r.snapshot.Items...)
	return &copied, nil
}

// Save overwrites the snapshot.
func (r *MockCartRepository) Save(snapshot *models.CartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *snapshot
	copied.Items = append([]models.CartItem(nil), snapshot.Items...)
	copied.UpdatedAt = time.Now()
	r.snapshot = &copied
	return nil
}

// Clear removes the snapshot.
func (r *MockCartRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
	return nil
}
