package repositories

import (
	"sync"

	"eclat/internal/models"
)

// MockSessionRepository is an in-memory implementation of SessionRepository.
type MockSessionRepository struct {
	userRepo UserRepository
	userID   string
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository(userRepo UserRepository) *MockSessionRepository {
	return &MockSessionRepository{userRepo: userRepo}
}

// Current returns the logged-in user, or nil if no session exists.
func (r *MockSessionRepository) Current() (*models.User, error) {
	r.mu.RLock()
	id := r.userID
	r.mu.RUnlock()

	if id == "" {
		return nil, nil
	}
	user, err := r.userRepo.GetByID(id)
	if err != nil {
		return nil, nil
	}
	return user, nil
}

// Set records userID as the current identity.
func (r *MockSessionRepository) Set(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = userID
	return nil
}

// Clear logs the current identity out.
func (r *MockSessionRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = ""
	return nil
}
