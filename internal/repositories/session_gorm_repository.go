package repositories

import (
	"errors"
	"fmt"

	"eclat/internal/models"

	"gorm.io/gorm"
)

// The session is a singleton row; this is its fixed primary key.
const sessionRowID = 1

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db       *gorm.DB
	userRepo UserRepository
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB, userRepo UserRepository) *GORMSessionRepository {
	return &GORMSessionRepository{
		db:       db,
		userRepo: userRepo,
	}
}

// Current returns the logged-in user, or nil if no session exists.
func (r *GORMSessionRepository) Current() (*models.User, error) {
	var session models.Session
	if err := r.db.First(&session, "id = ?", sessionRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	user, err := r.userRepo.GetByID(session.UserID)
	if err != nil {
		// Session points at a user that no longer exists; treat as logged out.
		return nil, nil
	}
	return user, nil
}

// Set records userID as the current identity, replacing any previous one.
func (r *GORMSessionRepository) Set(userID string) error {
	session := models.Session{ID: sessionRowID, UserID: userID}
	if err := r.db.Save(&session).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear logs the current identity out.
func (r *GORMSessionRepository) Clear() error {
	if err := r.db.Delete(&models.Session{}, "id = ?", sessionRowID).Error; err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
