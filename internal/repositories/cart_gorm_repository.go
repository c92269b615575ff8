package repositories

import (
	"errors"
	"fmt"

	"eclat/internal/models"

	"gorm.io/gorm"
)

// The cart snapshot is a singleton row; this is its fixed primary key.
const cartRowID = 1

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Load returns the saved snapshot, or nil if none exists.
func (r *GORMCartRepository) Load() (*models.CartSnapshot, error) {
	var snapshot models.CartSnapshot
	if err := r.db.First(&snapshot, "id = ?", cartRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save overwrites the snapshot row.
func (r *GORMCartRepository) Save(snapshot *models.CartSnapshot) error {
	snapshot.ID = cartRowID
	if err := r.db.Save(snapshot).Error; err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot row.
func (r *GORMCartRepository) Clear() error {
	if err := r.db.Delete(&models.CartSnapshot{}, "id = ?", cartRowID).Error; err != nil {
		return fmt.Errorf("failed to clear cart snapshot: %w", err)
	}
	return nil
}
