package repositories

import "eclat/internal/models"

// CartRepository persists the single cart snapshot so the selection survives
// restarts. Load returns nil without error when no snapshot has been saved.
type CartRepository interface {
	Load() (*models.CartSnapshot, error)
	Save(snapshot *models.CartSnapshot) error
	Clear() error
}
