package repositories

import "eclat/internal/models"

// SessionRepository holds the at-most-one logged-in identity. Current returns
// nil without error when nobody is logged in.
type SessionRepository interface {
	Current() (*models.User, error)
	Set(userID string) error
	Clear() error
}
