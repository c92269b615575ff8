package models

import "time"

// Role distinguishes the back-office from regular shoppers.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents a user of the boutique.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty"`
	Name      string    `json:"name" validate:"required,min=1,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `gorm:"type:varchar(255)"` // bcrypt hash, empty for customers; no json tag for security
	Role      Role      `json:"role"`
	Wishlist  []string  `json:"wishlist" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is the persisted current-user singleton. At most one row exists.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36)"`
	UpdatedAt time.Time `json:"updated_at"`
}
