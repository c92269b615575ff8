package models

import "time"

// Category classifies a piece of jewelry.
type Category string

const (
	CategoryNecklace Category = "Necklace"
	CategoryRing     Category = "Ring"
	CategoryBracelet Category = "Bracelet"
	CategoryEarrings Category = "Earrings"
)

// Material is the primary material a piece is made of.
type Material string

const (
	MaterialGold       Material = "Gold"
	MaterialSilver     Material = "Silver"
	MaterialGoldPlated Material = "GoldPlated"
	MaterialPearls     Material = "Pearls"
)

// Product represents a piece in the catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Category    Category  `json:"category" validate:"required,oneof=Necklace Ring Bracelet Earrings"`
	Material    Material  `json:"material" validate:"required,oneof=Gold Silver GoldPlated Pearls"`
	Images      []string  `json:"images" gorm:"serializer:json" validate:"min=1"`
	VideoURL    string    `json:"video_url,omitempty" validate:"omitempty,url"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
