package models

import (
	"time"
)

type Product struct {
	ID          int       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"not null;index"            json:"name"`
	Description string    `gorm:"not null"                  json:"description"`
	Price       float64   `gorm:"not null"                  json:"price"`
	Category    string    `gorm:"not null;index"            json:"category"`
	Stock       int       `gorm:"default:0"                 json:"stock"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// CartItem is one line of a session's cart. The unique index on
// (session_id, product_id) backs the insert-or-increment upsert in repo.
type CartItem struct {
	ID        int       `gorm:"primaryKey;autoIncrement"                          json:"id"`
	ProductID int       `gorm:"uniqueIndex:idx_session_product;not null"          json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"                        json:"quantity"`
	SessionID string    `gorm:"uniqueIndex:idx_session_product;not null;size:255" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
