package transport

import "time"

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

// PatchProductRequest carries only the fields the client sent; nil means
// "leave untouched".
type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	ImageURL    *string  `json:"image_url"`
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLine is the read-time view of one cart row joined with its product.
// Name and price come from the products table at query time, not from a
// snapshot taken when the row was created.
type CartLine struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	Quantity    int       `json:"quantity"`
	SessionID   string    `json:"session_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

type CartSummary struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
}
