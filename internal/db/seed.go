package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/models"
)

// Seed inserts the demo catalog when the products table is empty. Running
// it against a populated store is a no-op.
func Seed(gdb *gorm.DB) error {
	var total int64
	if err := gdb.Model(&models.Product{}).Count(&total).Error; err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if total > 0 {
		return nil
	}

	sample := []models.Product{
		{
			Name:        "iPhone 15 Pro",
			Description: "The most advanced iPhone ever with titanium design and A17 Pro chip.",
			Price:       999.99,
			Category:    "iPhone",
			Stock:       50,
			ImageURL:    "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400",
		},
		{
			Name:        "MacBook Air M2",
			Description: "Supercharged by M2 chip. Incredibly thin and light design.",
			Price:       1199.99,
			Category:    "Mac",
			Stock:       30,
			ImageURL:    "https://images.unsplash.com/photo-1541807084-5c52b6b3adef?w=400",
		},
		{
			Name:        "iPad Pro 12.9\"",
			Description: "The ultimate iPad experience with M2 chip and Liquid Retina XDR display.",
			Price:       1099.99,
			Category:    "iPad",
			Stock:       25,
			ImageURL:    "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=400",
		},
		{
			Name:        "Apple Watch Series 9",
			Description: "Your essential companion for a healthy life with advanced health features.",
			Price:       399.99,
			Category:    "Watch",
			Stock:       40,
			ImageURL:    "https://images.unsplash.com/photo-1434493789847-2f02dc6ca35d?w=400",
		},
		{
			Name:        "AirPods Pro (2nd gen)",
			Description: "Adaptive Audio. Personalized Spatial Audio. Next-level Active Noise Cancellation.",
			Price:       249.99,
			Category:    "AirPods",
			Stock:       60,
			ImageURL:    "https://images.unsplash.com/photo-1606220945770-b5b6c2c55bf1?w=400",
		},
		{
			Name:        "Magic Keyboard",
			Description: "Wireless, rechargeable keyboard with numeric keypad for Mac.",
			Price:       199.99,
			Category:    "Accessories",
			Stock:       35,
			ImageURL:    "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=400",
		},
		{
			Name:        "iPhone 15",
			Description: "Dynamic Island. 48MP Main camera. USB-C connectivity.",
			Price:       799.99,
			Category:    "iPhone",
			Stock:       45,
			ImageURL:    "https://images.unsplash.com/photo-1592750475338-74b7b21085ab?w=400",
		},
		{
			Name:        "iMac 24\"",
			Description: "Strikingly thin design powered by M3 chip in vibrant colors.",
			Price:       1299.99,
			Category:    "Mac",
			Stock:       20,
			ImageURL:    "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=400",
		},
	}

	if err := gdb.Create(&sample).Error; err != nil {
		return fmt.Errorf("seed: insert sample products: %w", err)
	}
	return nil
}
