package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/models"
	"github.com/your-org/apple-store/internal/transport"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("category = ?", category).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	now := time.Now().UTC()
	prod.CreatedAt = now
	prod.UpdatedAt = now
	return r.DB.WithContext(ctx).Create(prod).Error
}

// PatchProduct applies only the fields present in req and bumps the update
// timestamp, all inside one transaction. Returns gorm.ErrRecordNotFound
// when the id is absent.
func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id int) (*models.Product, error) {
	var prod models.Product

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Price != nil {
			prod.Price = *req.Price
		}
		if req.Category != nil {
			prod.Category = *req.Category
		}
		if req.Stock != nil {
			prod.Stock = *req.Stock
		}
		if req.ImageURL != nil {
			prod.ImageURL = *req.ImageURL
		}
		prod.UpdatedAt = time.Now().UTC()

		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}

	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int) (bool, error) {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SearchProducts matches q as a case-insensitive substring of name or
// description. Folding through LOWER keeps the behavior identical across
// the sqlite and postgres drivers.
func (r *GormRepo) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
