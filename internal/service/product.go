package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/logging"
	"github.com/your-org/apple-store/internal/models"
	"github.com/your-org/apple-store/internal/repo"
	"github.com/your-org/apple-store/internal/transport"
)

type ProductService struct {
	Repo     *repo.GormRepo
	Producer events.Producer
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_products_failed", "error", err)
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// GetByID returns nil for a missing id, not an error.
func (s *ProductService) GetByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logging.FromContext(ctx).Error("get_product_failed", "id", id, "error", err)
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	items, err := s.Repo.ListProductsByCategory(ctx, category)
	if err != nil {
		logging.FromContext(ctx).Error("list_by_category_failed", "category", category, "error", err)
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return items, nil
}

func (s *ProductService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("description must not be empty: %w", ErrValidation)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("category must not be empty: %w", ErrValidation)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		logging.FromContext(ctx).Error("create_product_failed", "error", err)
		return nil, fmt.Errorf("create product: %w", err)
	}

	publish(ctx, s.Producer, events.TopicProductEvents, strconv.Itoa(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return &prod, nil
}

// Patch applies only the fields present in req; absent fields keep their
// stored values.
func (s *ProductService) Patch(ctx context.Context, id int, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
	}
	if req.Description != nil && *req.Description == "" {
		return nil, fmt.Errorf("description must not be empty: %w", ErrValidation)
	}
	if req.Category != nil && *req.Category == "" {
		return nil, fmt.Errorf("category must not be empty: %w", ErrValidation)
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("stock must not be negative: %w", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		logging.FromContext(ctx).Error("patch_product_failed", "id", id, "error", err)
		return nil, fmt.Errorf("patch product %d: %w", id, err)
	}

	publish(ctx, s.Producer, events.TopicProductEvents, strconv.Itoa(prod.ID), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

// Delete reports whether a product with the id existed; a missing id is
// not an error.
func (s *ProductService) Delete(ctx context.Context, id int) (bool, error) {
	found, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("delete_product_failed", "id", id, "error", err)
		return false, fmt.Errorf("delete product %d: %w", id, err)
	}
	if found {
		publish(ctx, s.Producer, events.TopicProductEvents, strconv.Itoa(id), map[string]any{
			"type":      "product_deleted",
			"productID": id,
		})
	}
	return found, nil
}

func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	items, err := s.Repo.SearchProducts(ctx, query)
	if err != nil {
		logging.FromContext(ctx).Error("search_products_failed", "query", query, "error", err)
		return nil, fmt.Errorf("search products: %w", err)
	}
	return items, nil
}
