package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/models"
	"github.com/your-org/apple-store/internal/repo"
	"github.com/your-org/apple-store/internal/transport"
)

type testEnv struct {
	DB       *gorm.DB
	Products *ProductService
	Cart     *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	store := repo.NewGormRepo(db)
	return &testEnv{
		DB:       db,
		Products: &ProductService{Repo: store, Producer: events.Nop{}},
		Cart:     &CartService{Repo: store, Producer: events.Nop{}, TaxRate: 0.08},
	}
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	prod, err := env.Products.Create(context.Background(), transport.CreateProductRequest{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    "Accessories",
		Stock:       10,
	})
	require.NoError(t, err)
	return prod
}
