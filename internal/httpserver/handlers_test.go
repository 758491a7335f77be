package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/apple-store/internal/events"
	"github.com/your-org/apple-store/internal/models"
	"github.com/your-org/apple-store/internal/repo"
	"github.com/your-org/apple-store/internal/service"
	"github.com/your-org/apple-store/internal/transport"
)

const testAdminToken = "test-admin-token"

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
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
	products := &service.ProductService{Repo: store, Producer: events.Nop{}}
	cart := &service.CartService{Repo: store, Producer: events.Nop{}, TaxRate: 0.08}

	e := echo.New()
	Register(e, &Deps{
		Logger:         slog.Default(),
		ProductHandler: &ProductHandler{Products: products},
		CartHandler:    &CartHandler{Cart: cart},
		UploadHandler:  &UploadHandler{Dir: t.TempDir(), MaxSize: 64},
		AdminToken:     testAdminToken,
	})

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) doJSON(method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, m := range mutate {
		m(req)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func asAdmin(req *http.Request) {
	req.Header.Set(adminTokenHeader, testAdminToken)
}

func withCookies(cookies []*http.Cookie) func(*http.Request) {
	return func(req *http.Request) {
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
	}
}

func (env *testEnv) seedProduct(name string, price float64) models.Product {
	env.T.Helper()
	prod := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Category:    "Accessories",
		Stock:       10,
	}
	require.NoError(env.T, env.DB.Create(&prod).Error)
	return prod
}

func TestProductAdminCRUD(t *testing.T) {
	env := newTestEnv(t)

	create := transport.CreateProductRequest{
		Name:        "iPhone 15",
		Description: "Dynamic Island. USB-C connectivity.",
		Price:       799.99,
		Category:    "iPhone",
		Stock:       45,
	}
	rec := env.doJSON(http.MethodPost, "/api/v1/admin/products", create, asAdmin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Greater(t, created.ID, 0)

	rec = env.doJSON(http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	patch := map[string]any{"price": 749.99}
	rec = env.doJSON(http.MethodPatch, "/api/v1/admin/products/1", patch, asAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	var patched models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, 749.99, patched.Price)
	require.Equal(t, created.Name, patched.Name)

	rec = env.doJSON(http.MethodDelete, "/api/v1/admin/products/1", nil, asAdmin)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRejectBadToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{}, func(req *http.Request) {
		req.Header.Set(adminTokenHeader, "wrong")
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductCategoryFilterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct("MacBook Air M2", 1199.99)
	env.DB.Model(&models.Product{}).Where("name = ?", "MacBook Air M2").Update("category", "Mac")

	rec := env.doJSON(http.MethodGet, "/api/v1/products?category=Mac", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	rec = env.doJSON(http.MethodGet, "/api/v1/products?category=NonexistentCat", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Empty(t, items)

	rec = env.doJSON(http.MethodGet, "/api/v1/search?q=macbook", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	rec = env.doJSON(http.MethodGet, "/api/v1/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartFlowWithSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("AirTag", 29.0)

	// First touch mints the session cookie.
	rec := env.doJSON(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: prod.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	var line transport.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	require.Equal(t, 2, line.Quantity)
	require.Equal(t, "AirTag", line.ProductName)

	// Same cookie, same line: quantity increments instead of duplicating.
	rec = env.doJSON(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: prod.ID, Quantity: 1}, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &line))
	require.Equal(t, 3, line.Quantity)

	rec = env.doJSON(http.MethodGet, "/api/v1/cart/summary", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)
	var summary transport.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 3, summary.TotalItems)
	require.InDelta(t, 87.0, summary.Subtotal, 1e-9)

	// A fresh client gets its own empty cart.
	rec = env.doJSON(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var other []transport.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &other))
	require.Empty(t, other)

	rec = env.doJSON(http.MethodDelete, "/api/v1/cart", nil, withCookies(cookies))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/v1/cart", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)
	var after []transport.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	require.Empty(t, after)
}

func TestAddToCartMissingProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: 999, Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateQuantityEndpoint(t *testing.T) {
	env := newTestEnv(t)
	prod := env.seedProduct("HomePod mini", 99.0)

	rec := env.doJSON(http.MethodPost, "/api/v1/cart", transport.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()

	rec = env.doJSON(http.MethodPatch, "/api/v1/cart/1", transport.UpdateQuantityRequest{Quantity: 5}, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodPatch, "/api/v1/cart/1", transport.UpdateQuantityRequest{Quantity: 0}, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodGet, "/api/v1/cart", nil, withCookies(cookies))
	var lines []transport.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Empty(t, lines)

	rec = env.doJSON(http.MethodPatch, "/api/v1/cart/1", transport.UpdateQuantityRequest{Quantity: 2}, withCookies(cookies))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 128))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	asAdmin(req)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUploadStoresFile(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "ok.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("tiny"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	asAdmin(req)

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["image_url"], "ok.png")
}
