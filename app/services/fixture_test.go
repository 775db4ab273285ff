package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/models/migrations"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type fakeStorage struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
}

func (s *fakeStorage) Save(_ context.Context, productID uint, name string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("/uploads/%d/%d-%s", productID, len(s.saved), name)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, url)
	return nil
}

func (s *fakeStorage) deletedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type fixture struct {
	db         *gorm.DB
	storage    *fakeStorage
	dispatcher *Dispatcher
	catalog    *CatalogQueryService
	products   *ProductService
	categories *CategoryService
	images     *ImageService
	imageRepo  repositories.ProductImageRepositoryImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	validate := helpers.NewValidator()
	storage := &fakeStorage{}
	dispatcher := NewDispatcher(zerolog.Nop(), 5*time.Second)

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	imageRepo := repositories.NewProductImageRepository(db)

	return &fixture{
		db:         db,
		storage:    storage,
		dispatcher: dispatcher,
		catalog:    NewCatalogQueryService(productRepo, categoryRepo),
		products:   NewProductService(productRepo, categoryRepo, storage, dispatcher, validate),
		categories: NewCategoryService(categoryRepo, productRepo, validate),
		images:     NewImageService(productRepo, imageRepo, storage, dispatcher, validate, zerolog.Nop()),
		imageRepo:  imageRepo,
	}
}

func (f *fixture) waitBackground(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.dispatcher.Wait(ctx); err != nil {
		t.Fatalf("background tasks did not finish: %v", err)
	}
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), CategoryRequest{Name: name})
	if err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	return c
}

type productOpts struct {
	hidden   bool
	featured bool
}

func (f *fixture) product(t *testing.T, title string, categoryID uint, opts productOpts) *models.Product {
	t.Helper()
	price := decimal.RequireFromString("19.99")
	visible := !opts.hidden
	featured := opts.featured
	p, err := f.products.Create(context.Background(), CreateProductRequest{
		Title:      title,
		Price:      &price,
		CategoryID: categoryID,
		Visible:    &visible,
		Featured:   &featured,
	})
	if err != nil {
		t.Fatalf("create product %q: %v", title, err)
	}
	return p
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *helpers.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError with status %d, got %v", status, err)
	}
	if appErr.Status != status {
		t.Errorf("status = %d, want %d (%s)", appErr.Status, status, appErr.Message)
	}
	if message != "" && appErr.Message != message {
		t.Errorf("message = %q, want %q", appErr.Message, message)
	}
}

func errDetails(err error) []string {
	var appErr *helpers.AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
