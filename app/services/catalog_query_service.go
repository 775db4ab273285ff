package services

import (
	"context"
	"math"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 50
	FeaturedLimit    = 4

	MsgProductNotFound = "Product not found"
)

type ProductListQuery struct {
	Search   string `json:"search" validate:"max=200"`
	Category string `json:"category" validate:"max=120"`
	Page     int    `json:"page" validate:"gte=1"`
	Limit    int    `json:"limit" validate:"gte=1,lte=50"`
}

type ProductPage struct {
	Products   []models.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type CatalogQueryService struct {
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
}

func NewCatalogQueryService(products repositories.ProductRepositoryImpl, categories repositories.CategoryRepositoryImpl) *CatalogQueryService {
	return &CatalogQueryService{products: products, categories: categories}
}

// ListProducts only ever returns visible products.
func (s *CatalogQueryService) ListProducts(ctx context.Context, q ProductListQuery) (*ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}

	products, total, err := s.products.List(ctx, repositories.ProductFilter{
		Search:       q.Search,
		CategorySlug: q.Category,
		VisibleOnly:  true,
		Limit:        q.Limit,
		Offset:       (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:   products,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// GetFeatured falls back to the newest visible products when nothing visible is featured.
func (s *CatalogQueryService) GetFeatured(ctx context.Context) ([]models.Product, error) {
	featured, err := s.products.ListFeatured(ctx, FeaturedLimit)
	if err != nil {
		return nil, err
	}
	if len(featured) > 0 {
		return featured, nil
	}
	return s.products.ListLatestVisible(ctx, FeaturedLimit)
}

func (s *CatalogQueryService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}
	return product, nil
}

// GetBySlug treats hidden products as missing.
func (s *CatalogQueryService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Visible {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}
	return product, nil
}

func (s *CatalogQueryService) ListCategories(ctx context.Context, adminView bool) ([]models.CategoryWithCount, error) {
	return s.categories.ListWithCounts(ctx, !adminView)
}

func (s *CatalogQueryService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.ListAll(ctx)
}
