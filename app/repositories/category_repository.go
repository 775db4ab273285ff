package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/catalog-api/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListWithCounts(ctx context.Context, visibleOnly bool) ([]models.CategoryWithCount, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ListWithCounts returns every category ordered by name. With visibleOnly the
// count only includes visible products; categories are never filtered out.
func (r *categoryRepository) ListWithCounts(ctx context.Context, visibleOnly bool) ([]models.CategoryWithCount, error) {
	join := "LEFT JOIN products ON products.category_id = categories.id"
	if visibleOnly {
		join += " AND products.visible = ?"
	}

	q := r.db.WithContext(ctx).Table("categories")
	if visibleOnly {
		q = q.Joins(join, true)
	} else {
		q = q.Joins(join)
	}

	categories := []models.CategoryWithCount{}
	err := q.Select("categories.*, COUNT(products.id) AS product_count").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, id).Error
}
