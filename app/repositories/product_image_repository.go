package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Rakhulsr/catalog-api/app/models"
	"gorm.io/gorm"
)

type ProductImageRepositoryImpl interface {
	GetByID(ctx context.Context, id uint) (*models.ProductImage, error)
	NextDisplayOrder(ctx context.Context, productID uint) (int, error)
	Create(ctx context.Context, image *models.ProductImage) error
	Delete(ctx context.Context, id uint) error
	Reorder(ctx context.Context, imageIDs []uint, check func(found []models.ProductImage) error) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepositoryImpl {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) GetByID(ctx context.Context, id uint) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

// NextDisplayOrder is one past the current highest position, or 0 for a product without images.
func (r *productImageRepository) NextDisplayOrder(ctx context.Context, productID uint) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *productImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *productImageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, id).Error
}

// Reorder loads the listed images, lets check reject the set, then assigns
// display_order = index for each id. Everything runs in one transaction.
func (r *productImageRepository) Reorder(ctx context.Context, imageIDs []uint, check func(found []models.ProductImage) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []models.ProductImage
		if err := tx.Where("id IN ?", imageIDs).Find(&found).Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(found); err != nil {
				return err
			}
		}

		for i, id := range imageIDs {
			if err := tx.Model(&models.ProductImage{}).
				Where("id = ?", id).
				Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
