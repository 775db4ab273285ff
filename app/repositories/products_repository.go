package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/Rakhulsr/catalog-api/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Search       string
	CategorySlug string
	VisibleOnly  bool
	Limit        int
	Offset       int
}

type ProductRepositoryImpl interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]models.Product, error)
	ListLatestVisible(ctx context.Context, limit int) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) ([]models.ProductImage, error)
	Toggle(ctx context.Context, id uint, column string) (*models.Product, error)
	Count(ctx context.Context, conds map[string]interface{}) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting on any of the supported drivers.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.display_order ASC").Order("product_images.id ASC")
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Images", preloadImages)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("products.created_at DESC").Order("products.id DESC")
}

func (p *productRepository) filterScope(filter ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.VisibleOnly {
			db = db.Where("products.visible = ?", true)
		}
		if filter.Search != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
			db = db.Where("LOWER(products.title) LIKE ? ESCAPE '!'", pattern)
		}
		if filter.CategorySlug != "" {
			sub := p.db.Model(&models.Category{}).Select("id").Where("slug = ?", filter.CategorySlug)
			db = db.Where("products.category_id IN (?)", sub)
		}
		return db
	}
}

func (p *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Scopes(p.filterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	if total == 0 {
		return products, 0, nil
	}

	err := p.db.WithContext(ctx).
		Scopes(p.filterScope(filter), withRelations, newestFirst).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (p *productRepository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.db.WithContext(ctx).
		Scopes(withRelations, newestFirst).
		Where("products.featured = ? AND products.visible = ?", true, true).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) ListLatestVisible(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := p.db.WithContext(ctx).
		Scopes(withRelations, newestFirst).
		Where("products.visible = ?", true).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (p *productRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := p.db.WithContext(ctx).
		Scopes(withRelations, newestFirst).
		Find(&products).Error
	return products, err
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Scopes(withRelations).
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Scopes(withRelations).
		First(&product, "products.slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return p.db.WithContext(ctx).
		Model(&models.Product{ID: id}).
		Omit(clause.Associations).
		Updates(fields).Error
}

// Delete removes the product and its image rows in one transaction and
// returns the removed images so their stored objects can be released.
func (p *productRepository) Delete(ctx context.Context, id uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Toggle flips a boolean column inside a transaction. A nil product means no row matched.
func (p *productRepository) Toggle(ctx context.Context, id uint, column string) (*models.Product, error) {
	if column != "visible" && column != "featured" {
		return nil, errors.New("toggle: unsupported column " + column)
	}

	var product *models.Product
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.Clauses(lockForUpdate(tx)...).First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next := !current.Visible
		if column == "featured" {
			next = !current.Featured
		}
		if err := tx.Model(&current).Omit(clause.Associations).Update(column, next).Error; err != nil {
			return err
		}

		var updated models.Product
		if err := tx.Scopes(withRelations).First(&updated, id).Error; err != nil {
			return err
		}
		product = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (p *productRepository) Count(ctx context.Context, conds map[string]interface{}) (int64, error) {
	var count int64
	q := p.db.WithContext(ctx).Model(&models.Product{})
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	err := q.Count(&count).Error
	return count, err
}

func (p *productRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
func lockForUpdate(tx *gorm.DB) []clause.Expression {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
}
