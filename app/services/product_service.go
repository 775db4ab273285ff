package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MsgCategoryNotFound = "Category not found"

type CreateProductRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description *string          `json:"description" validate:"omitnil,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	EbayURL     *string          `json:"ebayUrl" validate:"omitempty,url,max=500"`
	CategoryID  uint             `json:"categoryId" validate:"required,gt=0"`
	Featured    *bool            `json:"featured"`
	Visible     *bool            `json:"visible"`
}

// UpdateProductRequest is a partial update; nil fields are left alone.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string          `json:"description" validate:"omitnil,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	EbayURL     *string          `json:"ebayUrl" validate:"omitempty,url,max=500"`
	CategoryID  *uint            `json:"categoryId" validate:"omitnil,gt=0"`
	Featured    *bool            `json:"featured"`
	Visible     *bool            `json:"visible"`
}

type ProductService struct {
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	storage    ImageStorage
	dispatcher *Dispatcher
	validate   *validator.Validate
}

func NewProductService(
	products repositories.ProductRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	storage ImageStorage,
	dispatcher *Dispatcher,
	validate *validator.Validate,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		storage:    storage,
		dispatcher: dispatcher,
		validate:   validate,
	}
}

func (s *ProductService) validateRequest(req interface{}, price *decimal.Decimal, priceRequired bool) error {
	var details []string
	if err := helpers.ValidateStruct(s.validate, req); err != nil {
		var appErr *helpers.AppError
		if !errors.As(err, &appErr) || appErr.Status != http.StatusBadRequest {
			return err
		}
		details = append(details, appErr.Details...)
	}
	details = append(details, helpers.ValidatePrice(price, priceRequired)...)
	if len(details) > 0 {
		return helpers.NewValidationError(details...)
	}
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, id uint) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return helpers.NewBadRequest(MsgCategoryNotFound)
	}
	return nil
}

func (s *ProductService) uniqueSlug(ctx context.Context, title string) (*string, error) {
	base := helpers.GenerateSlug(title)
	if base == "" {
		return nil, nil
	}
	taken, err := s.products.SlugExists(ctx, base)
	if err != nil {
		return nil, err
	}
	if taken {
		base = base + "-" + uuid.NewString()[:8]
	}
	return &base, nil
}

func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if err := s.validateRequest(&req, req.Price, true); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:      req.Title,
		Slug:       slug,
		Price:      req.Price.Round(2),
		EbayURL:    req.EbayURL,
		CategoryID: req.CategoryID,
		Featured:   false,
		Visible:    true,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Visible != nil {
		product.Visible = *req.Visible
	}

	err = s.products.Create(ctx, product)
	if errors.Is(err, gorm.ErrDuplicatedKey) && slug != nil {
		// lost a race for the slug
		retry := *slug + "-" + uuid.NewString()[:8]
		product.ID = 0
		product.Slug = &retry
		err = s.products.Create(ctx, product)
	}
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, req UpdateProductRequest) (*models.Product, error) {
	if err := s.validateRequest(&req, req.Price, false); err != nil {
		return nil, err
	}

	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = req.Price.Round(2)
	}
	if req.EbayURL != nil {
		fields["ebay_url"] = *req.EbayURL
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *req.CategoryID
	}
	if req.Featured != nil {
		fields["featured"] = *req.Featured
	}
	if req.Visible != nil {
		fields["visible"] = *req.Visible
	}

	if len(fields) == 0 {
		return existing, nil
	}
	if err := s.products.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// Delete removes the product and its image rows; stored files are released in the background.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return helpers.NewNotFound(MsgProductNotFound)
	}

	images, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.releaseImages(images)
	return nil
}

func (s *ProductService) releaseImages(images []models.ProductImage) {
	if len(images) == 0 || s.storage == nil {
		return
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	s.dispatcher.Go("storage.delete", func(ctx context.Context) error {
		var errs []error
		for _, u := range urls {
			if err := s.storage.Delete(ctx, u); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

func (s *ProductService) ToggleVisibility(ctx context.Context, id uint) (*models.Product, error) {
	return s.toggle(ctx, id, "visible")
}

func (s *ProductService) ToggleFeatured(ctx context.Context, id uint) (*models.Product, error) {
	return s.toggle(ctx, id, "featured")
}

func (s *ProductService) toggle(ctx context.Context, id uint, column string) (*models.Product, error) {
	product, err := s.products.Toggle(ctx, id, column)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}
	return product, nil
}

func (s *ProductService) reload(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}
	return product, nil
}
