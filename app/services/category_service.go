package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	MsgCategoryExists    = "A category with this name already exists"
	MsgCategoryEmptySlug = "Name must contain at least one letter or number"
	msgCategoryInUseFmt  = "Cannot delete: %d product(s) are assigned to this category"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CategoryService struct {
	categories repositories.CategoryRepositoryImpl
	products   repositories.ProductRepositoryImpl
	validate   *validator.Validate
}

func NewCategoryService(categories repositories.CategoryRepositoryImpl, products repositories.ProductRepositoryImpl, validate *validator.Validate) *CategoryService {
	return &CategoryService{categories: categories, products: products, validate: validate}
}

func (s *CategoryService) slugFor(req CategoryRequest) (string, error) {
	if err := helpers.ValidateStruct(s.validate, &req); err != nil {
		return "", err
	}
	slug := helpers.GenerateSlug(req.Name)
	if slug == "" {
		return "", helpers.NewValidationError(MsgCategoryEmptySlug)
	}
	return slug, nil
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*models.Category, error) {
	slug, err := s.slugFor(req)
	if err != nil {
		return nil, err
	}

	existing, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, helpers.NewConflict(MsgCategoryExists)
	}

	category := &models.Category{Name: req.Name, Slug: slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helpers.NewConflict(MsgCategoryExists)
		}
		return nil, err
	}
	return category, nil
}

// Update re-derives the slug and rejects it when another category already owns it.
func (s *CategoryService) Update(ctx context.Context, id uint, req CategoryRequest) (*models.Category, error) {
	slug, err := s.slugFor(req)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, helpers.NewNotFound(MsgCategoryNotFound)
	}

	owner, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != id {
		return nil, helpers.NewConflict(MsgCategoryExists)
	}

	category.Name = req.Name
	category.Slug = slug
	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helpers.NewConflict(MsgCategoryExists)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return helpers.NewNotFound(MsgCategoryNotFound)
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return helpers.NewConflict(fmt.Sprintf(msgCategoryInUseFmt, count))
	}

	return s.categories.Delete(ctx, id)
}
