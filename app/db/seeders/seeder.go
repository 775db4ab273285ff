package seeders

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/catalog-api/app/db/fakers"
	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultCategoryName = "General"

type Options struct {
	AdminUsername string
	AdminPassword string
	DemoProducts  int
}

// DBSeed creates the admin account and the default category. It can be run
// repeatedly: an existing admin gets its password reset, the category is kept.
func DBSeed(ctx context.Context, db *gorm.DB, opts Options, log zerolog.Logger) error {
	if err := seedAdmin(ctx, repositories.NewAdminUserRepository(db), opts, log); err != nil {
		return err
	}

	category, err := seedCategory(ctx, repositories.NewCategoryRepository(db), log)
	if err != nil {
		return err
	}

	if opts.DemoProducts > 0 {
		products := fakers.ProductFaker(category, opts.DemoProducts)
		if err := db.WithContext(ctx).Omit(clause.Associations).Create(&products).Error; err != nil {
			return fmt.Errorf("seed demo products: %w", err)
		}
		log.Info().Int("count", len(products)).Msg("demo products created")
	}
	return nil
}

func seedAdmin(ctx context.Context, users repositories.AdminUserRepositoryImpl, opts Options, log zerolog.Logger) error {
	if opts.AdminUsername == "" || opts.AdminPassword == "" {
		return fmt.Errorf("admin username and password are required")
	}
	hash, err := services.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}

	existing, err := users.FindByUsername(ctx, opts.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		if err := users.UpdatePassword(ctx, existing.ID, hash); err != nil {
			return err
		}
		log.Info().Str("username", opts.AdminUsername).Msg("admin password reset")
		return nil
	}

	if err := users.Create(ctx, &models.AdminUser{Username: opts.AdminUsername, PasswordHash: hash}); err != nil {
		return err
	}
	log.Info().Str("username", opts.AdminUsername).Msg("admin created")
	return nil
}

func seedCategory(ctx context.Context, categories repositories.CategoryRepositoryImpl, log zerolog.Logger) (*models.Category, error) {
	slug := helpers.GenerateSlug(DefaultCategoryName)
	existing, err := categories.GetBySlug(ctx, slug)
	if err != nil || existing != nil {
		return existing, err
	}

	category := &models.Category{Name: DefaultCategoryName, Slug: slug}
	if err := categories.Create(ctx, category); err != nil {
		return nil, err
	}
	log.Info().Str("slug", slug).Msg("default category created")
	return category, nil
}
