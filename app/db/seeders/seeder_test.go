package seeders

import (
	"context"
	"fmt"
	"testing"

	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/models/migrations"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/Rakhulsr/catalog-api/app/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestDBSeed_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := DBSeed(ctx, db, Options{AdminUsername: "owner", AdminPassword: "first-pass", DemoProducts: 5}, zerolog.Nop()); err != nil {
		t.Fatalf("first DBSeed() error = %v", err)
	}
	if err := DBSeed(ctx, db, Options{AdminUsername: "owner", AdminPassword: "second-pass"}, zerolog.Nop()); err != nil {
		t.Fatalf("second DBSeed() error = %v", err)
	}

	var admins, categories, products int64
	db.Model(&models.AdminUser{}).Count(&admins)
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Product{}).Count(&products)
	if admins != 1 || categories != 1 || products != 5 {
		t.Errorf("admins=%d categories=%d products=%d, want 1/1/5", admins, categories, products)
	}

	verifier := services.NewCredentialVerifier(repositories.NewAdminUserRepository(db))
	if _, err := verifier.Verify(ctx, "owner", "second-pass"); err != nil {
		t.Errorf("reseeded password should work: %v", err)
	}
	if _, err := verifier.Verify(ctx, "owner", "first-pass"); err == nil {
		t.Error("old password should be rejected after reseed")
	}
}

func TestDBSeed_RequiresCredentials(t *testing.T) {
	db := setupTestDB(t)
	if err := DBSeed(context.Background(), db, Options{AdminUsername: "owner"}, zerolog.Nop()); err == nil {
		t.Error("missing password should fail")
	}
}
