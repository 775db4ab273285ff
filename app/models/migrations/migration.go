package migrations

import (
	"github.com/Rakhulsr/catalog-api/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AdminUser{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.ContactMessage{},
	)
}
