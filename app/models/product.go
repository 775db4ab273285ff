package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Slug        *string         `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	EbayURL     *string         `gorm:"size:500" json:"ebayUrl"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category"`
	Featured    bool            `gorm:"not null;index" json:"featured"`
	Visible     bool            `gorm:"not null;index" json:"visible"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
