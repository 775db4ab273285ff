package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFaker builds n demo products in category; roughly one in four is featured.
func ProductFaker(category *models.Category, n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		title := strings.TrimSuffix(faker.Sentence(), ".")
		if len(title) > 200 {
			title = title[:200]
		}
		slug := helpers.GenerateSlug(title) + "-" + uuid.NewString()[:6]

		products = append(products, models.Product{
			Title:       title,
			Slug:        &slug,
			Description: faker.Paragraph(),
			Price:       fakePrice(),
			CategoryID:  category.ID,
			Featured:    rand.Intn(4) == 0,
			Visible:     true,
		})
	}
	return products
}

func fakePrice() decimal.Decimal {
	cents := rand.Int63n(99_900) + 100
	return decimal.New(cents, -2)
}
