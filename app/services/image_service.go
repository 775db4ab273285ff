package services

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	MaxImagesPerUpload = 10
	MaxImageBytes      = 10 << 20

	MsgNoImages          = "No images provided"
	MsgImageNotFound     = "Image not found"
	MsgImageIDsRequired  = "imageIds array is required"
	MsgImagesMixedOwners = "All images must belong to the same product"
	MsgImageWrongProduct = "Images do not belong to this product"
)

type UploadedImage struct {
	Filename string
	Data     []byte
}

type ReorderImagesRequest struct {
	ImageIDs  []uint `json:"imageIds" validate:"required,min=1,unique,dive,gt=0"`
	ProductID *uint  `json:"productId" validate:"omitnil,gt=0"`
}

type ImageService struct {
	products   repositories.ProductRepositoryImpl
	images     repositories.ProductImageRepositoryImpl
	storage    ImageStorage
	dispatcher *Dispatcher
	validate   *validator.Validate
	log        zerolog.Logger
}

func NewImageService(
	products repositories.ProductRepositoryImpl,
	images repositories.ProductImageRepositoryImpl,
	storage ImageStorage,
	dispatcher *Dispatcher,
	validate *validator.Validate,
	log zerolog.Logger,
) *ImageService {
	return &ImageService{
		products:   products,
		images:     images,
		storage:    storage,
		dispatcher: dispatcher,
		validate:   validate,
		log:        log,
	}
}

// Attach stores each file and appends it after the product's current last image.
func (s *ImageService) Attach(ctx context.Context, productID uint, files []UploadedImage) ([]models.ProductImage, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, helpers.NewNotFound(MsgProductNotFound)
	}
	if len(files) == 0 {
		return nil, helpers.NewBadRequest(MsgNoImages)
	}
	if len(files) > MaxImagesPerUpload {
		return nil, helpers.NewBadRequest(fmt.Sprintf("At most %d images can be uploaded at once", MaxImagesPerUpload))
	}

	// reject the whole batch before anything is written
	for _, f := range files {
		if len(f.Data) > MaxImageBytes {
			return nil, helpers.NewBadRequest(fmt.Sprintf("%s exceeds the 10MB limit", f.Filename))
		}
		if _, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err != nil {
			return nil, helpers.NewBadRequest(fmt.Sprintf("%s is not a supported image", f.Filename))
		}
	}

	next, err := s.images.NextDisplayOrder(ctx, productID)
	if err != nil {
		return nil, err
	}

	created := make([]models.ProductImage, 0, len(files))
	for _, f := range files {
		url, err := s.storage.Save(ctx, productID, f.Filename, f.Data)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", f.Filename, err)
		}

		img := models.ProductImage{ProductID: productID, URL: url, DisplayOrder: next}
		if err := s.images.Create(ctx, &img); err != nil {
			s.release(url)
			return nil, err
		}
		created = append(created, img)
		next++
	}

	s.log.Info().Uint("product_id", productID).Int("count", len(created)).Msg("images attached")
	return created, nil
}

// Detach deletes the record; the stored object is released in the background.
func (s *ImageService) Detach(ctx context.Context, imageID uint) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil {
		return helpers.NewNotFound(MsgImageNotFound)
	}

	if err := s.images.Delete(ctx, imageID); err != nil {
		return err
	}
	s.release(img.URL)
	return nil
}

// Reorder sets displayOrder to each id's index in the list. All ids must
// exist and belong to one product, and to ProductID when it is given.
func (s *ImageService) Reorder(ctx context.Context, req ReorderImagesRequest) error {
	if len(req.ImageIDs) == 0 {
		return helpers.NewBadRequest(MsgImageIDsRequired)
	}
	if err := helpers.ValidateStruct(s.validate, &req); err != nil {
		return err
	}

	return s.images.Reorder(ctx, req.ImageIDs, func(found []models.ProductImage) error {
		if len(found) != len(req.ImageIDs) {
			return helpers.NewNotFound(MsgImageNotFound)
		}
		owner := found[0].ProductID
		for _, img := range found[1:] {
			if img.ProductID != owner {
				return helpers.NewBadRequest(MsgImagesMixedOwners)
			}
		}
		if req.ProductID != nil && *req.ProductID != owner {
			return helpers.NewBadRequest(MsgImageWrongProduct)
		}
		return nil
	})
}

func (s *ImageService) release(url string) {
	s.dispatcher.Go("storage.delete", func(ctx context.Context) error {
		return s.storage.Delete(ctx, url)
	})
}
