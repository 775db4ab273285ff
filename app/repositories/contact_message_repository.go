package repositories

import (
	"context"
	"errors"

	"github.com/Rakhulsr/catalog-api/app/models"
	"gorm.io/gorm"
)

type ContactMessageRepositoryImpl interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error)
	GetByID(ctx context.Context, id uint) (*models.ContactMessage, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	CountUnread(ctx context.Context) (int64, error)
}

type contactMessageRepository struct {
	db *gorm.DB
}

func NewContactMessageRepository(db *gorm.DB) ContactMessageRepositoryImpl {
	return &contactMessageRepository{db: db}
}

func (r *contactMessageRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactMessageRepository) List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if unreadOnly {
		// "read" is reserved in MySQL, map conditions get the column quoted
		q = q.Where(map[string]interface{}{"read": false})
	}
	err := q.Find(&messages).Error
	return messages, err
}

func (r *contactMessageRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.WithContext(ctx).First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *contactMessageRepository) MarkRead(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.ContactMessage{ID: id}).Update("read", true).Error
}

func (r *contactMessageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id).Error
}

func (r *contactMessageRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where(map[string]interface{}{"read": false}).
		Count(&count).Error
	return count, err
}
