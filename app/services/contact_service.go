package services

import (
	"context"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"github.com/go-playground/validator/v10"
)

const MsgMessageNotFound = "Message not found"

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

type ContactService struct {
	messages   repositories.ContactMessageRepositoryImpl
	notifier   ContactNotifier
	dispatcher *Dispatcher
	validate   *validator.Validate
}

func NewContactService(
	messages repositories.ContactMessageRepositoryImpl,
	notifier ContactNotifier,
	dispatcher *Dispatcher,
	validate *validator.Validate,
) *ContactService {
	return &ContactService{messages: messages, notifier: notifier, dispatcher: dispatcher, validate: validate}
}

// Submit persists the message; the owner notification is sent afterwards and
// its failure does not affect the result.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	if err := helpers.ValidateStruct(s.validate, &req); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		saved := *msg
		s.dispatcher.Go("contact.notify", func(ctx context.Context) error {
			return s.notifier.NotifyContact(ctx, saved)
		})
	}
	return msg, nil
}

func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]models.ContactMessage, error) {
	return s.messages.List(ctx, unreadOnly)
}

func (s *ContactService) MarkRead(ctx context.Context, id uint) (*models.ContactMessage, error) {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, helpers.NewNotFound(MsgMessageNotFound)
	}
	if !msg.Read {
		if err := s.messages.MarkRead(ctx, id); err != nil {
			return nil, err
		}
		msg.Read = true
	}
	return msg, nil
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg == nil {
		return helpers.NewNotFound(MsgMessageNotFound)
	}
	return s.messages.Delete(ctx, id)
}
