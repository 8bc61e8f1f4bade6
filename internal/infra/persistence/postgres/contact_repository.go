package postgres

import (
	"context"

	"tradegate/internal/domain/entity"
	"tradegate/internal/domain/repository"
	"tradegate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// contactRepository implements the domain's ContactRepository interface using GORM.
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository is the constructor for contactRepository.
func NewContactRepository(db *gorm.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

// Create persists an inbound contact message.
func (repo *contactRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	messageM := &model.ContactMessageModel{
		ID:      message.ID,
		Name:    message.Name,
		Email:   message.Email,
		Subject: message.Subject,
		Body:    message.Body,
	}

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		return errors.Wrap(err, "failed to create contact message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt

	return nil
}

// List returns contact messages, newest first, optionally unread only.
func (repo *contactRepository) List(ctx context.Context, unreadOnly bool, limit, offset int) ([]*entity.ContactMessage, error) {
	tx := repo.db.WithContext(ctx).Model(&model.ContactMessageModel{})
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var models []*model.ContactMessageModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list contact messages")
	}

	messages := make([]*entity.ContactMessage, 0, len(models))
	for _, m := range models {
		messages = append(messages, &entity.ContactMessage{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}

	return messages, nil
}

// MarkRead flags a message as read.
func (repo *contactRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ContactMessageModel{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark contact message read")
	}
	if result.RowsAffected == 0 {
		return repository.ErrMessageNotFound
	}

	return nil
}
