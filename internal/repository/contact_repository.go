package repository

import (
	"context"
	"errors"

	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	crm_errors "social-crm/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	res := r.db.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return crm_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	var c contact.Contact
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.Contact{}, crm_errors.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *PostgresContactRepository) GetAll(ctx context.Context) ([]contact.Contact, error) {
	var contacts []contact.Contact
	err := r.db.WithContext(ctx).
		Order("COALESCE(last_contacted_at, created_at) DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *PostgresContactRepository) GetByInstagramID(ctx context.Context, instagramID string) (contact.Contact, error) {
	var c contact.Contact
	err := r.db.WithContext(ctx).Where("instagram_id = ?", instagramID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contact.Contact{}, crm_errors.ErrNotFound
		}
		return contact.Contact{}, err
	}
	return c, nil
}

func (r *PostgresContactRepository) Update(ctx context.Context, c contact.Contact) error {
	res := r.db.WithContext(ctx).Save(&c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return crm_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		convIDs := tx.Model(&conversation.Conversation{}).
			Select("id").
			Where("contact_id = ?", id)

		if err := tx.Where("conversation_id IN (?)", convIDs).
			Delete(&message.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contact_id = ?", id).
			Delete(&conversation.Conversation{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&contact.Contact{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return crm_errors.ErrNotFound
		}
		return nil
	})
}
