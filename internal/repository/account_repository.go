package repository

import (
	"context"
	"errors"

	"social-crm/internal/domain/account"
	crm_errors "social-crm/pkg/errors"

	"gorm.io/gorm"
)

type PostgresAccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) GetLatestActive(ctx context.Context) (account.PlatformAccount, error) {
	var a account.PlatformAccount
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("connected_at DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account.PlatformAccount{}, crm_errors.ErrNotFound
		}
		return account.PlatformAccount{}, err
	}
	return a, nil
}
