package repository

import (
	"context"

	"gorm.io/gorm"
)

// PostgresStore binds the repositories to one *gorm.DB handle. InTx rebinds
// them to the transaction handle so every repository call inside the
// callback shares the same transaction.
type PostgresStore struct {
	db            *gorm.DB
	contacts      ContactRepository
	conversations ConversationRepository
	messages      MessageRepository
	accounts      AccountRepository
}

func NewStore(db *gorm.DB) Store {
	return &PostgresStore{
		db:            db,
		contacts:      NewContactRepository(db),
		conversations: NewConversationRepository(db),
		messages:      NewMessageRepository(db),
		accounts:      NewAccountRepository(db),
	}
}

func (s *PostgresStore) Contacts() ContactRepository           { return s.contacts }
func (s *PostgresStore) Conversations() ConversationRepository { return s.conversations }
func (s *PostgresStore) Messages() MessageRepository           { return s.messages }
func (s *PostgresStore) Accounts() AccountRepository           { return s.accounts }

func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
