package repository

import (
	"context"

	"github.com/google/uuid"

	"social-crm/internal/domain/account"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
)

type ContactRepository interface {
	Create(ctx context.Context, c *contact.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error)
	GetAll(ctx context.Context) ([]contact.Contact, error)
	GetByInstagramID(ctx context.Context, instagramID string) (contact.Contact, error)
	Update(ctx context.Context, c contact.Contact) error
	// Delete removes the contact together with its conversations and
	// messages.
	Delete(ctx context.Context, id uuid.UUID) error
}

type ConversationRepository interface {
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	GetAll(ctx context.Context) ([]conversation.Conversation, error)
	GetByThread(ctx context.Context, contactID uuid.UUID, platform, threadID string) (conversation.Conversation, error)
	Update(ctx context.Context, c conversation.Conversation) error
	ResetUnread(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByPlatformMessageID(ctx context.Context, platformMessageID string) (message.Message, error)
	GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error)
	MarkConversationRead(ctx context.Context, conversationID uuid.UUID) error
}

type AccountRepository interface {
	// GetLatestActive returns the most-recently-connected active platform
	// account, used as the access-token fallback for outbound calls.
	GetLatestActive(ctx context.Context) (account.PlatformAccount, error)
}

// Store bundles the repositories behind one transactional unit of work. The
// ingestion pipeline runs its resolve-and-persist steps inside a single
// InTx call.
type Store interface {
	Contacts() ContactRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	Accounts() AccountRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
