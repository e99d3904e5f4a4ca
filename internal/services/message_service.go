package services

import (
	"context"

	"social-crm/internal/domain"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	"social-crm/internal/repository"
	crm_errors "social-crm/pkg/errors"
	"social-crm/pkg/logger"

	"github.com/google/uuid"
)

// MessageService covers the conversation/message query surface and the
// outbound send path.
type MessageService struct {
	store   repository.Store
	gateway PlatformGateway
	ingest  *IngestService
	log     *logger.Logger
}

func NewMessageService(store repository.Store, gateway PlatformGateway, ingest *IngestService, log *logger.Logger) *MessageService {
	return &MessageService{store: store, gateway: gateway, ingest: ingest, log: log}
}

func (s *MessageService) GetConversations(ctx context.Context) ([]conversation.Conversation, error) {
	return s.store.Conversations().GetAll(ctx)
}

// ConversationDetail is a conversation with its contact and time-ordered
// messages.
type ConversationDetail struct {
	Conversation conversation.Conversation
	Contact      contact.Contact
	Messages     []message.Message
}

func (s *MessageService) GetConversation(ctx context.Context, id uuid.UUID) (ConversationDetail, error) {
	conv, err := s.store.Conversations().GetByID(ctx, id)
	if err != nil {
		return ConversationDetail{}, err
	}
	ct, err := s.store.Contacts().GetByID(ctx, conv.ContactID)
	if err != nil {
		return ConversationDetail{}, err
	}
	msgs, err := s.store.Messages().GetConversationMessages(ctx, id)
	if err != nil {
		return ConversationDetail{}, err
	}
	return ConversationDetail{Conversation: conv, Contact: ct, Messages: msgs}, nil
}

func (s *MessageService) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	if _, err := s.store.Conversations().GetByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.Messages().GetConversationMessages(ctx, conversationID)
}

// Send delivers text through the platform gateway and, only on success,
// records the outbound message. Gateway failure surfaces as
// ErrUpstreamFailure; nothing is recorded for a failed send.
func (s *MessageService) Send(ctx context.Context, conversationID uuid.UUID, text string) (message.Message, error) {
	if text == "" {
		return message.Message{}, crm_errors.ErrInvalidInput
	}

	conv, err := s.store.Conversations().GetByID(ctx, conversationID)
	if err != nil {
		return message.Message{}, err
	}
	if conv.Platform != domain.PlatformInstagram {
		return message.Message{}, crm_errors.ErrUnsupported
	}

	ct, err := s.store.Contacts().GetByID(ctx, conv.ContactID)
	if err != nil {
		return message.Message{}, err
	}
	if ct.InstagramID == nil || *ct.InstagramID == "" {
		return message.Message{}, crm_errors.ErrInvalidInput
	}

	if !s.gateway.SendText(ctx, *ct.InstagramID, text) {
		return message.Message{}, crm_errors.ErrUpstreamFailure
	}

	return s.ingest.RecordOutbound(ctx, conversationID, text)
}

// MarkRead flips every unread message in the conversation to read and
// resets the unread counter, as one transaction.
func (s *MessageService) MarkRead(ctx context.Context, conversationID uuid.UUID) error {
	if _, err := s.store.Conversations().GetByID(ctx, conversationID); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Messages().MarkConversationRead(ctx, conversationID); err != nil {
			return err
		}
		return tx.Conversations().ResetUnread(ctx, conversationID)
	})
}
