package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"social-crm/internal/domain"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	"social-crm/internal/repository"
	crm_errors "social-crm/pkg/errors"
	"social-crm/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IngestResult reports what the pipeline did with a canonical inbound
// message.
type IngestResult int

const (
	ResultStored IngestResult = iota
	ResultDuplicate
)

// errDuplicateInTx signals a duplicate detected by the unique index after
// the initial lookup passed; it unwinds the transaction callback without
// being surfaced to callers.
var errDuplicateInTx = errors.New("duplicate message in transaction")

// IngestService is the idempotent ingestion pipeline: it resolves the owning
// contact and conversation for a canonical inbound message, rejects
// duplicates, and persists the message with its aggregate counter updates in
// one transaction.
type IngestService struct {
	store   repository.Store
	gateway PlatformGateway
	log     *logger.Logger
	now     func() time.Time
}

func NewIngestService(store repository.Store, gateway PlatformGateway, log *logger.Logger) *IngestService {
	return &IngestService{store: store, gateway: gateway, log: log, now: time.Now}
}

// Ingest stores one inbound message. The platform message id is the
// idempotency key: a message seen before reports ResultDuplicate and writes
// nothing. The lookup is read-then-write; the unique index on the id is the
// real guard, and a concurrent insert racing past the lookup is also
// reported as ResultDuplicate.
func (s *IngestService) Ingest(ctx context.Context, in domain.InboundMessage) (IngestResult, error) {
	if in.PlatformMessageID == "" || in.SenderExternalID == "" {
		return 0, crm_errors.ErrMalformed
	}

	_, err := s.store.Messages().GetByPlatformMessageID(ctx, in.PlatformMessageID)
	if err == nil {
		s.log.Infof("message already exists: %s", in.PlatformMessageID)
		return ResultDuplicate, nil
	}
	if !errors.Is(err, crm_errors.ErrNotFound) {
		return 0, err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		ct, err := s.resolveContact(ctx, tx, in.SenderExternalID)
		if err != nil {
			return err
		}

		conv, err := s.resolveConversation(ctx, tx, ct.ID, in)
		if err != nil {
			return err
		}

		msg := message.Message{
			ID:                uuid.New(),
			ConversationID:    conv.ID,
			PlatformMessageID: in.PlatformMessageID,
			Platform:          in.Platform,
			Content:           in.Text,
			MessageType:       in.MessageType,
			Direction:         message.DirectionInbound,
			Timestamp:         in.Timestamp,
			IsRead:            false,
			MediaURL:          in.MediaURL,
			Metadata:          buildMetadata(in),
		}
		// Savepoint so a unique-index hit leaves the outer transaction
		// usable.
		err = tx.InTx(ctx, func(inner repository.Store) error {
			return inner.Messages().Create(ctx, &msg)
		})
		if err != nil {
			if errors.Is(err, crm_errors.ErrAlreadyExists) {
				return errDuplicateInTx
			}
			return err
		}

		ts := in.Timestamp
		conv.LastMessageAt = &ts
		conv.UnreadCount++
		if err := tx.Conversations().Update(ctx, conv); err != nil {
			return err
		}

		ct.LastContactedAt = &ts
		if err := tx.Contacts().Update(ctx, ct); err != nil {
			return err
		}

		s.log.Infof("message saved, contact: %s, conversation: %s", ct.ID, conv.ID)
		return nil
	})
	if err != nil {
		if errors.Is(err, errDuplicateInTx) {
			s.log.Infof("message already exists: %s", in.PlatformMessageID)
			return ResultDuplicate, nil
		}
		return 0, err
	}
	return ResultStored, nil
}

// RecordOutbound persists a message the send gateway already delivered. The
// platform assigns the real message id asynchronously, so a locally
// generated placeholder id is stored; no duplicate check applies.
func (s *IngestService) RecordOutbound(ctx context.Context, conversationID uuid.UUID, text string) (message.Message, error) {
	now := s.now().UTC()
	msg := message.Message{
		ID:                uuid.New(),
		ConversationID:    conversationID,
		PlatformMessageID: uuid.New().String(),
		Content:           text,
		MessageType:       message.TypeText,
		Direction:         message.DirectionOutbound,
		Timestamp:         now,
		IsRead:            true,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		conv, err := tx.Conversations().GetByID(ctx, conversationID)
		if err != nil {
			return err
		}
		msg.Platform = conv.Platform
		if err := tx.Messages().Create(ctx, &msg); err != nil {
			return err
		}
		conv.LastMessageAt = &now
		return tx.Conversations().Update(ctx, conv)
	})
	if err != nil {
		return message.Message{}, err
	}
	return msg, nil
}

// resolveContact finds the contact owning the external id, creating it on
// first sight. Creation is best-effort enriched through the gateway; a
// conflict with a concurrent create falls back to one retried lookup.
func (s *IngestService) resolveContact(ctx context.Context, tx repository.Store, externalID string) (contact.Contact, error) {
	existing, err := tx.Contacts().GetByInstagramID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, crm_errors.ErrNotFound) {
		return contact.Contact{}, err
	}

	name := fmt.Sprintf("Instagram User %s", shortID(externalID))
	var username *string
	if info := s.gateway.GetUserInfo(ctx, externalID); info != nil && info.Username != "" {
		name = info.Username
		u := info.Username
		username = &u
	}

	id := externalID
	ct := contact.Contact{
		ID:                uuid.New(),
		Name:              name,
		InstagramID:       &id,
		InstagramUsername: username,
		CreatedAt:         s.now().UTC(),
	}
	err = tx.InTx(ctx, func(inner repository.Store) error {
		return inner.Contacts().Create(ctx, &ct)
	})
	if err != nil {
		if errors.Is(err, crm_errors.ErrAlreadyExists) {
			return tx.Contacts().GetByInstagramID(ctx, externalID)
		}
		return contact.Contact{}, err
	}

	s.log.Infof("created new contact %s for Instagram id %s", ct.ID, externalID)
	return ct, nil
}

// resolveConversation finds or creates the conversation for the contact on
// this platform. Instagram has no separate thread concept, so the sender
// external id doubles as the thread id.
func (s *IngestService) resolveConversation(ctx context.Context, tx repository.Store, contactID uuid.UUID, in domain.InboundMessage) (conversation.Conversation, error) {
	threadID := in.SenderExternalID
	existing, err := tx.Conversations().GetByThread(ctx, contactID, in.Platform, threadID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, crm_errors.ErrNotFound) {
		return conversation.Conversation{}, err
	}

	conv := conversation.Conversation{
		ID:                     uuid.New(),
		ContactID:              contactID,
		Platform:               in.Platform,
		PlatformConversationID: &threadID,
		Status:                 conversation.StatusActive,
		CreatedAt:              s.now().UTC(),
	}
	err = tx.InTx(ctx, func(inner repository.Store) error {
		return inner.Conversations().Create(ctx, &conv)
	})
	if err != nil {
		if errors.Is(err, crm_errors.ErrAlreadyExists) {
			return tx.Conversations().GetByThread(ctx, contactID, in.Platform, threadID)
		}
		return conversation.Conversation{}, err
	}

	s.log.Infof("created new conversation %s for contact %s", conv.ID, contactID)
	return conv, nil
}

func buildMetadata(in domain.InboundMessage) datatypes.JSON {
	meta := map[string]any{
		"event": json.RawMessage(in.Raw),
	}
	if in.Raw == nil {
		meta["event"] = nil
	}
	if in.TimestampEstimated {
		meta["timestamp_estimated"] = true
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
