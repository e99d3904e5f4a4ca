package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"social-crm/internal/domain"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	"social-crm/internal/repository/repositorytest"
	crm_errors "social-crm/pkg/errors"

	"github.com/google/uuid"
)

func TestContactCreateAndGet(t *testing.T) {
	store := repositorytest.NewMemStore()
	svc := NewContactService(store)

	igID := "U1"
	created, err := svc.Create(context.Background(), CreateContactInput{Name: "alice", InstagramID: &igID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("id not assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("created at not assigned")
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "alice" || got.InstagramID == nil || *got.InstagramID != "U1" {
		t.Errorf("got = %+v", got)
	}
}

func TestContactCreateDuplicateInstagramID(t *testing.T) {
	store := repositorytest.NewMemStore()
	svc := NewContactService(store)

	igID := "U1"
	if _, err := svc.Create(context.Background(), CreateContactInput{Name: "alice", InstagramID: &igID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(context.Background(), CreateContactInput{Name: "impostor", InstagramID: &igID})
	if !errors.Is(err, crm_errors.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestContactUpdatePreservesSystemFields(t *testing.T) {
	store := repositorytest.NewMemStore()
	svc := NewContactService(store)

	created, err := svc.Create(context.Background(), CreateContactInput{Name: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	lastContacted := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	withStamp := created
	withStamp.LastContactedAt = &lastContacted
	store.ContactsByID[created.ID] = withStamp

	updated, err := svc.Update(context.Background(), contact.Contact{ID: created.ID, Name: "alice smith"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "alice smith" {
		t.Errorf("name = %q", updated.Name)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
	if updated.LastContactedAt == nil || !updated.LastContactedAt.Equal(lastContacted) {
		t.Errorf("last contacted = %v, want preserved %v", updated.LastContactedAt, lastContacted)
	}
}

func TestContactUpdateMissing(t *testing.T) {
	svc := NewContactService(repositorytest.NewMemStore())

	_, err := svc.Update(context.Background(), contact.Contact{ID: uuid.New(), Name: "nobody"})
	if !errors.Is(err, crm_errors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestContactDeleteCascades(t *testing.T) {
	store := repositorytest.NewMemStore()
	svc := NewContactService(store)

	created, err := svc.Create(context.Background(), CreateContactInput{Name: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	threadID := "U1"
	conv := conversation.Conversation{
		ID:                     uuid.New(),
		ContactID:              created.ID,
		Platform:               domain.PlatformInstagram,
		PlatformConversationID: &threadID,
		Status:                 conversation.StatusActive,
		CreatedAt:              time.Now().UTC(),
	}
	store.ConversationsByID[conv.ID] = conv
	msg := message.Message{
		ID:                uuid.New(),
		ConversationID:    conv.ID,
		Platform:          domain.PlatformInstagram,
		PlatformMessageID: "M1",
		Content:           "hi",
		MessageType:       message.TypeText,
		Direction:         message.DirectionInbound,
		Timestamp:         time.Now().UTC(),
	}
	store.MessagesByID[msg.ID] = msg

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.ContactsByID) != 0 || len(store.ConversationsByID) != 0 || len(store.MessagesByID) != 0 {
		t.Errorf("leftovers: contacts=%d conversations=%d messages=%d",
			len(store.ContactsByID), len(store.ConversationsByID), len(store.MessagesByID))
	}
}
