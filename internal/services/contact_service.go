package services

import (
	"context"
	"time"

	"social-crm/internal/domain/contact"
	"social-crm/internal/repository"

	"github.com/google/uuid"
)

type ContactService struct {
	store repository.Store
}

func NewContactService(store repository.Store) *ContactService {
	return &ContactService{store: store}
}

// CreateContactInput carries the caller-supplied contact fields; id and
// creation time are assigned here.
type CreateContactInput struct {
	Name              string
	Email             *string
	PhoneNumber       *string
	InstagramUsername *string
	InstagramID       *string
	FacebookID        *string
	WhatsAppNumber    *string
	Notes             *string
}

func (s *ContactService) Create(ctx context.Context, in CreateContactInput) (contact.Contact, error) {
	c := contact.Contact{
		ID:                uuid.New(),
		Name:              in.Name,
		Email:             in.Email,
		PhoneNumber:       in.PhoneNumber,
		InstagramUsername: in.InstagramUsername,
		InstagramID:       in.InstagramID,
		FacebookID:        in.FacebookID,
		WhatsAppNumber:    in.WhatsAppNumber,
		Notes:             in.Notes,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.store.Contacts().Create(ctx, &c); err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

func (s *ContactService) GetAll(ctx context.Context) ([]contact.Contact, error) {
	return s.store.Contacts().GetAll(ctx)
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	return s.store.Contacts().GetByID(ctx, id)
}

func (s *ContactService) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	existing, err := s.store.Contacts().GetByID(ctx, c.ID)
	if err != nil {
		return contact.Contact{}, err
	}
	// Creation time and the pipeline-owned last-contacted stamp are not
	// caller-writable.
	c.CreatedAt = existing.CreatedAt
	c.LastContactedAt = existing.LastContactedAt
	if err := s.store.Contacts().Update(ctx, c); err != nil {
		return contact.Contact{}, err
	}
	return c, nil
}

// Delete removes the contact and cascades to its conversations and messages.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Contacts().Delete(ctx, id)
}
