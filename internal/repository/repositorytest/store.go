// Package repositorytest provides an in-memory Store for tests. It mirrors
// the Postgres store's semantics including sentinel errors and the
// uniqueness constraints the ingestion pipeline relies on.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"social-crm/internal/domain/account"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	"social-crm/internal/repository"
	crm_errors "social-crm/pkg/errors"

	"github.com/google/uuid"
)

type MemStore struct {
	mu sync.Mutex

	ContactsByID      map[uuid.UUID]contact.Contact
	ConversationsByID map[uuid.UUID]conversation.Conversation
	MessagesByID      map[uuid.UUID]message.Message
	AccountsByID      map[uuid.UUID]account.PlatformAccount
}

func NewMemStore() *MemStore {
	return &MemStore{
		ContactsByID:      make(map[uuid.UUID]contact.Contact),
		ConversationsByID: make(map[uuid.UUID]conversation.Conversation),
		MessagesByID:      make(map[uuid.UUID]message.Message),
		AccountsByID:      make(map[uuid.UUID]account.PlatformAccount),
	}
}

var _ repository.Store = (*MemStore)(nil)

func (s *MemStore) Contacts() repository.ContactRepository           { return (*memContacts)(s) }
func (s *MemStore) Conversations() repository.ConversationRepository { return (*memConversations)(s) }
func (s *MemStore) Messages() repository.MessageRepository           { return (*memMessages)(s) }
func (s *MemStore) Accounts() repository.AccountRepository           { return (*memAccounts)(s) }

// InTx runs fn against the same store. Rollback is not simulated; tests
// exercise pipeline decisions, not transactional isolation.
func (s *MemStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

type memContacts MemStore

func (r *memContacts) Create(ctx context.Context, c *contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.InstagramID != nil {
		for _, existing := range r.ContactsByID {
			if existing.InstagramID != nil && *existing.InstagramID == *c.InstagramID {
				return crm_errors.ErrAlreadyExists
			}
		}
	}
	r.ContactsByID[c.ID] = *c
	return nil
}

func (r *memContacts) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.ContactsByID[id]
	if !ok {
		return contact.Contact{}, crm_errors.ErrNotFound
	}
	return c, nil
}

func (r *memContacts) GetAll(ctx context.Context) ([]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contact.Contact, 0, len(r.ContactsByID))
	for _, c := range r.ContactsByID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return contactSortKey(out[i]).After(contactSortKey(out[j]))
	})
	return out, nil
}

func contactSortKey(c contact.Contact) time.Time {
	if c.LastContactedAt != nil {
		return *c.LastContactedAt
	}
	return c.CreatedAt
}

func (r *memContacts) GetByInstagramID(ctx context.Context, instagramID string) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.ContactsByID {
		if c.InstagramID != nil && *c.InstagramID == instagramID {
			return c, nil
		}
	}
	return contact.Contact{}, crm_errors.ErrNotFound
}

func (r *memContacts) Update(ctx context.Context, c contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ContactsByID[c.ID]; !ok {
		return crm_errors.ErrNotFound
	}
	r.ContactsByID[c.ID] = c
	return nil
}

func (r *memContacts) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ContactsByID[id]; !ok {
		return crm_errors.ErrNotFound
	}
	for convID, conv := range r.ConversationsByID {
		if conv.ContactID != id {
			continue
		}
		for msgID, msg := range r.MessagesByID {
			if msg.ConversationID == convID {
				delete(r.MessagesByID, msgID)
			}
		}
		delete(r.ConversationsByID, convID)
	}
	delete(r.ContactsByID, id)
	return nil
}

type memConversations MemStore

func (r *memConversations) Create(ctx context.Context, c *conversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ConversationsByID {
		if existing.ContactID == c.ContactID &&
			existing.Platform == c.Platform &&
			strPtrEqual(existing.PlatformConversationID, c.PlatformConversationID) {
			return crm_errors.ErrAlreadyExists
		}
	}
	r.ConversationsByID[c.ID] = *c
	return nil
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *memConversations) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.ConversationsByID[id]
	if !ok {
		return conversation.Conversation{}, crm_errors.ErrNotFound
	}
	return c, nil
}

func (r *memConversations) GetAll(ctx context.Context) ([]conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]conversation.Conversation, 0, len(r.ConversationsByID))
	for _, c := range r.ConversationsByID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return convSortKey(out[i]).After(convSortKey(out[j]))
	})
	return out, nil
}

func convSortKey(c conversation.Conversation) time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

func (r *memConversations) GetByThread(ctx context.Context, contactID uuid.UUID, platform, threadID string) (conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.ConversationsByID {
		if c.ContactID == contactID && c.Platform == platform &&
			c.PlatformConversationID != nil && *c.PlatformConversationID == threadID {
			return c, nil
		}
	}
	return conversation.Conversation{}, crm_errors.ErrNotFound
}

func (r *memConversations) Update(ctx context.Context, c conversation.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ConversationsByID[c.ID]; !ok {
		return crm_errors.ErrNotFound
	}
	r.ConversationsByID[c.ID] = c
	return nil
}

func (r *memConversations) ResetUnread(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.ConversationsByID[id]
	if !ok {
		return nil
	}
	c.UnreadCount = 0
	r.ConversationsByID[id] = c
	return nil
}

type memMessages MemStore

func (r *memMessages) Create(ctx context.Context, m *message.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.MessagesByID {
		if existing.PlatformMessageID == m.PlatformMessageID {
			return crm_errors.ErrAlreadyExists
		}
	}
	r.MessagesByID[m.ID] = *m
	return nil
}

func (r *memMessages) GetByPlatformMessageID(ctx context.Context, platformMessageID string) (message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.MessagesByID {
		if m.PlatformMessageID == platformMessageID {
			return m, nil
		}
	}
	return message.Message{}, crm_errors.ErrNotFound
}

func (r *memMessages) GetConversationMessages(ctx context.Context, conversationID uuid.UUID) ([]message.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []message.Message
	for _, m := range r.MessagesByID {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *memMessages) MarkConversationRead(ctx context.Context, conversationID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.MessagesByID {
		if m.ConversationID == conversationID && !m.IsRead {
			m.IsRead = true
			r.MessagesByID[id] = m
		}
	}
	return nil
}

type memAccounts MemStore

func (r *memAccounts) GetLatestActive(ctx context.Context) (account.PlatformAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *account.PlatformAccount
	for id := range r.AccountsByID {
		a := r.AccountsByID[id]
		if !a.IsActive {
			continue
		}
		if best == nil || a.ConnectedAt.After(best.ConnectedAt) {
			cp := a
			best = &cp
		}
	}
	if best == nil {
		return account.PlatformAccount{}, crm_errors.ErrNotFound
	}
	return *best, nil
}
