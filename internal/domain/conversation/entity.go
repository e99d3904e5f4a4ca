package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Conversation statuses.
const (
	StatusActive   = "Active"
	StatusArchived = "Archived"
	StatusClosed   = "Closed"
)

// Conversation represents the conversations table: one messaging thread
// between a contact and the system, scoped to a platform. The composite
// unique index backs the pipeline's get-or-create; for platforms with no
// separate thread concept the sender external id doubles as the thread id.
type Conversation struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContactID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_contact_platform_thread" json:"contact_id"`
	Platform               string     `gorm:"size:50;not null;uniqueIndex:idx_conversations_contact_platform_thread" json:"platform"`
	PlatformConversationID *string    `gorm:"size:200;uniqueIndex:idx_conversations_contact_platform_thread" json:"platform_conversation_id,omitempty"`
	CreatedAt              time.Time  `gorm:"not null" json:"created_at"`
	LastMessageAt          *time.Time `json:"last_message_at,omitempty"`
	Status                 string     `gorm:"size:50;not null;default:Active;index" json:"status"`
	UnreadCount            int        `gorm:"not null;default:0" json:"unread_count"`
}

func (Conversation) TableName() string {
	return "conversations"
}
