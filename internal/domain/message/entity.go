package message

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Message types.
const (
	TypeText  = "Text"
	TypeImage = "Image"
	TypeVideo = "Video"
	TypeAudio = "Audio"
	TypeFile  = "File"
)

// Message directions.
const (
	DirectionInbound  = "Inbound"
	DirectionOutbound = "Outbound"
)

// Message represents the messages table. PlatformMessageID is the
// idempotency key for inbound traffic; outbound messages get a locally
// generated placeholder id since the platform's real id is not available
// synchronously. Rows are immutable except for the read flag.
type Message struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_messages_conversation_timestamp" json:"conversation_id"`
	PlatformMessageID string         `gorm:"size:200;not null;uniqueIndex" json:"platform_message_id"`
	Platform          string         `gorm:"size:50;not null" json:"platform"`
	Content           string         `gorm:"not null" json:"content"`
	MessageType       string         `gorm:"size:50;not null;default:Text" json:"message_type"`
	Direction         string         `gorm:"size:50;not null" json:"direction"`
	Timestamp         time.Time      `gorm:"not null;index:idx_messages_conversation_timestamp" json:"timestamp"`
	IsRead            bool           `gorm:"not null;default:false" json:"is_read"`
	MediaURL          *string        `gorm:"size:500" json:"media_url,omitempty"`
	Metadata          datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
