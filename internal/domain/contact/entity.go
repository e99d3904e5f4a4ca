package contact

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents the contacts table. A contact is created either
// explicitly through the CRUD API or lazily on the first inbound message
// from an unseen platform external id.
type Contact struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"size:200;not null" json:"name"`
	Email             *string    `gorm:"size:500;index" json:"email,omitempty"`
	PhoneNumber       *string    `gorm:"size:50" json:"phone_number,omitempty"`
	InstagramUsername *string    `gorm:"size:200" json:"instagram_username,omitempty"`
	InstagramID       *string    `gorm:"size:200;uniqueIndex" json:"instagram_id,omitempty"`
	FacebookID        *string    `gorm:"size:200;index" json:"facebook_id,omitempty"`
	WhatsAppNumber    *string    `gorm:"size:200" json:"whatsapp_number,omitempty"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	LastContactedAt   *time.Time `json:"last_contacted_at,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}
