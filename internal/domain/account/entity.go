package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlatformAccount represents the platform_accounts table: a connected
// Instagram business account whose access token backs outbound Graph API
// calls when no token is supplied through configuration.
type PlatformAccount struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessAccountID string         `gorm:"size:200;not null;uniqueIndex" json:"business_account_id"`
	Username          string         `gorm:"size:200;not null;index" json:"username"`
	AccessToken       string         `gorm:"not null" json:"-"`
	PageID            *string        `gorm:"size:200" json:"page_id,omitempty"`
	ConnectedAt       time.Time      `gorm:"not null" json:"connected_at"`
	TokenExpiresAt    *time.Time     `json:"token_expires_at,omitempty"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	Metadata          datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (PlatformAccount) TableName() string {
	return "platform_accounts"
}
