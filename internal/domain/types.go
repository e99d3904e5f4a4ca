package domain

import "time"

// Platform tags persisted on conversations and messages.
const (
	PlatformInstagram = "Instagram"
	PlatformFacebook  = "Facebook"
	PlatformWhatsApp  = "WhatsApp"
)

// InboundMessage is the canonical shape produced by a platform adapter and
// consumed by the ingestion pipeline. Both upstream webhook shapes normalize
// into this one value.
type InboundMessage struct {
	SenderExternalID  string
	PlatformMessageID string
	Platform          string
	Timestamp         time.Time
	// TimestampEstimated is set when the upstream timestamp could not be
	// parsed and the current time was substituted.
	TimestampEstimated bool
	Text               string
	MessageType        string
	MediaURL           *string
	// Raw carries the upstream event as received, stored with the message
	// for audit/debug.
	Raw []byte
}

// UserInfo is the profile data a platform gateway can resolve for an
// external user id. A nil result means the lookup failed or found nothing.
type UserInfo struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	ProfilePicURL string `json:"profile_pic"`
}
