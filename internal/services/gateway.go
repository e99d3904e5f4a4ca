package services

import (
	"context"

	"social-crm/internal/domain"
)

// PlatformGateway is the outbound capability surface of the messaging
// platform. Implementations report every failure as a nil result or false;
// nothing is thrown past this boundary and no retries happen behind it.
type PlatformGateway interface {
	GetUserInfo(ctx context.Context, externalID string) *domain.UserInfo
	SendText(ctx context.Context, recipientID, text string) bool
	SendMedia(ctx context.Context, recipientID, mediaType, mediaURL string) bool
}
