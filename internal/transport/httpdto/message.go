package httpdto

import (
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
)

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required"`
}

// ConversationDetailResponse is a conversation with its contact and
// time-ordered messages.
type ConversationDetailResponse struct {
	Conversation conversation.Conversation `json:"conversation"`
	Contact      contact.Contact           `json:"contact"`
	Messages     []message.Message         `json:"messages"`
}
