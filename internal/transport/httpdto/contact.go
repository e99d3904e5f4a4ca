package httpdto

// CreateContactRequest carries the writable contact fields.
type CreateContactRequest struct {
	Name              string  `json:"name" binding:"required"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phone_number"`
	InstagramUsername *string `json:"instagram_username"`
	InstagramID       *string `json:"instagram_id"`
	FacebookID        *string `json:"facebook_id"`
	WhatsAppNumber    *string `json:"whatsapp_number"`
	Notes             *string `json:"notes"`
}

type UpdateContactRequest struct {
	Name              string  `json:"name" binding:"required"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phone_number"`
	InstagramUsername *string `json:"instagram_username"`
	InstagramID       *string `json:"instagram_id"`
	FacebookID        *string `json:"facebook_id"`
	WhatsAppNumber    *string `json:"whatsapp_number"`
	Notes             *string `json:"notes"`
}
