package instagram

import "encoding/json"

// Wire structs for the Meta webhook delivery body. Two event shapes arrive
// on the same endpoint: real-time "messaging" events and "changes" events.

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
	Changes   []Change         `json:"changes"`
}

type MessagingEvent struct {
	Sender    User         `json:"sender"`
	Recipient User         `json:"recipient"`
	Timestamp int64        `json:"timestamp"`
	Message   *MessageData `json:"message"`
	Postback  *Postback    `json:"postback"`

	// Raw keeps the event exactly as delivered, persisted with the stored
	// message for audit.
	Raw json.RawMessage `json:"-"`
}

func (m *MessagingEvent) UnmarshalJSON(data []byte) error {
	type alias MessagingEvent
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = MessagingEvent(a)
	m.Raw = append(json.RawMessage(nil), data...)
	return nil
}

type User struct {
	ID string `json:"id"`
}

type MessageData struct {
	Mid         string       `json:"mid"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
	IsEcho      bool         `json:"is_echo"`
}

type Attachment struct {
	Type    string            `json:"type"`
	Payload AttachmentPayload `json:"payload"`
}

type AttachmentPayload struct {
	URL string `json:"url"`
}

type Postback struct {
	Mid     string `json:"mid"`
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Change is decoded eagerly into the variant matching its field name.
// Messages is set only for field == "messages"; every other field (and any
// value that fails to decode) stays in Raw and is ignored downstream, never
// rejected.
type Change struct {
	Field    string
	Messages *MessageChangeValue
	Raw      json.RawMessage
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var wire struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.Field = wire.Field
	c.Raw = wire.Value
	if wire.Field == "messages" && len(wire.Value) > 0 {
		var v MessageChangeValue
		if err := json.Unmarshal(wire.Value, &v); err == nil {
			c.Messages = &v
		}
	}
	return nil
}

// MessageChangeValue is the "messages" change variant. Its timestamp arrives
// as a string and is not always numeric.
type MessageChangeValue struct {
	Sender    User         `json:"sender"`
	Recipient User         `json:"recipient"`
	Timestamp string       `json:"timestamp"`
	Message   *MessageData `json:"message"`
}
