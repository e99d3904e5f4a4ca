package instagram

import (
	"strconv"
	"time"

	"social-crm/internal/domain"
	"social-crm/internal/domain/message"
	"social-crm/pkg/logger"
)

// Adapter normalizes the two upstream webhook shapes into canonical inbound
// messages. Echo events, postbacks, non-message changes and events missing
// required fields produce no output; the endpoint acknowledges everything.
type Adapter struct {
	log *logger.Logger
	now func() time.Time
}

func NewAdapter(log *logger.Logger) *Adapter {
	return &Adapter{log: log, now: time.Now}
}

// Normalize walks every entry of the payload and returns the canonical
// messages it contains. Unrecognized object types are ignored.
func (a *Adapter) Normalize(p *WebhookPayload) []domain.InboundMessage {
	if p.Object != "instagram" && p.Object != "page" {
		a.log.Warnf("unexpected webhook object type: %s", p.Object)
		return nil
	}

	var out []domain.InboundMessage
	for _, entry := range p.Entry {
		for _, ev := range entry.Messaging {
			if m, ok := a.fromMessaging(ev); ok {
				out = append(out, m)
			}
		}
		for _, ch := range entry.Changes {
			if ch.Field != "messages" {
				a.log.Infof("ignoring change event field: %s", ch.Field)
				continue
			}
			if m, ok := a.fromChange(ch); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func (a *Adapter) fromMessaging(ev MessagingEvent) (domain.InboundMessage, bool) {
	if ev.Message == nil {
		return domain.InboundMessage{}, false
	}
	if ev.Message.IsEcho {
		a.log.Infof("skipping echo message %s", ev.Message.Mid)
		return domain.InboundMessage{}, false
	}
	if ev.Sender.ID == "" || ev.Message.Mid == "" {
		a.log.Warnf("dropping malformed messaging event: missing sender or message id")
		return domain.InboundMessage{}, false
	}

	m := domain.InboundMessage{
		SenderExternalID:  ev.Sender.ID,
		PlatformMessageID: ev.Message.Mid,
		Platform:          domain.PlatformInstagram,
		Timestamp:         time.UnixMilli(ev.Timestamp).UTC(),
		Raw:               ev.Raw,
	}
	applyContent(&m, ev.Message)
	return m, true
}

func (a *Adapter) fromChange(ch Change) (domain.InboundMessage, bool) {
	v := ch.Messages
	if v == nil || v.Message == nil {
		a.log.Warnf("invalid message change value structure")
		return domain.InboundMessage{}, false
	}
	if v.Message.IsEcho {
		a.log.Infof("skipping echo message %s", v.Message.Mid)
		return domain.InboundMessage{}, false
	}
	if v.Sender.ID == "" || v.Message.Mid == "" {
		a.log.Warnf("dropping malformed message change: missing sender or message id")
		return domain.InboundMessage{}, false
	}

	ts, estimated := a.parseChangeTimestamp(v.Timestamp)
	m := domain.InboundMessage{
		SenderExternalID:   v.Sender.ID,
		PlatformMessageID:  v.Message.Mid,
		Platform:           domain.PlatformInstagram,
		Timestamp:          ts,
		TimestampEstimated: estimated,
		Raw:                ch.Raw,
	}
	applyContent(&m, v.Message)
	return m, true
}

// parseChangeTimestamp interprets the change-shape timestamp string as
// milliseconds since epoch. An unparseable value falls back to the current
// time; the mis-ordering this can cause is a known upstream quirk, so the
// substitution is only flagged, not repaired.
func (a *Adapter) parseChangeTimestamp(s string) (time.Time, bool) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), false
	}
	a.log.Warnf("invalid timestamp format: %q, using current time", s)
	return a.now().UTC(), true
}

// applyContent fills text, type and media URL. Only the first attachment is
// represented; additional attachments in the same event are dropped, which
// mirrors what upstream consumers already expect.
func applyContent(m *domain.InboundMessage, data *MessageData) {
	m.Text = data.Text
	m.MessageType = message.TypeText

	if len(data.Attachments) == 0 {
		return
	}
	att := data.Attachments[0]
	switch att.Type {
	case "image":
		m.MessageType = message.TypeImage
	case "video":
		m.MessageType = message.TypeVideo
	case "audio":
		m.MessageType = message.TypeAudio
	default:
		m.MessageType = message.TypeFile
	}
	if att.Payload.URL != "" {
		url := att.Payload.URL
		m.MediaURL = &url
	}
	m.Text = "[" + m.MessageType + " attachment]"
}
