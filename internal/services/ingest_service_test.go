package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"social-crm/internal/domain"
	"social-crm/internal/domain/contact"
	"social-crm/internal/domain/conversation"
	"social-crm/internal/domain/message"
	"social-crm/internal/repository/repositorytest"
	crm_errors "social-crm/pkg/errors"
	"social-crm/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeGateway struct {
	userInfo *domain.UserInfo
	sendOK   bool

	lookups  []string
	sentTo   []string
	sentText []string
}

func (g *fakeGateway) GetUserInfo(ctx context.Context, externalID string) *domain.UserInfo {
	g.lookups = append(g.lookups, externalID)
	return g.userInfo
}

func (g *fakeGateway) SendText(ctx context.Context, recipientID, text string) bool {
	g.sentTo = append(g.sentTo, recipientID)
	g.sentText = append(g.sentText, text)
	return g.sendOK
}

func (g *fakeGateway) SendMedia(ctx context.Context, recipientID, mediaType, mediaURL string) bool {
	return g.sendOK
}

func nopLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newIngestFixture(gateway *fakeGateway) (*IngestService, *repositorytest.MemStore) {
	store := repositorytest.NewMemStore()
	svc := NewIngestService(store, gateway, nopLogger())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func inbound(mid, sender string, ts time.Time) domain.InboundMessage {
	return domain.InboundMessage{
		SenderExternalID:  sender,
		PlatformMessageID: mid,
		Platform:          domain.PlatformInstagram,
		Timestamp:         ts,
		Text:              "hi",
		MessageType:       message.TypeText,
		Raw:               []byte(`{"mid":"` + mid + `"}`),
	}
}

func TestIngestStoresMessage(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})
	ts := time.UnixMilli(1700000000000).UTC()

	res, err := svc.Ingest(context.Background(), inbound("M1", "U1", ts))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res != ResultStored {
		t.Fatalf("result = %v, want ResultStored", res)
	}

	if len(store.ContactsByID) != 1 {
		t.Fatalf("contacts = %d, want 1", len(store.ContactsByID))
	}
	var ct = firstContact(store)
	if ct.Name != "Instagram User U1" {
		t.Errorf("contact name = %q", ct.Name)
	}
	if ct.InstagramID == nil || *ct.InstagramID != "U1" {
		t.Errorf("contact instagram id = %v", ct.InstagramID)
	}
	if ct.LastContactedAt == nil || !ct.LastContactedAt.Equal(ts) {
		t.Errorf("last contacted = %v, want %v", ct.LastContactedAt, ts)
	}

	if len(store.ConversationsByID) != 1 {
		t.Fatalf("conversations = %d, want 1", len(store.ConversationsByID))
	}
	conv := firstConversation(store)
	if conv.Platform != domain.PlatformInstagram || conv.Status != conversation.StatusActive {
		t.Errorf("conversation = %q/%q, want Instagram/Active", conv.Platform, conv.Status)
	}
	if conv.PlatformConversationID == nil || *conv.PlatformConversationID != "U1" {
		t.Errorf("thread id = %v, want sender external id", conv.PlatformConversationID)
	}
	if conv.UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", conv.UnreadCount)
	}
	if conv.LastMessageAt == nil || !conv.LastMessageAt.Equal(ts) {
		t.Errorf("last message at = %v, want %v", conv.LastMessageAt, ts)
	}

	if len(store.MessagesByID) != 1 {
		t.Fatalf("messages = %d, want 1", len(store.MessagesByID))
	}
	msg := firstMessage(store)
	if msg.Direction != message.DirectionInbound || msg.IsRead {
		t.Errorf("message = %q read=%v, want Inbound unread", msg.Direction, msg.IsRead)
	}
	if msg.Content != "hi" || msg.MessageType != message.TypeText {
		t.Errorf("content = %q/%q", msg.Content, msg.MessageType)
	}
	if len(msg.Metadata) == 0 {
		t.Error("metadata not persisted")
	}
}

func TestIngestIdempotent(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})
	in := inbound("M1", "U1", time.UnixMilli(1700000000000).UTC())

	if _, err := svc.Ingest(context.Background(), in); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	res, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if res != ResultDuplicate {
		t.Fatalf("result = %v, want ResultDuplicate", res)
	}
	if len(store.MessagesByID) != 1 {
		t.Fatalf("messages = %d, want exactly 1", len(store.MessagesByID))
	}
	conv := firstConversation(store)
	if conv.UnreadCount != 1 {
		t.Errorf("unread = %d, duplicate must not increment", conv.UnreadCount)
	}
}

func TestIngestContactReuse(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})
	base := time.UnixMilli(1700000000000).UTC()

	if _, err := svc.Ingest(context.Background(), inbound("M1", "U1", base)); err != nil {
		t.Fatalf("ingest M1: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), inbound("M2", "U1", base.Add(time.Minute))); err != nil {
		t.Fatalf("ingest M2: %v", err)
	}

	if len(store.ContactsByID) != 1 {
		t.Errorf("contacts = %d, want 1", len(store.ContactsByID))
	}
	if len(store.ConversationsByID) != 1 {
		t.Errorf("conversations = %d, want 1", len(store.ConversationsByID))
	}
	if len(store.MessagesByID) != 2 {
		t.Errorf("messages = %d, want 2", len(store.MessagesByID))
	}
	if conv := firstConversation(store); conv.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", conv.UnreadCount)
	}
}

func TestIngestEnrichesContactFromGateway(t *testing.T) {
	gw := &fakeGateway{userInfo: &domain.UserInfo{ID: "U1", Username: "alice"}}
	svc, store := newIngestFixture(gw)

	if _, err := svc.Ingest(context.Background(), inbound("M1", "U1", time.Now().UTC())); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	ct := firstContact(store)
	if ct.Name != "alice" {
		t.Errorf("name = %q, want gateway username", ct.Name)
	}
	if ct.InstagramUsername == nil || *ct.InstagramUsername != "alice" {
		t.Errorf("instagram username = %v", ct.InstagramUsername)
	}
	if len(gw.lookups) != 1 || gw.lookups[0] != "U1" {
		t.Errorf("gateway lookups = %v", gw.lookups)
	}
}

func TestIngestSynthesizedNamePrefix(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})

	longID := "1784012345678901"
	in := inbound("M1", longID, time.Now().UTC())
	if _, err := svc.Ingest(context.Background(), in); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if ct := firstContact(store); ct.Name != "Instagram User 17840123" {
		t.Errorf("name = %q, want 8-char prefix", ct.Name)
	}
}

func TestIngestRecordsTimestampQualityFlag(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})

	in := inbound("M1", "U1", time.Now().UTC())
	in.TimestampEstimated = true
	if _, err := svc.Ingest(context.Background(), in); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var meta map[string]any
	if err := json.Unmarshal(firstMessage(store).Metadata, &meta); err != nil {
		t.Fatalf("metadata decode: %v", err)
	}
	if flagged, _ := meta["timestamp_estimated"].(bool); !flagged {
		t.Errorf("metadata = %v, want timestamp_estimated flag", meta)
	}
}

func TestIngestRejectsMissingIdentity(t *testing.T) {
	svc, _ := newIngestFixture(&fakeGateway{})

	in := inbound("", "U1", time.Now().UTC())
	if _, err := svc.Ingest(context.Background(), in); !errors.Is(err, crm_errors.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestRecordOutbound(t *testing.T) {
	svc, store := newIngestFixture(&fakeGateway{})

	convID := uuid.New()
	threadID := "U1"
	store.ConversationsByID[convID] = conversation.Conversation{
		ID:                     convID,
		ContactID:              uuid.New(),
		Platform:               domain.PlatformInstagram,
		PlatformConversationID: &threadID,
		Status:                 conversation.StatusActive,
		CreatedAt:              time.Now().UTC(),
	}

	msg, err := svc.RecordOutbound(context.Background(), convID, "hello back")
	if err != nil {
		t.Fatalf("record outbound: %v", err)
	}
	if msg.Direction != message.DirectionOutbound || !msg.IsRead {
		t.Errorf("message = %q read=%v, want Outbound read", msg.Direction, msg.IsRead)
	}
	if msg.PlatformMessageID == "" {
		t.Error("placeholder platform message id missing")
	}
	if msg.Platform != domain.PlatformInstagram {
		t.Errorf("platform = %q, want conversation platform", msg.Platform)
	}
	if conv := store.ConversationsByID[convID]; conv.LastMessageAt == nil {
		t.Error("conversation last message at not updated")
	}
	if conv := store.ConversationsByID[convID]; conv.UnreadCount != 0 {
		t.Errorf("unread = %d, outbound must not increment", conv.UnreadCount)
	}
}

func TestRecordOutboundMissingConversation(t *testing.T) {
	svc, _ := newIngestFixture(&fakeGateway{})

	if _, err := svc.RecordOutbound(context.Background(), uuid.New(), "hi"); !errors.Is(err, crm_errors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func firstContact(s *repositorytest.MemStore) (c contact.Contact) {
	for _, v := range s.ContactsByID {
		return v
	}
	return
}

func firstConversation(s *repositorytest.MemStore) (c conversation.Conversation) {
	for _, v := range s.ConversationsByID {
		return v
	}
	return
}

func firstMessage(s *repositorytest.MemStore) (m message.Message) {
	for _, v := range s.MessagesByID {
		return v
	}
	return
}
