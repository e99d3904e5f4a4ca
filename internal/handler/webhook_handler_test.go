package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"social-crm/internal/domain"
	"social-crm/internal/platform/instagram"
	"social-crm/internal/repository/repositorytest"
	"social-crm/internal/services"
	"social-crm/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubGateway struct{}

func (stubGateway) GetUserInfo(ctx context.Context, externalID string) *domain.UserInfo {
	return nil
}
func (stubGateway) SendText(ctx context.Context, recipientID, text string) bool { return true }

func (stubGateway) SendMedia(ctx context.Context, mediaID, mediaType, mediaURL string) bool {
	return true
}

func newWebhookRouter(t *testing.T) (*gin.Engine, *repositorytest.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := &logger.Logger{Logger: zap.NewNop()}
	store := repositorytest.NewMemStore()
	ingest := services.NewIngestService(store, stubGateway{}, log)
	h := NewWebhookHandler("secret-token", instagram.NewAdapter(log), ingest, log)

	r := gin.New()
	r.GET("/api/webhook", h.Verify)
	r.POST("/api/webhook", h.Receive)
	return r, store
}

func TestWebhookVerify(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token echoes challenge",
			query:      "hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345",
			wantStatus: http.StatusOK,
			wantBody:   "12345",
		},
		{
			name:       "wrong token",
			query:      "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token",
			query:      "hub.mode=subscribe&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode",
			query:      "hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=12345",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newWebhookRouter(t)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/webhook?"+tt.query, nil)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestWebhookReceiveStoresMessage(t *testing.T) {
	r, store := newWebhookRouter(t)

	payload := `{
		"object": "instagram",
		"entry": [{
			"id": "BIZ1",
			"time": 1700000000000,
			"messaging": [{
				"sender": {"id": "U1"},
				"recipient": {"id": "BIZ1"},
				"timestamp": 1700000000000,
				"message": {"mid": "M1", "text": "hi"}
			}]
		}]
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(store.MessagesByID) != 1 {
		t.Fatalf("messages = %d, want 1", len(store.MessagesByID))
	}
	if len(store.ContactsByID) != 1 {
		t.Errorf("contacts = %d, want 1", len(store.ContactsByID))
	}
}

func TestWebhookReceiveAlwaysAcknowledges(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"object": "instagram", "entry": [`},
		{"not json", `hello`},
		{"unknown object", `{"object": "security", "entry": []}`},
		{"empty entries", `{"object": "instagram", "entry": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := newWebhookRouter(t)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", w.Code)
			}
			if len(store.MessagesByID) != 0 {
				t.Errorf("messages = %d, want 0", len(store.MessagesByID))
			}
		})
	}
}
