package handler

import (
	"net/http"

	"social-crm/internal/platform/instagram"
	"social-crm/internal/services"
	"social-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	verifyToken string
	adapter     *instagram.Adapter
	ingest      *services.IngestService
	log         *logger.Logger
}

func NewWebhookHandler(verifyToken string, adapter *instagram.Adapter, ingest *services.IngestService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{verifyToken: verifyToken, adapter: adapter, ingest: ingest, log: log}
}

// Verify answers the platform's webhook subscription handshake: echo the
// challenge when the shared verify token matches, 403 otherwise.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	challenge := c.Query("hub.challenge")
	token := c.Query("hub.verify_token")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		h.log.Infof("webhook verified successfully")
		c.String(http.StatusOK, challenge)
		return
	}

	h.log.Warnf("webhook verification failed, mode: %s", mode)
	c.Status(http.StatusForbidden)
}

// Receive ingests a webhook delivery. It always acknowledges with 200 —
// including on decode or pipeline failure — so the platform never enters a
// retry storm over our internal problems.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload instagram.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Errorf("failed to decode webhook payload: %s", err.Error())
		c.Status(http.StatusOK)
		return
	}

	for _, m := range h.adapter.Normalize(&payload) {
		if _, err := h.ingest.Ingest(c.Request.Context(), m); err != nil {
			h.log.Errorf("error processing webhook message %s: %s", m.PlatformMessageID, err.Error())
		}
	}

	c.Status(http.StatusOK)
}
