package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/service/whatsapp"
)

const maxWebhookBody = 1 << 20

type verifyQuery struct {
	Mode      string `form:"hub.mode"`
	Token     string `form:"hub.verify_token"`
	Challenge string `form:"hub.challenge"`
}

// WebhookHandler is the HTTP side of the WhatsApp command channel.
type WebhookHandler struct {
	channel whatsapp.MessagingService
	logger  *zap.Logger
}

// NewWebhookHandler wraps the channel for gin.
func NewWebhookHandler(channel whatsapp.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{channel: channel, logger: logger}
}

// Register mounts the verification and callback endpoints on /webhook.
func (h *WebhookHandler) Register(r gin.IRoutes) {
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
}

// Verify completes Meta's subscription handshake by echoing hub.challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q verifyQuery
	_ = c.ShouldBindQuery(&q)

	challenge, err := h.channel.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	if err != nil {
		h.logger.Warn("webhook verification rejected", zap.String("mode", q.Mode), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive handles a webhook callback. Anything that decodes is acknowledged with 200,
// even when a command failed, since Meta would otherwise keep redelivering it.
func (h *WebhookHandler) Receive(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("undecodable webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid payload"})
		return
	}

	if err := h.channel.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("webhook processed with errors",
			zap.Int("messages", len(payload.Messages())),
			zap.Error(err))
	}

	c.Status(http.StatusOK)
}
