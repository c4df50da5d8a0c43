// Package whatsapp turns messages sent to the farm's WhatsApp number into records.
package whatsapp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mamadbah2/poultry-api/internal/config"
	"github.com/mamadbah2/poultry-api/internal/domain/models"
	"github.com/mamadbah2/poultry-api/internal/service/commands"
	client "github.com/mamadbah2/poultry-api/pkg/clients/whatsapp"
)

// ErrVerificationFailed is returned when Meta's subscription handshake does not match.
var ErrVerificationFailed = errors.New("webhook verification failed")

const (
	replyTimeout = 10 * time.Second
	// Meta redelivers unacknowledged webhooks for up to a day.
	deliveryMemory = 24 * time.Hour

	failureReply    = "Something went wrong, the record was not saved."
	retryLaterReply = "Storage is unavailable, please send the command again later."
)

// MessagingService is what the webhook handler needs.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// CommandHandler executes a parsed chat command and returns the reply text.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Messenger replies to workers and acknowledges their messages.
type Messenger interface {
	client.Client
	MarkAsRead(ctx context.Context, messageID string) error
}

// Channel is the WhatsApp Cloud API ingestion channel.
type Channel struct {
	verifyToken string
	messenger   Messenger
	commands    CommandHandler
	delivered   *cache.Cache
	logger      *zap.Logger
}

// NewChannel wires the channel. Only cfg.VerifyToken is read.
func NewChannel(cfg config.WhatsAppConfig, messenger Messenger, commands CommandHandler, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{
		verifyToken: cfg.VerifyToken,
		messenger:   messenger,
		commands:    commands,
		delivered:   cache.New(deliveryMemory, time.Hour),
		logger:      logger,
	}
}

// VerifyWebhookToken answers the hub.challenge when mode is subscribe and the token matches.
func (c *Channel) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("%w: unsupported hub.mode %q", ErrVerificationFailed, mode)
	}
	if verifyToken == "" || subtle.ConstantTimeCompare([]byte(verifyToken), []byte(c.verifyToken)) != 1 {
		return "", fmt.Errorf("%w: verify token mismatch", ErrVerificationFailed)
	}
	return challenge, nil
}

// HandleWebhook answers every message of the payload. A message id already seen is
// skipped so a redelivered webhook does not record twice.
func (c *Channel) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var errs []error

	for _, msg := range payload.Messages() {
		if !c.firstDelivery(msg.ID) {
			c.logger.Debug("skipping redelivered message", zap.String("message_id", msg.ID))
			continue
		}

		if err := c.answer(ctx, msg); err != nil {
			c.logger.Error("failed to handle inbound message", zap.String("message_id", msg.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("message %s: %w", msg.ID, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Channel) firstDelivery(messageID string) bool {
	if messageID == "" {
		return true
	}
	return c.delivered.Add(messageID, struct{}{}, cache.DefaultExpiration) == nil
}

func (c *Channel) answer(ctx context.Context, msg models.InboundMessage) error {
	text := strings.TrimSpace(msg.Body())
	if text == "" {
		c.logger.Debug("ignoring message without text", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	if err := c.messenger.MarkAsRead(ctx, msg.ID); err != nil {
		c.logger.Warn("failed to mark message as read", zap.String("message_id", msg.ID), zap.Error(err))
	}

	cmd := models.ParseCommand(text)
	c.logger.Info("inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := c.commands.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		reply = failureReply
		if commands.IsRetryable(err) {
			reply = retryLaterReply
		}
	}

	return errors.Join(err, c.reply(ctx, msg.From, reply))
}

func (c *Channel) reply(ctx context.Context, to, body string) error {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	resp, err := c.messenger.SendTextMessage(ctx, client.SendTextMessageRequest{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	c.logger.Debug("reply sent", zap.String("to", to), zap.String("message_id", resp.MessageID()))
	return nil
}
