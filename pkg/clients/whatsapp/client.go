package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/poultry-api/internal/config"
)

const messagingProduct = "whatsapp"

// Client sends text messages through the WhatsApp Cloud API.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client. It also acknowledges inbound
// messages for the webhook channel.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client. 429 and 5xx responses are retried twice.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.APIVersion).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessageRequest is a plain text message to one recipient.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextMessageResponse lists the ids Meta assigned to the accepted messages.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID returns the id of the first accepted message, if any.
func (r *SendTextMessageResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// APIError is returned when the Cloud API rejects a request.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d, code=%d, message=%s", e.Status, e.Code, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url"`
	} `json:"text"`
}

type readReceipt struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// SendTextMessage delivers req.Body to req.To.
func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	payload := textPayload{
		MessagingProduct: messagingProduct,
		RecipientType:    "individual",
		To:               req.To,
		Type:             "text",
	}
	payload.Text.Body = req.Body
	payload.Text.PreviewURL = req.PreviewURL

	result := new(SendTextMessageResponse)
	if err := c.post(ctx, payload, result); err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}
	return result, nil
}

// MarkAsRead shows the blue ticks on an inbound message.
func (c *APIClient) MarkAsRead(ctx context.Context, messageID string) error {
	if err := c.post(ctx, readReceipt{MessagingProduct: messagingProduct, Status: "read", MessageID: messageID}, nil); err != nil {
		return fmt.Errorf("mark message %s as read: %w", messageID, err)
	}
	return nil
}

func (c *APIClient) post(ctx context.Context, body, result any) error {
	envelope := new(errorEnvelope)

	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetError(envelope)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post(c.phoneNumberID + "/messages")
	if err != nil {
		return err
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{
			Status:  resp.StatusCode(),
			Code:    envelope.Error.Code,
			Message: envelope.Error.Message,
		}
	}
	return nil
}
