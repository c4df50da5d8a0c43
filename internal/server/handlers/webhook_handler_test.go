package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

type fakeMessaging struct {
	verifyErr error
	handleErr error
	payloads  []models.WebhookPayload
}

func (f *fakeMessaging) VerifyWebhookToken(_, _, challenge string) (string, error) {
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	f.payloads = append(f.payloads, payload)
	return f.handleErr
}

func newWebhookEngine(svc *fakeMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewWebhookHandler(svc, nil).Register(engine)
	return engine
}

func TestWebhookVerify(t *testing.T) {
	engine := newWebhookEngine(&fakeMessaging{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=98765", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "98765", rec.Body.String())
}

func TestWebhookVerify_Rejected(t *testing.T) {
	engine := newWebhookEngine(&fakeMessaging{verifyErr: errors.New("invalid verify token")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=guess&hub.challenge=98765", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "98765")
}

func TestWebhookReceive(t *testing.T) {
	svc := &fakeMessaging{}
	engine := newWebhookEngine(svc)

	body := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{"messaging_product":"whatsapp","messages":[{"from":"221770000001","id":"wamid.1","type":"text","text":{"body":"/resumen"}}]}}]}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.payloads, 1)
	require.Len(t, svc.payloads[0].Entry, 1)
	msgs := svc.payloads[0].Entry[0].Changes[0].Value.Messages
	require.Len(t, msgs, 1)
	assert.Equal(t, "/resumen", msgs[0].Body())
}

func TestWebhookReceive_ProcessingErrorIsAcknowledged(t *testing.T) {
	engine := newWebhookEngine(&fakeMessaging{handleErr: errors.New("storage down")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"whatsapp_business_account"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookReceive_MalformedPayload(t *testing.T) {
	svc := &fakeMessaging{}
	engine := newWebhookEngine(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.payloads)
}
