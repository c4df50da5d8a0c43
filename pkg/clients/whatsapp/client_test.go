package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/poultry-api/internal/config"
)

func TestSendTextMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})

	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "224600000000", Body: "hola"})
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", resp.MessageID())

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "224600000000", got["to"])
	text, ok := got["text"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hola", text["body"])
}

func TestSendTextMessage_APIError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})

	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, 100, apiErr.Code)
	assert.Equal(t, "Invalid parameter", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
}

func TestMessageID_Empty(t *testing.T) {
	var resp *SendTextMessageResponse
	assert.Empty(t, resp.MessageID())
	assert.Empty(t, (&SendTextMessageResponse{}).MessageID())
}

func TestMarkAsRead(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "12345", BaseURL: srv.URL, APIVersion: "v20.0"})

	require.NoError(t, c.MarkAsRead(context.Background(), "wamid.9"))
	assert.Equal(t, "read", got["status"])
	assert.Equal(t, "wamid.9", got["message_id"])
	assert.Equal(t, "whatsapp", got["messaging_product"])
}

func TestMarkAsRead_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"Unknown message","code":131009}}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "t", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})

	err := c.MarkAsRead(context.Background(), "wamid.missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 131009, apiErr.Code)
	assert.Contains(t, err.Error(), "wamid.missing")
}
