package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	crmhttp "realty-crm/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{PhoneNumberID: "123"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://x"})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://x/", PhoneNumberID: "123"})
	require.NoError(t, err)
	assert.Equal(t, "http://x", c.cfg.BaseURL)
	assert.Equal(t, 10*time.Second, c.cfg.Timeout)
}

func TestSendMessage_Success(t *testing.T) {
	var got textMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/555/messages", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIToken: "token-1", PhoneNumberID: "555"})
	require.NoError(t, err)

	id, err := c.SendMessage(context.Background(), "919876543210", "hello")
	require.NoError(t, err)

	assert.Equal(t, "wamid.1", id)
	assert.Equal(t, "919876543210", got.To)
	assert.Equal(t, "whatsapp", got.MessagingProduct)
	assert.Equal(t, "hello", got.Text.Body)
}

func TestSendMessage_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"down"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, PhoneNumberID: "555"})
	require.NoError(t, err)

	_, err = c.SendMessage(context.Background(), "919876543210", "hello")
	require.Error(t, err)

	var statusErr *crmhttp.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.True(t, statusErr.Retryable())
}

func TestSendMessage_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, PhoneNumberID: "555"})
	require.NoError(t, err)

	_, err = c.SendMessage(context.Background(), "919876543210", "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
