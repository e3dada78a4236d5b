package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"realty-crm/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, checks map[string]func(context.Context) error, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	srv := newHTTPServer(":0", checks, logger.NewTestLogger(t))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := serve(t, nil, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }

	rec, body := serve(t, map[string]func(context.Context) error{"store": ok, "zeebe": ok}, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])

	rec, body = serve(t, map[string]func(context.Context) error{
		"store": ok,
		"zeebe": func(context.Context) error { return errors.New("gateway unavailable") },
	}, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]interface{}{"zeebe": "gateway unavailable"}, body["failures"])
}

func TestMetrics(t *testing.T) {
	rec, _ := serve(t, nil, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
