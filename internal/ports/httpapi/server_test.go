package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiddencard/internal/auth"
	"hiddencard/internal/config"
)

func newTestServer() (*Server, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret", "hiddencard", time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.Default(), tokens, "abc123", logger), tokens
}

func TestInfoIssuesAUsableToken(t *testing.T) {
	srv, tokens := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var info InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, config.Default().PublicURL, info.GameURL)
	assert.Equal(t, "abc123", info.CertHash)
	require.NotEmpty(t, info.Token)

	id, err := tokens.Verify(info.Token)
	require.NoError(t, err)
	assert.Equal(t, info.ClientID, string(id))
}

func TestInfoMintsDistinctClientIDs(t *testing.T) {
	srv, _ := newTestServer()

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/info", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var info InfoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		ids[info.ClientID] = true
	}
	assert.Len(t, ids, 3)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
