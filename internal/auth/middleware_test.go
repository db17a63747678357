package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedEcho(t *testing.T, tokens *TokenService) http.Handler {
	t.Helper()
	return Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserIDFromContext(r.Context())))
	}))
}

func TestMiddlewareAllowsValidToken(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	tok, err := tokens.Issue("u1", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp := httptest.NewRecorder()
	protectedEcho(t, tokens).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "u1", resp.Body.String())
}

func TestMiddlewareRejections(t *testing.T) {
	tokens := NewTokenService(testSecret, time.Hour)
	expired := &TokenService{secret: []byte(testSecret), ttl: -time.Hour}
	expiredTok, err := expired.Issue("u1", nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer garbage"},
		{"expired token", "Bearer " + expiredTok},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp := httptest.NewRecorder()
			protectedEcho(t, tokens).ServeHTTP(resp, req)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}
