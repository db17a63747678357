package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	svc, mock := newMockService(t)
	return NewHandler(svc, zap.NewNop().Sugar()), mock
}

func TestHandlerRegisterCreated(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
		WillReturnError(errNoRows())
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	body := `{"email":"a@x.com","username":"demo","password":"secret1","full_name":"Demo","year_level":2}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.Register(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "bearer", out.TokenType)
	assert.NotEmpty(t, out.AccessToken)
	require.NotNil(t, out.User)
	assert.Equal(t, "base", out.User.PlanType)
	assert.NotContains(t, resp.Body.String(), "password", "response must never carry password material")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerRegisterMissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, body := range []string{
		`{"username":"demo","password":"secret1"}`,
		`{"email":"a@x.com","password":"secret1"}`,
		`{"email":"a@x.com","username":"demo"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		resp := httptest.NewRecorder()
		h.Register(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "body: %s", body)
	}
}

func TestHandlerRegisterConflict(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
		WillReturnRows(userRow("u1", "a@x.com", "$2a$04$whatever"))

	body := `{"email":"a@x.com","username":"demo","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.Register(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerLoginUnauthorized(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email=\$1`).
		WillReturnError(errNoRows())

	body := `{"email":"nobody@x.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.Login(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerRefreshRoundTrip(t *testing.T) {
	h, _ := newTestHandler(t)

	tok, err := h.svc.Tokens().Issue("u1", map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp := httptest.NewRecorder()
	h.Refresh(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out RefreshResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, int64(time.Hour.Seconds()), out.ExpiresIn)

	claims, err := h.svc.Tokens().Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestHandlerRefreshWithoutHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
	resp := httptest.NewRecorder()
	h.Refresh(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
