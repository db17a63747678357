package task

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/auth"
)

func newTestMux(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock) {
	t.Helper()
	svc, mock := newMockService(t)
	h := NewHandler(svc, zap.NewNop().Sugar())

	asUser := func(userID string, fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fn(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", asUser("u1", h.Create))
	mux.HandleFunc("GET /tasks/analytics", asUser("u1", h.Analytics))
	mux.HandleFunc("GET /tasks/{id}", asUser("u1", h.Get))
	mux.HandleFunc("PUT /tasks/{id}", asUser("u1", h.Update))
	mux.HandleFunc("DELETE /tasks/{id}", asUser("u1", h.Delete))
	return mux, mock
}

func TestHandlerCreate(t *testing.T) {
	mux, mock := newTestMux(t)

	mock.ExpectQuery(`INSERT INTO tasks`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	due := time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339)
	body, _ := json.Marshal(map[string]any{
		"title":           "Essay",
		"subject":         "Hist",
		"due_date":        due,
		"assignment_type": "homework",
		"priority":        "medium",
	})
	req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "pending", out["status"])
	assert.Equal(t, "u1", out["user_id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerCreateValidationErrors(t *testing.T) {
	mux, mock := newTestMux(t)

	cases := []map[string]any{
		{"title": "Essay", "subject": "Hist", "assignment_type": "homework", "priority": "medium"}, // no due date
		{"title": "Essay", "subject": "Hist", "due_date": "2020-01-01T00:00:00", "assignment_type": "homework", "priority": "medium"},
		{"title": "", "subject": "Hist", "due_date": "2099-01-01T00:00:00", "assignment_type": "homework", "priority": "medium"},
		{"title": "Essay", "subject": "Hist", "due_date": "2099-01-01T00:00:00", "assignment_type": "nope", "priority": "medium"},
	}
	for i, payload := range cases {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
		resp := httptest.NewRecorder()
		mux.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code, "case %d: %s", i, resp.Body.String())
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerUpdateEmptyBody(t *testing.T) {
	mux, mock := newTestMux(t)

	req := httptest.NewRequest(http.MethodPut, "/tasks/t1", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerGetNotFound(t *testing.T) {
	mux, mock := newTestMux(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE id=\$1 AND user_id=\$2`).
		WithArgs("t-other", "u1").
		WillReturnRows(sqlmock.NewRows(taskCols))

	req := httptest.NewRequest(http.MethodGet, "/tasks/t-other", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerAnalytics(t *testing.T) {
	mux, mock := newTestMux(t)
	now := time.Now()

	rows := sqlmock.NewRows(taskCols).
		AddRow("t1", "u1", "Essay", "Hist", "", now.Add(time.Hour),
			"homework", "medium", "completed", nil, nil, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE user_id=\$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/tasks/analytics", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var out Analytics
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 1, out.TotalTasks)
	assert.Equal(t, 1, out.CompletedTasks)
	assert.InDelta(t, 100.0, out.CompletionRate, 0.0001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandlerStoreFailureIs503(t *testing.T) {
	mux, mock := newTestMux(t)

	mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE user_id=\$1`).
		WillReturnError(assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/tasks/analytics", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
