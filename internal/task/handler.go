package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/auth"
	"github.com/scholarsync/service-api-go/internal/task/entity"
)

// Handler exposes the task CRUD and analytics endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateRequest is the task creation payload. Description may be omitted or
// null; both land as the empty string.
type CreateRequest struct {
	Title          string          `json:"title"`
	Subject        string          `json:"subject"`
	Description    string          `json:"description"`
	DueDate        *entity.DueDate `json:"due_date"`
	AssignmentType string          `json:"assignment_type"`
	Priority       string          `json:"priority"`
	EstimatedHours *int            `json:"estimated_hours"`
	Grade          *float64        `json:"grade"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("invalid payload"))
		return
	}
	if req.DueDate == nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("due_date is required"))
		return
	}
	t, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), NewTask{
		Title:          req.Title,
		Subject:        req.Subject,
		Description:    req.Description,
		DueDate:        req.DueDate.Time,
		AssignmentType: req.AssignmentType,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
		Grade:          req.Grade,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cs entity.Changeset
	if err := json.NewDecoder(r.Body).Decode(&cs); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("invalid payload"))
		return
	}
	t, err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), r.PathValue("id"), &cs)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.UserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Analytics(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// respondError maps domain sentinels to statuses. Validation failures are
// 4xx with their message; everything unexpected is a 503 so store outages are
// never silently swallowed into defaults.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		h.writeJSON(w, http.StatusNotFound, errBody("task not found"))
	case errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrSubjectRequired),
		errors.Is(err, ErrDueDateNotInFuture),
		errors.Is(err, ErrGradeOutOfRange),
		errors.Is(err, ErrInvalidEnumValue),
		errors.Is(err, ErrNoFieldsToUpdate):
		h.writeJSON(w, http.StatusBadRequest, errBody(err.Error()))
	default:
		h.logger.Warnw("task operation failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
	}
}

func errBody(msg string) map[string]string { return map[string]string{"error": msg} }

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
