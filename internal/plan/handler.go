package plan

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/auth"
	userrepo "github.com/scholarsync/service-api-go/internal/auth/repo"
)

// Handler exposes the plan-features and plan-update endpoints.
type Handler struct {
	users  *userrepo.UserRepo
	logger *zap.SugaredLogger
}

func NewHandler(users *userrepo.UserRepo, logger *zap.SugaredLogger) *Handler {
	return &Handler{users: users, logger: logger}
}

// Features resolves the caller's current entitlements. Resolution happens on
// every request against the stored tier; nothing is cached.
func (h *Handler) Features(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Warnw("plan features lookup failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, Resolve(u.PlanType))
}

// UpdateRequest is the plan-change payload.
type UpdateRequest struct {
	PlanType string `json:"plan_type"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	tier, err := ParseTier(req.PlanType)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown plan tier"})
		return
	}
	u, err := h.users.UpdatePlan(r.Context(), auth.UserIDFromContext(r.Context()), string(tier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Warnw("plan update failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
		return
	}
	h.logger.Infow("plan updated", "user_id", u.ID, "plan_type", u.PlanType)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":    "plan updated",
		"plan_type":  u.PlanType,
		"updated_at": u.UpdatedAt,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
