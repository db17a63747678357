package assist

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/auth"
	userrepo "github.com/scholarsync/service-api-go/internal/auth/repo"
	"github.com/scholarsync/service-api-go/internal/plan"
)

// ErrInsufficientPlan rejects assistance requests from tiers without AI access.
var ErrInsufficientPlan = errors.New("plan does not include ai features")

// Handler exposes the AI assistance endpoint, gated by plan entitlements.
type Handler struct {
	svc    *Service
	users  *userrepo.UserRepo
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, users *userrepo.UserRepo, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, users: users, logger: logger}
}

// Generate produces a study-assistance document. The caller's entitlements
// are resolved fresh on every request; a plan change takes effect immediately.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.logger.Warnw("assist user lookup failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
		return
	}
	if !plan.Resolve(u.PlanType).AIFeatures {
		h.writeJSON(w, http.StatusForbidden, map[string]string{"error": ErrInsufficientPlan.Error()})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if req.Subject == "" || req.AssignmentType == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "subject and assignment_type are required"})
		return
	}
	if req.DifficultyLevel == "" {
		req.DifficultyLevel = "medium"
	}

	resp, err := h.svc.Generate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ai service unavailable"})
			return
		}
		h.logger.Warnw("assistance generation failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
