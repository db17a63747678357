package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/scholarsync/service-api-go/internal/auth/entity"
)

// Handler exposes HTTP endpoints for registration, login and account lifecycle.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	StudentID string `json:"student_id"`
	Major     string `json:"major"`
	YearLevel int    `json:"year_level"`
}

// AuthResponse is the shared register/login response body.
type AuthResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        *entity.PublicUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("invalid payload"))
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, errBody("email, username and password are required"))
		return
	}
	if req.YearLevel < 0 {
		h.writeJSON(w, http.StatusBadRequest, errBody("year_level must be positive"))
		return
	}
	token, view, err := h.svc.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		StudentID: req.StudentID,
		Major:     req.Major,
		YearLevel: req.YearLevel,
	})
	if err != nil {
		if errors.Is(err, ErrEmailRegistered) {
			h.writeJSON(w, http.StatusConflict, errBody("email already registered"))
			return
		}
		h.logger.Warnw("register failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		return
	}
	h.writeJSON(w, http.StatusCreated, AuthResponse{AccessToken: token, TokenType: "bearer", User: view})
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("invalid payload"))
		return
	}
	token, view, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, errBody("invalid credentials"))
			return
		}
		h.logger.Warnw("login failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		return
	}
	h.writeJSON(w, http.StatusOK, AuthResponse{AccessToken: token, TokenType: "bearer", User: view})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Profile(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.writeJSON(w, http.StatusNotFound, errBody("user not found"))
			return
		}
		h.logger.Warnw("profile lookup failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// RefreshResponse mirrors the login token envelope plus the new expiry window.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Refresh exchanges a still-valid token for a fresh one. It reads the token
// from the Authorization header itself so an expired token gets a precise
// error instead of a generic middleware rejection.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw := bearerToken(r)
	if raw == "" {
		h.writeJSON(w, http.StatusUnauthorized, errBody("authorization header required"))
		return
	}
	token, err := h.svc.Refresh(raw)
	if err != nil {
		switch {
		case errors.Is(err, ErrExpiredToken):
			h.writeJSON(w, http.StatusUnauthorized, errBody("token expired"))
		case errors.Is(err, ErrInvalidToken):
			h.writeJSON(w, http.StatusUnauthorized, errBody("invalid token"))
		default:
			h.logger.Warnw("token refresh failed", "err", err)
			h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		}
		return
	}
	h.writeJSON(w, http.StatusOK, RefreshResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.svc.Tokens().TTL().Seconds()),
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var cs entity.ProfileChangeset
	if err := json.NewDecoder(r.Body).Decode(&cs); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errBody("invalid payload"))
		return
	}
	view, err := h.svc.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), &cs)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoFieldsToUpdate):
			h.writeJSON(w, http.StatusBadRequest, errBody("no fields to update"))
		case errors.Is(err, ErrUserNotFound):
			h.writeJSON(w, http.StatusNotFound, errBody("user not found"))
		default:
			h.logger.Warnw("profile update failed", "err", err)
			h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		}
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := UserIDFromContext(r.Context())
	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.writeJSON(w, http.StatusNotFound, errBody("user not found"))
			return
		}
		h.logger.Warnw("account deletion failed", "err", err)
		h.writeJSON(w, http.StatusServiceUnavailable, errBody("service unavailable"))
		return
	}
	h.logger.Infow("account deleted", "user_id", id)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted", "user_id": id})
}

func errBody(msg string) map[string]string { return map[string]string{"error": msg} }

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
